package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/service"
	"github.com/pkordes/tripstore/internal/store"
)

func TestRoomService_Create_AppendsToOrder(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()

	second, err := w.svc.Rooms.Create(ctx, w.trip.ID, domain.NewRoom{Name: "Den", Capacity: 1})
	require.NoError(t, err)
	third, err := w.svc.Rooms.Create(ctx, w.trip.ID, domain.NewRoom{Name: "Attic", Capacity: 3})
	require.NoError(t, err)

	assert.Equal(t, 0, w.room.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 2, third.Order)
}

func TestRoomService_Create_Invalid(t *testing.T) {
	for _, in := range []domain.NewRoom{
		{Name: "Loft", Capacity: 0},
		{Name: "Loft", Capacity: -2},
		{Name: " ", Capacity: 2},
	} {
		svc := service.NewRoomService(forbidTx{t}, repo.Repos{})

		_, err := svc.Create(context.Background(), "trip-1", in)

		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
	}
}

func TestRoomService_Create_UnknownTrip(t *testing.T) {
	svc, _ := newServices(t)

	_, err := svc.Rooms.Create(context.Background(), "ghost", domain.NewRoom{Name: "Loft", Capacity: 2})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomService_Update_WrongTripLeavesRoomUntouched(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()

	_, err := w.svc.Rooms.UpdateWithOwnershipCheck(ctx, "some-other-trip", w.room.ID, domain.RoomPatch{
		Name: ptr("Hijacked"), Capacity: ptr(9),
	})

	var oe *domain.OwnershipError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "some-other-trip", oe.ExpectedTripID)
	assert.Equal(t, w.trip.ID, oe.ActualTripID)

	got, err := w.svc.Rooms.Get(ctx, w.room.ID)
	require.NoError(t, err)
	assert.Equal(t, w.room, got)
}

func TestRoomService_Update_Valid(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()

	got, err := w.svc.Rooms.UpdateWithOwnershipCheck(ctx, w.trip.ID, w.room.ID, domain.RoomPatch{
		Capacity: ptr(4), Description: domain.SetTo("sea view"),
	})
	require.NoError(t, err)

	stored, err := w.svc.Rooms.Get(ctx, w.room.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
	assert.Equal(t, 4, stored.Capacity)
	assert.Equal(t, "Loft", stored.Name)
}

func TestRoomService_Update_NotFound(t *testing.T) {
	w := newTripWorld(t)

	_, err := w.svc.Rooms.UpdateWithOwnershipCheck(context.Background(), w.trip.ID, "ghost", domain.RoomPatch{Capacity: ptr(3)})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomService_Delete_CascadesAssignments(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	_, err := w.svc.Assignments.Create(ctx, w.trip.ID, domain.NewRoomAssignment{
		RoomID: w.room.ID, PersonID: w.person.ID, StartDate: date("2024-07-15"), EndDate: date("2024-07-17"),
	})
	require.NoError(t, err)

	require.NoError(t, w.svc.Rooms.DeleteWithOwnershipCheck(ctx, w.trip.ID, w.room.ID))

	assert.Equal(t, int64(0), count(t, w.store, store.RoomAssignments, "room_id", w.room.ID))
	_, err = w.svc.Rooms.Get(ctx, w.room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, w.svc.Rooms.DeleteWithOwnershipCheck(ctx, w.trip.ID, w.room.ID), "repeat delete is a no-op")
}

func TestRoomService_Delete_WrongTrip(t *testing.T) {
	w := newTripWorld(t)

	err := w.svc.Rooms.DeleteWithOwnershipCheck(context.Background(), "other", w.room.ID)

	assert.ErrorIs(t, err, domain.ErrOwnership)
	assert.Equal(t, int64(1), count(t, w.store, store.Rooms, "id", w.room.ID))
}

func TestRoomService_Reorder(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	r1 := w.room
	r2, err := w.svc.Rooms.Create(ctx, w.trip.ID, domain.NewRoom{Name: "Den", Capacity: 1})
	require.NoError(t, err)
	r3, err := w.svc.Rooms.Create(ctx, w.trip.ID, domain.NewRoom{Name: "Attic", Capacity: 1})
	require.NoError(t, err)

	require.NoError(t, w.svc.Rooms.Reorder(ctx, w.trip.ID, []string{r3.ID, r1.ID, r2.ID}))

	rooms, err := w.svc.Rooms.ListByTrip(ctx, w.trip.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, []string{r3.ID, r1.ID, r2.ID}, []string{rooms[0].ID, rooms[1].ID, rooms[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{rooms[0].Order, rooms[1].Order, rooms[2].Order})
}

func TestRoomService_Reorder_ForeignRoomChangesNothing(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	r2, err := w.svc.Rooms.Create(ctx, w.trip.ID, domain.NewRoom{Name: "Den", Capacity: 1})
	require.NoError(t, err)
	other, err := w.svc.Trips.Create(ctx, validNewTrip())
	require.NoError(t, err)
	foreign, err := w.svc.Rooms.Create(ctx, other.ID, domain.NewRoom{Name: "Elsewhere", Capacity: 1})
	require.NoError(t, err)

	err = w.svc.Rooms.Reorder(ctx, w.trip.ID, []string{r2.ID, w.room.ID, foreign.ID})
	assert.ErrorIs(t, err, domain.ErrOwnership)

	err = w.svc.Rooms.Reorder(ctx, w.trip.ID, []string{r2.ID, "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rooms, err := w.svc.Rooms.ListByTrip(ctx, w.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, w.room.ID, rooms[0].ID, "no partial reordering")
	assert.Equal(t, 0, rooms[0].Order)
	assert.Equal(t, 1, rooms[1].Order)
}

func TestRoomService_Reorder_DuplicateID(t *testing.T) {
	svc := service.NewRoomService(forbidTx{t}, repo.Repos{})

	err := svc.Reorder(context.Background(), "trip-1", []string{"a", "b", "a"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

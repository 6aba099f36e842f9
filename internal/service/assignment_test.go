package service_test

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/service"
	"github.com/pkordes/tripstore/internal/store"
)

func (w tripWorld) assignment(start, end string) domain.NewRoomAssignment {
	return domain.NewRoomAssignment{
		RoomID: w.room.ID, PersonID: w.person.ID, StartDate: date(start), EndDate: date(end),
	}
}

func TestAssignmentService_Create_ValidatesRangeBeforeWriting(t *testing.T) {
	svc := service.NewAssignmentService(forbidTx{t}, repo.Repos{})
	in := domain.NewRoomAssignment{RoomID: "r1", PersonID: "p1", StartDate: date("2024-07-16"), EndDate: date("2024-07-15")}

	_, err := svc.Create(context.Background(), "trip-1", in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// TestAssignmentService_Create_RangeProperty checks that creation succeeds
// exactly when start <= end, over random pairs within a month.
func TestAssignmentService_Create_RangeProperty(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	base := date("2024-07-01")
	rng := rand.New(rand.NewPCG(1, 2))

	for range 60 {
		start := base.AddDays(rng.IntN(30))
		end := base.AddDays(rng.IntN(30))
		_, err := w.svc.Assignments.Create(ctx, w.trip.ID, domain.NewRoomAssignment{
			RoomID: w.room.ID, PersonID: w.person.ID, StartDate: start, EndDate: end,
		})
		if start.After(end) {
			assert.ErrorIs(t, err, domain.ErrValidation, "%s > %s", start, end)
		} else {
			assert.NoError(t, err, "%s <= %s", start, end)
		}
	}
}

func TestAssignmentService_Create_ForeignMembers(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	other, err := w.svc.Trips.Create(ctx, validNewTrip())
	require.NoError(t, err)
	stranger, err := w.svc.People.Create(ctx, other.ID, domain.NewPerson{Name: "Eve", Color: domain.MustParseHexColor("#ABCDEF")})
	require.NoError(t, err)

	in := w.assignment("2024-07-15", "2024-07-16")
	in.PersonID = stranger.ID
	_, err = w.svc.Assignments.Create(ctx, w.trip.ID, in)
	assert.ErrorIs(t, err, domain.ErrOwnership)

	in = w.assignment("2024-07-15", "2024-07-16")
	in.RoomID = "ghost"
	_, err = w.svc.Assignments.Create(ctx, w.trip.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Trip 2024-07-15..22, room of capacity 2, one person.
func TestAssignmentService_ConflictScenario(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()

	_, err := w.svc.Assignments.Create(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-20"))
	require.NoError(t, err)

	tests := []struct {
		start, end string
		want       bool
	}{
		{"2024-07-20", "2024-07-25", true},  // shares the last day
		{"2024-07-01", "2024-07-14", false}, // ends the day before
		{"2024-07-21", "2024-07-30", false}, // starts the day after
	}
	for _, tc := range tests {
		got, err := w.svc.Assignments.CheckConflict(ctx, w.trip.ID, w.person.ID, date(tc.start), date(tc.end), "")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s..%s", tc.start, tc.end)
	}
}

// TestAssignmentService_CheckConflict_Property compares the detector against
// a <= d && b >= c for random and boundary-equal ranges.
func TestAssignmentService_CheckConflict_Property(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	base := date("2024-07-01")
	rng := rand.New(rand.NewPCG(7, 11))

	existing, err := w.svc.Assignments.Create(ctx, w.trip.ID, domain.NewRoomAssignment{
		RoomID: w.room.ID, PersonID: w.person.ID, StartDate: base.AddDays(10), EndDate: base.AddDays(14),
	})
	require.NoError(t, err)
	c, d := existing.StartDate, existing.EndDate

	check := func(a, b domain.Date) {
		t.Helper()
		want := !a.After(d) && !b.Before(c)
		got, err := w.svc.Assignments.CheckConflict(ctx, w.trip.ID, w.person.ID, a, b, "")
		require.NoError(t, err)
		assert.Equal(t, want, got, "[%s,%s] vs [%s,%s]", a, b, c, d)
	}

	// Boundary-equal values around both ends.
	for _, off := range []int{-2, -1, 0, 1, 2} {
		check(c.AddDays(off), c.AddDays(off))
		check(d.AddDays(off), d.AddDays(off+3))
		check(c.AddDays(off-3), c.AddDays(off))
	}
	for range 100 {
		a := base.AddDays(rng.IntN(25))
		check(a, a.AddDays(rng.IntN(6)))
	}
}

func TestAssignmentService_CheckConflict_ExcludeAndScope(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	a, err := w.svc.Assignments.Create(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-17"))
	require.NoError(t, err)

	got, err := w.svc.Assignments.CheckConflict(ctx, w.trip.ID, w.person.ID, date("2024-07-16"), date("2024-07-18"), a.ID)
	require.NoError(t, err)
	assert.False(t, got, "the assignment being edited is ignored")

	got, err = w.svc.Assignments.CheckConflict(ctx, "other-trip", w.person.ID, date("2024-07-16"), date("2024-07-18"), "")
	require.NoError(t, err)
	assert.False(t, got, "only the given trip is consulted")
}

func TestAssignmentService_AssignRoom_RejectsOverlap(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	_, err := w.svc.Assignments.AssignRoom(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-17"))
	require.NoError(t, err)

	_, err = w.svc.Assignments.AssignRoom(ctx, w.trip.ID, w.assignment("2024-07-17", "2024-07-19"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = w.svc.Assignments.AssignRoom(ctx, w.trip.ID, w.assignment("2024-07-18", "2024-07-19"))
	assert.NoError(t, err, "adjacent day is free")
}

// TestAssignmentService_AssignRoom_ConcurrentCallers races identical
// requests; the check and the insert share a transaction, so exactly one wins.
func TestAssignmentService_AssignRoom_ConcurrentCallers(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	const callers = 8

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = w.svc.Assignments.AssignRoom(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-16"))
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(1), count(t, w.store, store.RoomAssignments, "person_id", w.person.ID))
}

func TestAssignmentService_Update_ValidatesAgainstStoredStart(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	a, err := w.svc.Assignments.Create(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-17"))
	require.NoError(t, err)

	_, err = w.svc.Assignments.UpdateWithOwnershipCheck(ctx, w.trip.ID, a.ID, domain.RoomAssignmentPatch{
		EndDate: ptr(date("2024-07-14")),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := w.svc.Assignments.UpdateWithOwnershipCheck(ctx, w.trip.ID, a.ID, domain.RoomAssignmentPatch{
		EndDate: ptr(date("2024-07-15")),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-15..2024-07-15", got.Range().String())
}

func TestAssignmentService_Update_MoveToForeignRoom(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	a, err := w.svc.Assignments.Create(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-17"))
	require.NoError(t, err)
	other, err := w.svc.Trips.Create(ctx, validNewTrip())
	require.NoError(t, err)
	foreign, err := w.svc.Rooms.Create(ctx, other.ID, domain.NewRoom{Name: "Elsewhere", Capacity: 1})
	require.NoError(t, err)

	_, err = w.svc.Assignments.UpdateWithOwnershipCheck(ctx, w.trip.ID, a.ID, domain.RoomAssignmentPatch{RoomID: &foreign.ID})

	assert.ErrorIs(t, err, domain.ErrOwnership)
	got, err := w.svc.Assignments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, w.room.ID, got.RoomID)
}

func TestAssignmentService_Delete(t *testing.T) {
	w := newTripWorld(t)
	ctx := context.Background()
	a, err := w.svc.Assignments.Create(ctx, w.trip.ID, w.assignment("2024-07-15", "2024-07-17"))
	require.NoError(t, err)

	assert.ErrorIs(t, w.svc.Assignments.DeleteWithOwnershipCheck(ctx, "other", a.ID), domain.ErrOwnership)
	require.NoError(t, w.svc.Assignments.DeleteWithOwnershipCheck(ctx, w.trip.ID, a.ID))
	require.NoError(t, w.svc.Assignments.DeleteWithOwnershipCheck(ctx, w.trip.ID, a.ID))

	list, err := w.svc.Assignments.ListByTrip(ctx, w.trip.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

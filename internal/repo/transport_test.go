package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/domain"
)

func transportFixture(id, personID, at string) domain.Transport {
	return domain.Transport{
		ID: id, TripID: "trip-1", PersonID: personID, Type: domain.Arrival,
		Datetime: domain.MustParseDateTime(at), Location: "Geneva Airport",
	}
}

func TestTransportRepo_RoundTrip(t *testing.T) {
	r := newTestRepos(t).Transports
	ctx := context.Background()
	input := transportFixture("t1", "p1", "2024-07-15T14:30:00+02:00")
	input.TransportMode = ptr("flight")
	input.TransportNumber = ptr("LX 345")
	input.NeedsPickup = true
	input.DriverID = ptr("p2")

	_, err := r.Create(ctx, input)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestTransportRepo_ListByTripID_ByDatetime(t *testing.T) {
	r := newTestRepos(t).Transports
	ctx := context.Background()
	for _, tr := range []domain.Transport{
		transportFixture("late", "p1", "2024-07-22T10:00:00Z"),
		transportFixture("early", "p2", "2024-07-15T08:00:00Z"),
	} {
		_, err := r.Create(ctx, tr)
		require.NoError(t, err)
	}

	got, err := r.ListByTripID(ctx, "trip-1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
}

func TestTransportRepo_ClearDriver(t *testing.T) {
	r := newTestRepos(t).Transports
	ctx := context.Background()
	driven := transportFixture("t1", "p1", "2024-07-15T08:00:00Z")
	driven.DriverID = ptr("p9")
	other := transportFixture("t2", "p2", "2024-07-15T09:00:00Z")
	other.DriverID = ptr("p8")
	for _, tr := range []domain.Transport{driven, other} {
		_, err := r.Create(ctx, tr)
		require.NoError(t, err)
	}

	n, err := r.ClearDriver(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.DriverID)
	assert.Equal(t, "p1", got.PersonID)

	untouched, err := r.GetByID(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, ptr("p8"), untouched.DriverID)
}

func TestTransportRepo_Patch_NullableFields(t *testing.T) {
	r := newTestRepos(t).Transports
	ctx := context.Background()
	input := transportFixture("t1", "p1", "2024-07-15T08:00:00Z")
	input.Notes = ptr("gate B")
	_, err := r.Create(ctx, input)
	require.NoError(t, err)

	err = r.Patch(ctx, "t1", domain.TransportPatch{
		Notes:         domain.Clear[string](),
		TransportMode: domain.SetTo("train"),
		NeedsPickup:   ptr(true),
	})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
	assert.Equal(t, ptr("train"), got.TransportMode)
	assert.True(t, got.NeedsPickup)
}

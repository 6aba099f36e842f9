package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/service"
	"github.com/pkordes/tripstore/internal/store"
	"github.com/pkordes/tripstore/testutil"
)

// ---- helpers ---------------------------------------------------------------

func ptr[T any](v T) *T { return &v }

func date(s string) domain.Date { return domain.MustParseDate(s) }

// fixedClock returns a clock that advances by one millisecond per reading,
// so updatedAt changes are observable without sleeping.
func fixedClock(start int64) ids.Clock {
	now := start
	return func() int64 {
		now++
		return now
	}
}

// newServices wires every service over a fresh SQLite store.
func newServices(t *testing.T) (*service.Services, *store.Store) {
	t.Helper()
	s := testutil.NewStore(t)
	return service.New(s, repo.New(s), fixedClock(1_720_000_000_000)), s
}

// forbidTx is a Transactor that fails the test if a transaction is opened.
// Validation tests use it to prove bad input never reaches the store.
type forbidTx struct{ t *testing.T }

func (f forbidTx) Update(context.Context, []*store.Collection, func(context.Context, *store.Tx) error) error {
	f.t.Fatal("transaction opened for invalid input")
	return nil
}

func (f forbidTx) View(context.Context, []*store.Collection, func(context.Context, *store.Tx) error) error {
	f.t.Fatal("transaction opened for invalid input")
	return nil
}

var _ service.Transactor = forbidTx{}

// tripWorld is the scenario fixture: one trip with a room of capacity 2 and
// one person.
type tripWorld struct {
	svc    *service.Services
	store  *store.Store
	trip   domain.Trip
	room   domain.Room
	person domain.Person
}

func newTripWorld(t *testing.T) tripWorld {
	t.Helper()
	svc, s := newServices(t)
	ctx := context.Background()

	trip, err := svc.Trips.Create(ctx, domain.NewTrip{
		Name: "Lake House", StartDate: date("2024-07-15"), EndDate: date("2024-07-22"),
	})
	require.NoError(t, err)
	room, err := svc.Rooms.Create(ctx, trip.ID, domain.NewRoom{Name: "Loft", Capacity: 2})
	require.NoError(t, err)
	person, err := svc.People.Create(ctx, trip.ID, domain.NewPerson{Name: "Ana", Color: domain.MustParseHexColor("#FF5733")})
	require.NoError(t, err)

	return tripWorld{svc: svc, store: s, trip: trip, room: room, person: person}
}

// count returns the number of rows in c whose field equals value.
func count(t *testing.T, s *store.Store, c *store.Collection, field, value string) int64 {
	t.Helper()
	var n int64
	err := s.View(context.Background(), []*store.Collection{c}, func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.Count(ctx, c, store.Eq(field, value))
		return err
	})
	require.NoError(t, err)
	return n
}

package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the store-backed
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a fully-formed trip. A share code already in use fails
	// with domain.ErrConflict.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns a *domain.NotFoundError if no trip has that ID.
	GetByID(ctx context.Context, id string) (domain.Trip, error)

	// GetByShareID looks a trip up by its share code.
	GetByShareID(ctx context.Context, shareID string) (domain.Trip, error)

	// List returns all trips ordered by start_date descending.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of List and the total number of trips.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip.
	// Returns a *domain.NotFoundError if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Deleting a missing trip is not an error.
	Delete(ctx context.Context, id string) error
}

type storeTripRepo struct {
	s *store.Store
}

// NewTripRepo constructs a TripRepo backed by s.
func NewTripRepo(s *store.Store) TripRepo {
	return &storeTripRepo{s: s}
}

func (r *storeTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	err := r.s.Update(ctx, scope(store.Trips), func(ctx context.Context, tx *store.Tx) error {
		return tx.Insert(ctx, store.Trips, map[string]any{
			"id":         trip.ID,
			"name":       trip.Name,
			"start_date": trip.StartDate.String(),
			"end_date":   trip.EndDate.String(),
			"location":   strValue(trip.Location),
			"share_id":   trip.ShareID,
			"created_at": trip.CreatedAt,
			"updated_at": trip.UpdatedAt,
		})
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip, nil
}

func (r *storeTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	var t domain.Trip
	err := r.s.View(ctx, scope(store.Trips), func(ctx context.Context, tx *store.Tx) error {
		return tx.Get(ctx, store.Trips, id, func(row store.Row) error {
			var err error
			t, err = scanTrip(row)
			return err
		})
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", notFound(err, "trip", id))
	}
	return t, nil
}

func (r *storeTripRepo) GetByShareID(ctx context.Context, shareID string) (domain.Trip, error) {
	trips, err := r.find(ctx, store.Query{Where: []store.Cond{store.Eq("share_id", shareID)}, Limit: 1})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByShareID: %w", err)
	}
	if len(trips) == 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByShareID: %w",
			&domain.NotFoundError{Entity: "trip", ID: shareID})
	}
	return trips[0], nil
}

// List returns all trips ordered by start_date descending (most recent first).
func (r *storeTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := r.find(ctx, store.Query{OrderBy: []string{"start_date"}, Desc: true})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

func (r *storeTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var (
		trips []domain.Trip
		total int64
	)
	// Count and page come from the same snapshot.
	err := r.s.View(ctx, scope(store.Trips), func(ctx context.Context, tx *store.Tx) error {
		var err error
		if total, err = tx.Count(ctx, store.Trips); err != nil {
			return err
		}
		trips, err = r.find(ctx, store.Query{
			OrderBy: []string{"start_date"},
			Desc:    true,
			Limit:   p.Limit,
			Offset:  p.Offset(),
		})
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	return trips, total, nil
}

func (r *storeTripRepo) find(ctx context.Context, q store.Query) ([]domain.Trip, error) {
	trips := []domain.Trip{}
	err := r.s.View(ctx, scope(store.Trips), func(ctx context.Context, tx *store.Tx) error {
		return tx.Find(ctx, store.Trips, q, func(row store.Row) error {
			t, err := scanTrip(row)
			if err != nil {
				return err
			}
			trips = append(trips, t)
			return nil
		})
	})
	return trips, err
}

func (r *storeTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	err := r.s.Update(ctx, scope(store.Trips), func(ctx context.Context, tx *store.Tx) error {
		found, err := tx.Patch(ctx, store.Trips, trip.ID, map[string]any{
			"name":       trip.Name,
			"start_date": trip.StartDate.String(),
			"end_date":   trip.EndDate.String(),
			"location":   strValue(trip.Location),
			"updated_at": trip.UpdatedAt,
		})
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Entity: "trip", ID: trip.ID}
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return trip, nil
}

func (r *storeTripRepo) Delete(ctx context.Context, id string) error {
	err := r.s.Update(ctx, scope(store.Trips), func(ctx context.Context, tx *store.Tx) error {
		return tx.Delete(ctx, store.Trips, id)
	})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

// scanTrip maps a trips row, in store.Trips column order, into a domain.Trip.
func scanTrip(row store.Row) (domain.Trip, error) {
	var (
		t          domain.Trip
		start, end string
		location   sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &start, &end, &location, &t.ShareID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Trip{}, err
	}
	var err error
	if t.StartDate, err = domain.ParseDate(start); err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s start_date: %w", t.ID, err)
	}
	if t.EndDate, err = domain.ParseDate(end); err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s end_date: %w", t.ID, err)
	}
	t.Location = optString(location)
	return t, nil
}

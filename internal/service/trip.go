package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// shareAttempts bounds retries when a freshly drawn share code is taken.
const shareAttempts = 3

// tripCascade is every collection a trip delete touches.
var tripCascade = collections(store.Trips, store.Rooms, store.Persons, store.RoomAssignments, store.Transports)

// TripService implements business logic for Trip operations.
type TripService struct {
	tx    Transactor
	repos repo.Repos
	clock ids.Clock
}

// NewTripService constructs a TripService. clock stamps createdAt/updatedAt.
func NewTripService(tx Transactor, r repo.Repos, clock ids.Clock) *TripService {
	return &TripService{tx: tx, repos: r, clock: clock}
}

// Create validates and persists a new trip with a fresh ID and share code.
func (s *TripService) Create(ctx context.Context, in domain.NewTrip) (domain.Trip, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if err := validateTripDates(in.StartDate, in.EndDate); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	created, updated := s.clock.Stamp()
	trip := domain.Trip{
		ID:        ids.New(),
		Name:      name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Location:  in.Location,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	for attempt := 1; ; attempt++ {
		trip.ShareID = ids.ShareCode()
		out, err := s.repos.Trips.Create(ctx, trip)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt == shareAttempts {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
	}
}

// Get returns a single trip by ID.
func (s *TripService) Get(ctx context.Context, id string) (domain.Trip, error) {
	t, err := s.repos.Trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return t, nil
}

// GetByShareID resolves a share code to its trip.
func (s *TripService) GetByShareID(ctx context.Context, shareID string) (domain.Trip, error) {
	t, err := s.repos.Trips.GetByShareID(ctx, shareID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByShareID: %w", err)
	}
	return t, nil
}

// List returns all trips, newest start date first.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repos.Trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, nil
}

// ListPaged returns one page of trips and the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repos.Trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	return trips, total, nil
}

// Update applies p to the trip and validates the merged result.
func (s *TripService) Update(ctx context.Context, id string, p domain.TripPatch) (domain.Trip, error) {
	if p.Name != nil {
		name, err := requireText("name", *p.Name)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
		p.Name = &name
	}

	var out domain.Trip
	err := s.tx.Update(ctx, collections(store.Trips), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Trips.GetByID(ctx, id)
		if err != nil {
			return err
		}
		merged := p.Apply(current)
		if err := validateTripDates(merged.StartDate, merged.EndDate); err != nil {
			return err
		}
		merged.UpdatedAt = s.clock()
		out, err = s.repos.Trips.Update(ctx, merged)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return out, nil
}

// Delete removes the trip together with every room, person, assignment and
// transport that belongs to it, all in one transaction.
// Deleting a missing trip is not an error.
func (s *TripService) Delete(ctx context.Context, id string) error {
	err := s.tx.Update(ctx, tripCascade, func(ctx context.Context, _ *store.Tx) error {
		if _, err := s.repos.Assignments.DeleteByTripID(ctx, id); err != nil {
			return err
		}
		if _, err := s.repos.Transports.DeleteByTripID(ctx, id); err != nil {
			return err
		}
		if _, err := s.repos.Rooms.DeleteByTripID(ctx, id); err != nil {
			return err
		}
		if _, err := s.repos.Persons.DeleteByTripID(ctx, id); err != nil {
			return err
		}
		return s.repos.Trips.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func validateTripDates(start, end domain.Date) error {
	if err := requireDate("startDate", start); err != nil {
		return err
	}
	if err := requireDate("endDate", end); err != nil {
		return err
	}
	return requireOrdered("endDate", &start, &end)
}

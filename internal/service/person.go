package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// personCascade is every collection a person delete touches.
var personCascade = collections(store.Persons, store.RoomAssignments, store.Transports)

// PersonService implements business logic for Person operations.
type PersonService struct {
	tx    Transactor
	repos repo.Repos
}

func NewPersonService(tx Transactor, r repo.Repos) *PersonService {
	return &PersonService{tx: tx, repos: r}
}

// Create adds a participant to the trip.
func (s *PersonService) Create(ctx context.Context, tripID string, in domain.NewPerson) (domain.Person, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return domain.Person{}, fmt.Errorf("service.PersonService.Create: %w", err)
	}
	if in.Color.IsZero() {
		return domain.Person{}, fmt.Errorf("service.PersonService.Create: %w", domain.Validationf("color", "is required"))
	}
	if err := requireOrdered("stayEndDate", in.StayStartDate, in.StayEndDate); err != nil {
		return domain.Person{}, fmt.Errorf("service.PersonService.Create: %w", err)
	}

	p := domain.Person{
		ID:            ids.New(),
		TripID:        tripID,
		Name:          name,
		Color:         in.Color,
		StayStartDate: in.StayStartDate,
		StayEndDate:   in.StayEndDate,
	}
	err = s.tx.Update(ctx, collections(store.Trips, store.Persons), func(ctx context.Context, _ *store.Tx) error {
		if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
			return err
		}
		var err error
		p, err = s.repos.Persons.Create(ctx, p)
		return err
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("service.PersonService.Create: %w", err)
	}
	return p, nil
}

func (s *PersonService) Get(ctx context.Context, id string) (domain.Person, error) {
	p, err := s.repos.Persons.GetByID(ctx, id)
	if err != nil {
		return domain.Person{}, fmt.Errorf("service.PersonService.Get: %w", err)
	}
	return p, nil
}

// ListByTrip returns the trip's people ordered by name.
func (s *PersonService) ListByTrip(ctx context.Context, tripID string) ([]domain.Person, error) {
	people, err := s.repos.Persons.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PersonService.ListByTrip: %w", err)
	}
	return people, nil
}

// UpdateWithOwnershipCheck applies p after confirming the person belongs to
// tripID. The stay range is validated on the merged result.
func (s *PersonService) UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.PersonPatch) (domain.Person, error) {
	if p.Name != nil {
		name, err := requireText("name", *p.Name)
		if err != nil {
			return domain.Person{}, fmt.Errorf("service.PersonService.Update: %w", err)
		}
		p.Name = &name
	}

	var out domain.Person
	err := s.tx.Update(ctx, collections(store.Persons), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Persons.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner("person", id, tripID, current.TripID); err != nil {
			return err
		}
		merged := p.Apply(current)
		if err := requireOrdered("stayEndDate", merged.StayStartDate, merged.StayEndDate); err != nil {
			return err
		}
		if err := s.repos.Persons.Patch(ctx, id, p); err != nil {
			return err
		}
		out = merged
		return nil
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("service.PersonService.Update: %w", err)
	}
	return out, nil
}

// DeleteWithOwnershipCheck removes the person, their assignments and their
// own transports, and clears them as driver from any other transport.
// A person who no longer exists is treated as already deleted.
func (s *PersonService) DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error {
	err := s.tx.Update(ctx, personCascade, func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Persons.GetByID(ctx, id)
		if absent(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := checkOwner("person", id, tripID, current.TripID); err != nil {
			return err
		}
		if _, err := s.repos.Assignments.DeleteByPersonID(ctx, id); err != nil {
			return err
		}
		if _, err := s.repos.Transports.DeleteByPersonID(ctx, id); err != nil {
			return err
		}
		if _, err := s.repos.Transports.ClearDriver(ctx, id); err != nil {
			return err
		}
		return s.repos.Persons.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.PersonService.Delete: %w", err)
	}
	return nil
}

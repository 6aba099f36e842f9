package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// TransportService implements business logic for arrivals and departures.
type TransportService struct {
	tx    Transactor
	repos repo.Repos
}

func NewTransportService(tx Transactor, r repo.Repos) *TransportService {
	return &TransportService{tx: tx, repos: r}
}

// Create records a transport. The traveller and, when given, the driver must
// be people of tripID, and nobody drives themselves.
func (s *TransportService) Create(ctx context.Context, tripID string, in domain.NewTransport) (domain.Transport, error) {
	location, err := requireText("location", in.Location)
	if err != nil {
		return domain.Transport{}, fmt.Errorf("service.TransportService.Create: %w", err)
	}
	t := domain.Transport{
		ID:              ids.New(),
		TripID:          tripID,
		PersonID:        in.PersonID,
		Type:            in.Type,
		Datetime:        in.Datetime,
		Location:        location,
		TransportMode:   in.TransportMode,
		TransportNumber: in.TransportNumber,
		NeedsPickup:     in.NeedsPickup,
		DriverID:        in.DriverID,
		Notes:           in.Notes,
	}
	if err := validateTransport(t); err != nil {
		return domain.Transport{}, fmt.Errorf("service.TransportService.Create: %w", err)
	}

	err = s.tx.Update(ctx, collections(store.Persons, store.Transports), func(ctx context.Context, _ *store.Tx) error {
		if err := s.checkPeople(ctx, tripID, t.PersonID, t.DriverID); err != nil {
			return err
		}
		var err error
		t, err = s.repos.Transports.Create(ctx, t)
		return err
	})
	if err != nil {
		return domain.Transport{}, fmt.Errorf("service.TransportService.Create: %w", err)
	}
	return t, nil
}

func validateTransport(t domain.Transport) error {
	if err := requireID("personId", t.PersonID); err != nil {
		return err
	}
	if _, err := domain.ParseTransportType(string(t.Type)); err != nil {
		return err
	}
	if t.Datetime.IsZero() {
		return domain.Validationf("datetime", "is required")
	}
	if t.DriverID != nil && *t.DriverID == t.PersonID {
		return domain.Validationf("driverId", "a person cannot drive themselves")
	}
	return nil
}

// checkPeople confirms the traveller and the optional driver belong to tripID.
func (s *TransportService) checkPeople(ctx context.Context, tripID, personID string, driverID *string) error {
	person, err := s.repos.Persons.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	if err := checkOwner("person", personID, tripID, person.TripID); err != nil {
		return err
	}
	if driverID == nil {
		return nil
	}
	driver, err := s.repos.Persons.GetByID(ctx, *driverID)
	if err != nil {
		return err
	}
	return checkOwner("person", *driverID, tripID, driver.TripID)
}

func (s *TransportService) Get(ctx context.Context, id string) (domain.Transport, error) {
	t, err := s.repos.Transports.GetByID(ctx, id)
	if err != nil {
		return domain.Transport{}, fmt.Errorf("service.TransportService.Get: %w", err)
	}
	return t, nil
}

// ListByTrip returns the trip's transports ordered by datetime.
func (s *TransportService) ListByTrip(ctx context.Context, tripID string) ([]domain.Transport, error) {
	out, err := s.repos.Transports.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TransportService.ListByTrip: %w", err)
	}
	return out, nil
}

// UpdateWithOwnershipCheck applies p after confirming the transport belongs
// to tripID, re-validating the merged record.
func (s *TransportService) UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.TransportPatch) (domain.Transport, error) {
	if p.Location != nil {
		location, err := requireText("location", *p.Location)
		if err != nil {
			return domain.Transport{}, fmt.Errorf("service.TransportService.Update: %w", err)
		}
		p.Location = &location
	}

	var out domain.Transport
	err := s.tx.Update(ctx, collections(store.Persons, store.Transports), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Transports.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner("transport", id, tripID, current.TripID); err != nil {
			return err
		}
		merged := p.Apply(current)
		if err := validateTransport(merged); err != nil {
			return err
		}
		if p.PersonID != nil || p.DriverID.Set {
			if err := s.checkPeople(ctx, tripID, merged.PersonID, merged.DriverID); err != nil {
				return err
			}
		}
		if err := s.repos.Transports.Patch(ctx, id, p); err != nil {
			return err
		}
		out = merged
		return nil
	})
	if err != nil {
		return domain.Transport{}, fmt.Errorf("service.TransportService.Update: %w", err)
	}
	return out, nil
}

// DeleteWithOwnershipCheck removes the transport if it belongs to tripID.
// A missing transport is treated as already deleted.
func (s *TransportService) DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error {
	err := s.tx.Update(ctx, collections(store.Transports), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Transports.GetByID(ctx, id)
		if absent(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := checkOwner("transport", id, tripID, current.TripID); err != nil {
			return err
		}
		return s.repos.Transports.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.TransportService.Delete: %w", err)
	}
	return nil
}

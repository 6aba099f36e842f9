package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// ExportService assembles a full snapshot of one trip.
type ExportService struct {
	tx    Transactor
	repos repo.Repos
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(tx Transactor, r repo.Repos) *ExportService {
	return &ExportService{tx: tx, repos: r}
}

// ExportTrip reads the trip and all of its rooms, people, assignments and
// transports in one read transaction, so the parts are mutually consistent.
func (s *ExportService) ExportTrip(ctx context.Context, tripID string) (domain.TripExport, error) {
	var out domain.TripExport
	err := s.tx.View(ctx, tripCascade, func(ctx context.Context, _ *store.Tx) error {
		var err error
		if out.Trip, err = s.repos.Trips.GetByID(ctx, tripID); err != nil {
			return err
		}
		if out.Rooms, err = s.repos.Rooms.ListByTripID(ctx, tripID); err != nil {
			return err
		}
		if out.People, err = s.repos.Persons.ListByTripID(ctx, tripID); err != nil {
			return err
		}
		if out.Assignments, err = s.repos.Assignments.ListByTripID(ctx, tripID); err != nil {
			return err
		}
		out.Transports, err = s.repos.Transports.ListByTripID(ctx, tripID)
		return err
	})
	if err != nil {
		return domain.TripExport{}, fmt.Errorf("service.ExportService.ExportTrip: %w", err)
	}
	return out, nil
}

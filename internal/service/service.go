// Package service contains the business logic of the trip store.
// Services validate inputs, enforce ownership and cascade rules, and
// orchestrate repo calls inside store transactions.
// No SQL lives here: services depend on repo interfaces, not implementations.
//
// Validation of caller input happens before any transaction opens. Checks that
// need stored state (ownership, merged date ranges, membership) run inside the
// transaction and roll it back when they fail.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// Transactor runs fn inside a store transaction over scope. Repository calls
// made with the ctx handed to fn join that transaction. *store.Store
// satisfies it.
type Transactor interface {
	Update(ctx context.Context, scope []*store.Collection, fn func(ctx context.Context, tx *store.Tx) error) error
	View(ctx context.Context, scope []*store.Collection, fn func(ctx context.Context, tx *store.Tx) error) error
}

// Services bundles every service over one store.
type Services struct {
	Trips       *TripService
	Rooms       *RoomService
	People      *PersonService
	Assignments *AssignmentService
	Transports  *TransportService
	Settings    *SettingsService
	Export      *ExportService
}

// New wires all services to the same transactor and repositories.
func New(tx Transactor, r repo.Repos, clock ids.Clock) *Services {
	return &Services{
		Trips:       NewTripService(tx, r, clock),
		Rooms:       NewRoomService(tx, r),
		People:      NewPersonService(tx, r),
		Assignments: NewAssignmentService(tx, r),
		Transports:  NewTransportService(tx, r),
		Settings:    NewSettingsService(tx, r),
		Export:      NewExportService(tx, r),
	}
}

func collections(c ...*store.Collection) []*store.Collection { return c }

// requireText trims v and fails when nothing is left.
func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", domain.Validationf(field, "is required")
	}
	return v, nil
}

func requireID(field, v string) error {
	if v == "" {
		return domain.Validationf(field, "is required")
	}
	return nil
}

func requireDate(field string, d domain.Date) error {
	if d.IsZero() {
		return domain.Validationf(field, "is required")
	}
	return nil
}

func requireCapacity(c int) error {
	if c < 1 {
		return domain.Validationf("capacity", "must be a positive integer, got %d", c)
	}
	return nil
}

// requireOrdered fails when start is after end. Either side may be absent.
func requireOrdered(endField string, start, end *domain.Date) error {
	if start == nil || end == nil {
		return nil
	}
	_, err := domain.NewDateRange(*start, *end)
	if err != nil {
		return domain.Validationf(endField, "%s is before start %s", *end, *start)
	}
	return nil
}

// checkOwner fails with an OwnershipError when actual differs from expected.
func checkOwner(entity, id, expected, actual string) error {
	if expected != actual {
		return &domain.OwnershipError{Entity: entity, ID: id, ExpectedTripID: expected, ActualTripID: actual}
	}
	return nil
}

// absent reports whether err means the record does not exist.
func absent(err error) bool { return errors.Is(err, domain.ErrNotFound) }

// Package repo maps domain entities onto store collections.
// Each resource has its own file with an interface and a store-backed
// implementation. No business logic lives here: only field mapping and the
// lookups the services need.
//
// Every method runs inside a store transaction scoped to its own collection.
// Called with a context that already carries a wider transaction, it joins
// that transaction instead, so services compose repository calls atomically.
package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// Repos bundles one repository per collection over the same store.
type Repos struct {
	Trips       TripRepo
	Rooms       RoomRepo
	Persons     PersonRepo
	Assignments AssignmentRepo
	Transports  TransportRepo
	Settings    SettingsRepo
}

// New builds every repository on s.
func New(s *store.Store) Repos {
	return Repos{
		Trips:       NewTripRepo(s),
		Rooms:       NewRoomRepo(s),
		Persons:     NewPersonRepo(s),
		Assignments: NewAssignmentRepo(s),
		Transports:  NewTransportRepo(s),
		Settings:    NewSettingsRepo(s),
	}
}

func scope(c ...*store.Collection) []*store.Collection { return c }

// optString converts a nullable column into the domain's *string.
func optString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// optDate parses a nullable YYYY-MM-DD column.
func optDate(ns sql.NullString) (*domain.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := domain.ParseDate(ns.String)
	if err != nil {
		return nil, fmt.Errorf("stored date: %w", err)
	}
	return &d, nil
}

// dateValue renders an optional date for storage; nil stays NULL.
func dateValue(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// strValue dereferences an optional string for storage; nil stays NULL.
func strValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// notFound converts store.ErrNoRecord into a typed domain error.
func notFound(err error, entity, id string) error {
	if errors.Is(err, store.ErrNoRecord) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

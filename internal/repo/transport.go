package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// TransportRepo defines the persistence operations for Transports.
type TransportRepo interface {
	Create(ctx context.Context, t domain.Transport) (domain.Transport, error)

	// GetByID returns a *domain.NotFoundError if no transport has that ID.
	GetByID(ctx context.Context, id string) (domain.Transport, error)

	// ListByTripID returns a trip's transports ordered by datetime.
	// Ordering compares the stored ISO text, so mixed offsets sort by their
	// written local time.
	ListByTripID(ctx context.Context, tripID string) ([]domain.Transport, error)

	// Patch writes only the fields set in p.
	// Returns a *domain.NotFoundError if no transport with that ID exists.
	Patch(ctx context.Context, id string, p domain.TransportPatch) error

	// ClearDriver sets driver_id to NULL on every transport driven by
	// driverID and reports how many rows changed.
	ClearDriver(ctx context.Context, driverID string) (int64, error)

	Delete(ctx context.Context, id string) error
	DeleteByTripID(ctx context.Context, tripID string) (int64, error)
	DeleteByPersonID(ctx context.Context, personID string) (int64, error)
}

type storeTransportRepo struct {
	s *store.Store
}

// NewTransportRepo constructs a TransportRepo backed by s.
func NewTransportRepo(s *store.Store) TransportRepo {
	return &storeTransportRepo{s: s}
}

func (r *storeTransportRepo) Create(ctx context.Context, t domain.Transport) (domain.Transport, error) {
	err := r.s.Update(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		return tx.Insert(ctx, store.Transports, map[string]any{
			"id":               t.ID,
			"trip_id":          t.TripID,
			"person_id":        t.PersonID,
			"type":             string(t.Type),
			"datetime":         t.Datetime.String(),
			"location":         t.Location,
			"transport_mode":   strValue(t.TransportMode),
			"transport_number": strValue(t.TransportNumber),
			"needs_pickup":     t.NeedsPickup,
			"driver_id":        strValue(t.DriverID),
			"notes":            strValue(t.Notes),
		})
	})
	if err != nil {
		return domain.Transport{}, fmt.Errorf("repo.TransportRepo.Create: %w", err)
	}
	return t, nil
}

func (r *storeTransportRepo) GetByID(ctx context.Context, id string) (domain.Transport, error) {
	var t domain.Transport
	err := r.s.View(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		return tx.Get(ctx, store.Transports, id, func(row store.Row) error {
			var err error
			t, err = scanTransport(row)
			return err
		})
	})
	if err != nil {
		return domain.Transport{}, fmt.Errorf("repo.TransportRepo.GetByID: %w", notFound(err, "transport", id))
	}
	return t, nil
}

func (r *storeTransportRepo) ListByTripID(ctx context.Context, tripID string) ([]domain.Transport, error) {
	out := []domain.Transport{}
	err := r.s.View(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		return tx.Find(ctx, store.Transports, store.Query{
			Where:   []store.Cond{store.Eq("trip_id", tripID)},
			OrderBy: []string{"datetime", "id"},
		}, func(row store.Row) error {
			t, err := scanTransport(row)
			if err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TransportRepo.ListByTripID: %w", err)
	}
	return out, nil
}

func (r *storeTransportRepo) Patch(ctx context.Context, id string, p domain.TransportPatch) error {
	set := map[string]any{}
	if p.PersonID != nil {
		set["person_id"] = *p.PersonID
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Datetime != nil {
		set["datetime"] = p.Datetime.String()
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.NeedsPickup != nil {
		set["needs_pickup"] = *p.NeedsPickup
	}
	for field, n := range map[string]domain.Nullable[string]{
		"transport_mode":   p.TransportMode,
		"transport_number": p.TransportNumber,
		"driver_id":        p.DriverID,
		"notes":            p.Notes,
	} {
		if n.Set {
			set[field] = strValue(n.Value)
		}
	}

	err := r.s.Update(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		found, err := tx.Patch(ctx, store.Transports, id, set)
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Entity: "transport", ID: id}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.TransportRepo.Patch: %w", err)
	}
	return nil
}

func (r *storeTransportRepo) ClearDriver(ctx context.Context, driverID string) (int64, error) {
	var n int64
	err := r.s.Update(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.PatchWhere(ctx, store.Transports, map[string]any{"driver_id": nil}, store.Eq("driver_id", driverID))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repo.TransportRepo.ClearDriver: %w", err)
	}
	return n, nil
}

func (r *storeTransportRepo) Delete(ctx context.Context, id string) error {
	err := r.s.Update(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		return tx.Delete(ctx, store.Transports, id)
	})
	if err != nil {
		return fmt.Errorf("repo.TransportRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeTransportRepo) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	n, err := r.deleteWhere(ctx, "trip_id", tripID)
	if err != nil {
		return 0, fmt.Errorf("repo.TransportRepo.DeleteByTripID: %w", err)
	}
	return n, nil
}

func (r *storeTransportRepo) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	n, err := r.deleteWhere(ctx, "person_id", personID)
	if err != nil {
		return 0, fmt.Errorf("repo.TransportRepo.DeleteByPersonID: %w", err)
	}
	return n, nil
}

func (r *storeTransportRepo) deleteWhere(ctx context.Context, field, value string) (int64, error) {
	var n int64
	err := r.s.Update(ctx, scope(store.Transports), func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.DeleteWhere(ctx, store.Transports, store.Eq(field, value))
		return err
	})
	return n, err
}

func scanTransport(row store.Row) (domain.Transport, error) {
	var (
		t                        domain.Transport
		typ, datetime            string
		mode, number, driver, nt sql.NullString
	)
	err := row.Scan(&t.ID, &t.TripID, &t.PersonID, &typ, &datetime, &t.Location,
		&mode, &number, &t.NeedsPickup, &driver, &nt)
	if err != nil {
		return domain.Transport{}, err
	}
	if t.Type, err = domain.ParseTransportType(typ); err != nil {
		return domain.Transport{}, fmt.Errorf("transport %s: %w", t.ID, err)
	}
	if t.Datetime, err = domain.ParseDateTime(datetime); err != nil {
		return domain.Transport{}, fmt.Errorf("transport %s: %w", t.ID, err)
	}
	t.TransportMode = optString(mode)
	t.TransportNumber = optString(number)
	t.DriverID = optString(driver)
	t.Notes = optString(nt)
	return t, nil
}

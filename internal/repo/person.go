package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// PersonRepo defines the persistence operations for Persons.
type PersonRepo interface {
	Create(ctx context.Context, p domain.Person) (domain.Person, error)

	// GetByID returns a *domain.NotFoundError if no person has that ID.
	GetByID(ctx context.Context, id string) (domain.Person, error)

	// ListByTripID returns a trip's people ordered by name.
	ListByTripID(ctx context.Context, tripID string) ([]domain.Person, error)

	// Patch writes only the fields set in p.
	// Returns a *domain.NotFoundError if no person with that ID exists.
	Patch(ctx context.Context, id string, p domain.PersonPatch) error

	Delete(ctx context.Context, id string) error
	DeleteByTripID(ctx context.Context, tripID string) (int64, error)
}

type storePersonRepo struct {
	s *store.Store
}

// NewPersonRepo constructs a PersonRepo backed by s.
func NewPersonRepo(s *store.Store) PersonRepo {
	return &storePersonRepo{s: s}
}

func (r *storePersonRepo) Create(ctx context.Context, p domain.Person) (domain.Person, error) {
	err := r.s.Update(ctx, scope(store.Persons), func(ctx context.Context, tx *store.Tx) error {
		return tx.Insert(ctx, store.Persons, map[string]any{
			"id":              p.ID,
			"trip_id":         p.TripID,
			"name":            p.Name,
			"color":           p.Color.String(),
			"stay_start_date": dateValue(p.StayStartDate),
			"stay_end_date":   dateValue(p.StayEndDate),
		})
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("repo.PersonRepo.Create: %w", err)
	}
	return p, nil
}

func (r *storePersonRepo) GetByID(ctx context.Context, id string) (domain.Person, error) {
	var p domain.Person
	err := r.s.View(ctx, scope(store.Persons), func(ctx context.Context, tx *store.Tx) error {
		return tx.Get(ctx, store.Persons, id, func(row store.Row) error {
			var err error
			p, err = scanPerson(row)
			return err
		})
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("repo.PersonRepo.GetByID: %w", notFound(err, "person", id))
	}
	return p, nil
}

func (r *storePersonRepo) ListByTripID(ctx context.Context, tripID string) ([]domain.Person, error) {
	people := []domain.Person{}
	err := r.s.View(ctx, scope(store.Persons), func(ctx context.Context, tx *store.Tx) error {
		return tx.Find(ctx, store.Persons, store.Query{
			Where:   []store.Cond{store.Eq("trip_id", tripID)},
			OrderBy: []string{"name", "id"},
		}, func(row store.Row) error {
			p, err := scanPerson(row)
			if err != nil {
				return err
			}
			people = append(people, p)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("repo.PersonRepo.ListByTripID: %w", err)
	}
	return people, nil
}

func (r *storePersonRepo) Patch(ctx context.Context, id string, p domain.PersonPatch) error {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Color != nil {
		set["color"] = p.Color.String()
	}
	if p.StayStartDate.Set {
		set["stay_start_date"] = dateValue(p.StayStartDate.Value)
	}
	if p.StayEndDate.Set {
		set["stay_end_date"] = dateValue(p.StayEndDate.Value)
	}
	err := r.s.Update(ctx, scope(store.Persons), func(ctx context.Context, tx *store.Tx) error {
		found, err := tx.Patch(ctx, store.Persons, id, set)
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Entity: "person", ID: id}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.PersonRepo.Patch: %w", err)
	}
	return nil
}

func (r *storePersonRepo) Delete(ctx context.Context, id string) error {
	err := r.s.Update(ctx, scope(store.Persons), func(ctx context.Context, tx *store.Tx) error {
		return tx.Delete(ctx, store.Persons, id)
	})
	if err != nil {
		return fmt.Errorf("repo.PersonRepo.Delete: %w", err)
	}
	return nil
}

func (r *storePersonRepo) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	var n int64
	err := r.s.Update(ctx, scope(store.Persons), func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.DeleteWhere(ctx, store.Persons, store.Eq("trip_id", tripID))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repo.PersonRepo.DeleteByTripID: %w", err)
	}
	return n, nil
}

func scanPerson(row store.Row) (domain.Person, error) {
	var (
		p                  domain.Person
		color              string
		stayStart, stayEnd sql.NullString
	)
	if err := row.Scan(&p.ID, &p.TripID, &p.Name, &color, &stayStart, &stayEnd); err != nil {
		return domain.Person{}, err
	}
	var err error
	if p.Color, err = domain.ParseHexColor(color); err != nil {
		return domain.Person{}, fmt.Errorf("person %s color: %w", p.ID, err)
	}
	if p.StayStartDate, err = optDate(stayStart); err != nil {
		return domain.Person{}, fmt.Errorf("person %s: %w", p.ID, err)
	}
	if p.StayEndDate, err = optDate(stayEnd); err != nil {
		return domain.Person{}, fmt.Errorf("person %s: %w", p.ID, err)
	}
	return p, nil
}

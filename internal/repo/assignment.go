package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// AssignmentRepo defines the persistence operations for RoomAssignments.
type AssignmentRepo interface {
	Create(ctx context.Context, a domain.RoomAssignment) (domain.RoomAssignment, error)

	// GetByID returns a *domain.NotFoundError if no assignment has that ID.
	GetByID(ctx context.Context, id string) (domain.RoomAssignment, error)

	// ListByTripID returns a trip's assignments ordered by start date.
	ListByTripID(ctx context.Context, tripID string) ([]domain.RoomAssignment, error)

	// ListByPerson returns one person's assignments within a trip, read from
	// the (trip_id, person_id) index.
	ListByPerson(ctx context.Context, tripID, personID string) ([]domain.RoomAssignment, error)

	// Patch writes only the fields set in p.
	// Returns a *domain.NotFoundError if no assignment with that ID exists.
	Patch(ctx context.Context, id string, p domain.RoomAssignmentPatch) error

	Delete(ctx context.Context, id string) error
	DeleteByTripID(ctx context.Context, tripID string) (int64, error)
	DeleteByRoomID(ctx context.Context, roomID string) (int64, error)
	DeleteByPersonID(ctx context.Context, personID string) (int64, error)
}

type storeAssignmentRepo struct {
	s *store.Store
}

// NewAssignmentRepo constructs an AssignmentRepo backed by s.
func NewAssignmentRepo(s *store.Store) AssignmentRepo {
	return &storeAssignmentRepo{s: s}
}

func (r *storeAssignmentRepo) Create(ctx context.Context, a domain.RoomAssignment) (domain.RoomAssignment, error) {
	err := r.s.Update(ctx, scope(store.RoomAssignments), func(ctx context.Context, tx *store.Tx) error {
		return tx.Insert(ctx, store.RoomAssignments, map[string]any{
			"id":         a.ID,
			"trip_id":    a.TripID,
			"room_id":    a.RoomID,
			"person_id":  a.PersonID,
			"start_date": a.StartDate.String(),
			"end_date":   a.EndDate.String(),
		})
	})
	if err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("repo.AssignmentRepo.Create: %w", err)
	}
	return a, nil
}

func (r *storeAssignmentRepo) GetByID(ctx context.Context, id string) (domain.RoomAssignment, error) {
	var a domain.RoomAssignment
	err := r.s.View(ctx, scope(store.RoomAssignments), func(ctx context.Context, tx *store.Tx) error {
		return tx.Get(ctx, store.RoomAssignments, id, func(row store.Row) error {
			var err error
			a, err = scanAssignment(row)
			return err
		})
	})
	if err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("repo.AssignmentRepo.GetByID: %w", notFound(err, "room assignment", id))
	}
	return a, nil
}

func (r *storeAssignmentRepo) ListByTripID(ctx context.Context, tripID string) ([]domain.RoomAssignment, error) {
	out, err := r.find(ctx, store.Query{
		Where:   []store.Cond{store.Eq("trip_id", tripID)},
		OrderBy: []string{"start_date", "id"},
	})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByTripID: %w", err)
	}
	return out, nil
}

func (r *storeAssignmentRepo) ListByPerson(ctx context.Context, tripID, personID string) ([]domain.RoomAssignment, error) {
	out, err := r.find(ctx, store.Query{
		Where:   []store.Cond{store.Eq("trip_id", tripID), store.Eq("person_id", personID)},
		OrderBy: []string{"start_date"},
	})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByPerson: %w", err)
	}
	return out, nil
}

func (r *storeAssignmentRepo) find(ctx context.Context, q store.Query) ([]domain.RoomAssignment, error) {
	out := []domain.RoomAssignment{}
	err := r.s.View(ctx, scope(store.RoomAssignments), func(ctx context.Context, tx *store.Tx) error {
		return tx.Find(ctx, store.RoomAssignments, q, func(row store.Row) error {
			a, err := scanAssignment(row)
			if err != nil {
				return err
			}
			out = append(out, a)
			return nil
		})
	})
	return out, err
}

func (r *storeAssignmentRepo) Patch(ctx context.Context, id string, p domain.RoomAssignmentPatch) error {
	set := map[string]any{}
	if p.RoomID != nil {
		set["room_id"] = *p.RoomID
	}
	if p.StartDate != nil {
		set["start_date"] = p.StartDate.String()
	}
	if p.EndDate != nil {
		set["end_date"] = p.EndDate.String()
	}
	err := r.s.Update(ctx, scope(store.RoomAssignments), func(ctx context.Context, tx *store.Tx) error {
		found, err := tx.Patch(ctx, store.RoomAssignments, id, set)
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Entity: "room assignment", ID: id}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.AssignmentRepo.Patch: %w", err)
	}
	return nil
}

func (r *storeAssignmentRepo) Delete(ctx context.Context, id string) error {
	err := r.s.Update(ctx, scope(store.RoomAssignments), func(ctx context.Context, tx *store.Tx) error {
		return tx.Delete(ctx, store.RoomAssignments, id)
	})
	if err != nil {
		return fmt.Errorf("repo.AssignmentRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeAssignmentRepo) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	n, err := r.deleteWhere(ctx, "trip_id", tripID)
	if err != nil {
		return 0, fmt.Errorf("repo.AssignmentRepo.DeleteByTripID: %w", err)
	}
	return n, nil
}

func (r *storeAssignmentRepo) DeleteByRoomID(ctx context.Context, roomID string) (int64, error) {
	n, err := r.deleteWhere(ctx, "room_id", roomID)
	if err != nil {
		return 0, fmt.Errorf("repo.AssignmentRepo.DeleteByRoomID: %w", err)
	}
	return n, nil
}

func (r *storeAssignmentRepo) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	n, err := r.deleteWhere(ctx, "person_id", personID)
	if err != nil {
		return 0, fmt.Errorf("repo.AssignmentRepo.DeleteByPersonID: %w", err)
	}
	return n, nil
}

func (r *storeAssignmentRepo) deleteWhere(ctx context.Context, field, value string) (int64, error) {
	var n int64
	err := r.s.Update(ctx, scope(store.RoomAssignments), func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.DeleteWhere(ctx, store.RoomAssignments, store.Eq(field, value))
		return err
	})
	return n, err
}

func scanAssignment(row store.Row) (domain.RoomAssignment, error) {
	var (
		a          domain.RoomAssignment
		start, end string
	)
	if err := row.Scan(&a.ID, &a.TripID, &a.RoomID, &a.PersonID, &start, &end); err != nil {
		return domain.RoomAssignment{}, err
	}
	var err error
	if a.StartDate, err = domain.ParseDate(start); err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("room assignment %s start_date: %w", a.ID, err)
	}
	if a.EndDate, err = domain.ParseDate(end); err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("room assignment %s end_date: %w", a.ID, err)
	}
	return a, nil
}

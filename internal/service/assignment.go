package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

var assignmentScope = collections(store.Rooms, store.Persons, store.RoomAssignments)

// AssignmentService implements business logic for RoomAssignments and the
// conflict detector.
type AssignmentService struct {
	tx    Transactor
	repos repo.Repos
}

func NewAssignmentService(tx Transactor, r repo.Repos) *AssignmentService {
	return &AssignmentService{tx: tx, repos: r}
}

// Create records an assignment without consulting the conflict detector.
// The room and the person must both belong to tripID.
func (s *AssignmentService) Create(ctx context.Context, tripID string, in domain.NewRoomAssignment) (domain.RoomAssignment, error) {
	a, err := s.create(ctx, tripID, in, false)
	if err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("service.AssignmentService.Create: %w", err)
	}
	return a, nil
}

// AssignRoom is Create with the conflict check run in the same transaction
// as the insert, so two concurrent callers cannot double-book a person.
// An overlap fails with domain.ErrConflict.
func (s *AssignmentService) AssignRoom(ctx context.Context, tripID string, in domain.NewRoomAssignment) (domain.RoomAssignment, error) {
	a, err := s.create(ctx, tripID, in, true)
	if err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("service.AssignmentService.AssignRoom: %w", err)
	}
	return a, nil
}

func (s *AssignmentService) create(ctx context.Context, tripID string, in domain.NewRoomAssignment, checked bool) (domain.RoomAssignment, error) {
	span, err := validateNewAssignment(in)
	if err != nil {
		return domain.RoomAssignment{}, err
	}

	a := domain.RoomAssignment{
		ID:        ids.New(),
		TripID:    tripID,
		RoomID:    in.RoomID,
		PersonID:  in.PersonID,
		StartDate: span.Start,
		EndDate:   span.End,
	}
	err = s.tx.Update(ctx, assignmentScope, func(ctx context.Context, _ *store.Tx) error {
		if err := s.checkMembers(ctx, tripID, a.RoomID, a.PersonID); err != nil {
			return err
		}
		if checked {
			existing, err := s.repos.Assignments.ListByPerson(ctx, tripID, a.PersonID)
			if err != nil {
				return err
			}
			if domain.HasConflict(existing, span, "") {
				return fmt.Errorf("person %q already has a room during %s: %w", a.PersonID, span, domain.ErrConflict)
			}
		}
		var err error
		a, err = s.repos.Assignments.Create(ctx, a)
		return err
	})
	return a, err
}

func validateNewAssignment(in domain.NewRoomAssignment) (domain.DateRange, error) {
	if err := requireID("roomId", in.RoomID); err != nil {
		return domain.DateRange{}, err
	}
	if err := requireID("personId", in.PersonID); err != nil {
		return domain.DateRange{}, err
	}
	if err := requireDate("startDate", in.StartDate); err != nil {
		return domain.DateRange{}, err
	}
	if err := requireDate("endDate", in.EndDate); err != nil {
		return domain.DateRange{}, err
	}
	return domain.NewDateRange(in.StartDate, in.EndDate)
}

// checkMembers confirms the room and the person exist and belong to tripID.
func (s *AssignmentService) checkMembers(ctx context.Context, tripID, roomID, personID string) error {
	room, err := s.repos.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := checkOwner("room", roomID, tripID, room.TripID); err != nil {
		return err
	}
	person, err := s.repos.Persons.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	return checkOwner("person", personID, tripID, person.TripID)
}

// CheckConflict reports whether [start, end] overlaps any of the person's
// assignments in the trip, ignoring excludeID (pass "" to ignore none).
// Both ends are inclusive: sharing a single day is a conflict.
//
// The check reads in its own transaction; a later Create is not protected
// by it. Use AssignRoom for an atomic check-and-insert.
func (s *AssignmentService) CheckConflict(ctx context.Context, tripID, personID string, start, end domain.Date, excludeID string) (bool, error) {
	var conflict bool
	err := s.tx.View(ctx, collections(store.RoomAssignments), func(ctx context.Context, _ *store.Tx) error {
		existing, err := s.repos.Assignments.ListByPerson(ctx, tripID, personID)
		if err != nil {
			return err
		}
		conflict = domain.HasConflict(existing, domain.DateRange{Start: start, End: end}, excludeID)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("service.AssignmentService.CheckConflict: %w", err)
	}
	return conflict, nil
}

func (s *AssignmentService) Get(ctx context.Context, id string) (domain.RoomAssignment, error) {
	a, err := s.repos.Assignments.GetByID(ctx, id)
	if err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("service.AssignmentService.Get: %w", err)
	}
	return a, nil
}

// ListByTrip returns the trip's assignments ordered by start date.
func (s *AssignmentService) ListByTrip(ctx context.Context, tripID string) ([]domain.RoomAssignment, error) {
	out, err := s.repos.Assignments.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListByTrip: %w", err)
	}
	return out, nil
}

// UpdateWithOwnershipCheck applies p after confirming the assignment belongs
// to tripID. The date range is validated on the merged result, so changing
// only the end date is checked against the stored start date. A new room must
// belong to the same trip.
func (s *AssignmentService) UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.RoomAssignmentPatch) (domain.RoomAssignment, error) {
	if p.RoomID != nil {
		if err := requireID("roomId", *p.RoomID); err != nil {
			return domain.RoomAssignment{}, fmt.Errorf("service.AssignmentService.Update: %w", err)
		}
	}

	var out domain.RoomAssignment
	err := s.tx.Update(ctx, collections(store.Rooms, store.RoomAssignments), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Assignments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner("room assignment", id, tripID, current.TripID); err != nil {
			return err
		}
		merged := p.Apply(current)
		if _, err := domain.NewDateRange(merged.StartDate, merged.EndDate); err != nil {
			return err
		}
		if merged.RoomID != current.RoomID {
			room, err := s.repos.Rooms.GetByID(ctx, merged.RoomID)
			if err != nil {
				return err
			}
			if err := checkOwner("room", room.ID, tripID, room.TripID); err != nil {
				return err
			}
		}
		if err := s.repos.Assignments.Patch(ctx, id, p); err != nil {
			return err
		}
		out = merged
		return nil
	})
	if err != nil {
		return domain.RoomAssignment{}, fmt.Errorf("service.AssignmentService.Update: %w", err)
	}
	return out, nil
}

// DeleteWithOwnershipCheck removes the assignment if it belongs to tripID.
// A missing assignment is treated as already deleted.
func (s *AssignmentService) DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error {
	err := s.tx.Update(ctx, collections(store.RoomAssignments), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Assignments.GetByID(ctx, id)
		if absent(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := checkOwner("room assignment", id, tripID, current.TripID); err != nil {
			return err
		}
		return s.repos.Assignments.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.AssignmentService.Delete: %w", err)
	}
	return nil
}

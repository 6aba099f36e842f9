package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/ids"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// RoomService implements business logic for Room operations.
type RoomService struct {
	tx    Transactor
	repos repo.Repos
}

func NewRoomService(tx Transactor, r repo.Repos) *RoomService {
	return &RoomService{tx: tx, repos: r}
}

// Create adds a room to the end of the trip's display order.
func (s *RoomService) Create(ctx context.Context, tripID string, in domain.NewRoom) (domain.Room, error) {
	name, err := requireText("name", in.Name)
	if err == nil {
		err = requireCapacity(in.Capacity)
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Create: %w", err)
	}

	room := domain.Room{
		ID:          ids.New(),
		TripID:      tripID,
		Name:        name,
		Capacity:    in.Capacity,
		Description: in.Description,
		Icon:        in.Icon,
	}
	err = s.tx.Update(ctx, collections(store.Trips, store.Rooms), func(ctx context.Context, _ *store.Tx) error {
		if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
			return err
		}
		last, ok, err := s.repos.Rooms.MaxOrder(ctx, tripID)
		if err != nil {
			return err
		}
		if ok {
			room.Order = last + 1
		}
		room, err = s.repos.Rooms.Create(ctx, room)
		return err
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Create: %w", err)
	}
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (domain.Room, error) {
	r, err := s.repos.Rooms.GetByID(ctx, id)
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Get: %w", err)
	}
	return r, nil
}

// ListByTrip returns the trip's rooms in display order.
func (s *RoomService) ListByTrip(ctx context.Context, tripID string) ([]domain.Room, error) {
	rooms, err := s.repos.Rooms.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.RoomService.ListByTrip: %w", err)
	}
	return rooms, nil
}

// UpdateWithOwnershipCheck applies p to the room after confirming, in the
// same transaction, that it belongs to tripID.
func (s *RoomService) UpdateWithOwnershipCheck(ctx context.Context, tripID, id string, p domain.RoomPatch) (domain.Room, error) {
	if p.Name != nil {
		name, err := requireText("name", *p.Name)
		if err != nil {
			return domain.Room{}, fmt.Errorf("service.RoomService.Update: %w", err)
		}
		p.Name = &name
	}
	if p.Capacity != nil {
		if err := requireCapacity(*p.Capacity); err != nil {
			return domain.Room{}, fmt.Errorf("service.RoomService.Update: %w", err)
		}
	}

	var out domain.Room
	err := s.tx.Update(ctx, collections(store.Rooms), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Rooms.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner("room", id, tripID, current.TripID); err != nil {
			return err
		}
		if err := s.repos.Rooms.Patch(ctx, id, p); err != nil {
			return err
		}
		out = p.Apply(current)
		return nil
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("service.RoomService.Update: %w", err)
	}
	return out, nil
}

// DeleteWithOwnershipCheck removes the room and its assignments. A room that
// no longer exists is treated as already deleted.
func (s *RoomService) DeleteWithOwnershipCheck(ctx context.Context, tripID, id string) error {
	err := s.tx.Update(ctx, collections(store.Rooms, store.RoomAssignments), func(ctx context.Context, _ *store.Tx) error {
		current, err := s.repos.Rooms.GetByID(ctx, id)
		if absent(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := checkOwner("room", id, tripID, current.TripID); err != nil {
			return err
		}
		if _, err := s.repos.Assignments.DeleteByRoomID(ctx, id); err != nil {
			return err
		}
		return s.repos.Rooms.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.RoomService.Delete: %w", err)
	}
	return nil
}

// Reorder sets each listed room's order to its index in orderedIDs. Every ID
// must name a room of tripID; otherwise nothing is changed.
func (s *RoomService) Reorder(ctx context.Context, tripID string, orderedIDs []string) error {
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return fmt.Errorf("service.RoomService.Reorder: %w",
				domain.Validationf("roomIds", "room %q listed twice", id))
		}
		seen[id] = true
	}

	err := s.tx.Update(ctx, collections(store.Rooms), func(ctx context.Context, _ *store.Tx) error {
		for _, id := range orderedIDs {
			room, err := s.repos.Rooms.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if err := checkOwner("room", id, tripID, room.TripID); err != nil {
				return err
			}
		}
		for i, id := range orderedIDs {
			if err := s.repos.Rooms.SetOrder(ctx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.RoomService.Reorder: %w", err)
	}
	return nil
}

package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// RoomRepo defines the persistence operations for Rooms.
type RoomRepo interface {
	// Create inserts a fully-formed room and returns it.
	Create(ctx context.Context, room domain.Room) (domain.Room, error)

	// GetByID returns a *domain.NotFoundError if no room has that ID.
	GetByID(ctx context.Context, id string) (domain.Room, error)

	// ListByTripID returns a trip's rooms ordered by display order.
	ListByTripID(ctx context.Context, tripID string) ([]domain.Room, error)

	// MaxOrder returns the highest order value in the trip, reading only the
	// last entry of the (trip_id, sort_order) range. ok is false for a trip
	// without rooms.
	MaxOrder(ctx context.Context, tripID string) (order int, ok bool, err error)

	// Patch writes only the fields set in p.
	// Returns a *domain.NotFoundError if no room with that ID exists.
	Patch(ctx context.Context, id string, p domain.RoomPatch) error

	// SetOrder moves one room to a new display position.
	SetOrder(ctx context.Context, id string, order int) error

	// Delete removes a room by ID. Deleting a missing room is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByTripID removes every room of a trip and reports how many went.
	DeleteByTripID(ctx context.Context, tripID string) (int64, error)
}

type storeRoomRepo struct {
	s *store.Store
}

// NewRoomRepo constructs a RoomRepo backed by s.
func NewRoomRepo(s *store.Store) RoomRepo {
	return &storeRoomRepo{s: s}
}

func (r *storeRoomRepo) Create(ctx context.Context, room domain.Room) (domain.Room, error) {
	err := r.s.Update(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		return tx.Insert(ctx, store.Rooms, map[string]any{
			"id":          room.ID,
			"trip_id":     room.TripID,
			"name":        room.Name,
			"capacity":    room.Capacity,
			"description": strValue(room.Description),
			"sort_order":  room.Order,
			"icon":        strValue(room.Icon),
		})
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("repo.RoomRepo.Create: %w", err)
	}
	return room, nil
}

func (r *storeRoomRepo) GetByID(ctx context.Context, id string) (domain.Room, error) {
	var room domain.Room
	err := r.s.View(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		return tx.Get(ctx, store.Rooms, id, func(row store.Row) error {
			var err error
			room, err = scanRoom(row)
			return err
		})
	})
	if err != nil {
		return domain.Room{}, fmt.Errorf("repo.RoomRepo.GetByID: %w", notFound(err, "room", id))
	}
	return room, nil
}

func (r *storeRoomRepo) ListByTripID(ctx context.Context, tripID string) ([]domain.Room, error) {
	rooms := []domain.Room{}
	err := r.s.View(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		return tx.Find(ctx, store.Rooms, store.Query{
			Where:   []store.Cond{store.Eq("trip_id", tripID)},
			OrderBy: []string{"sort_order"},
		}, func(row store.Row) error {
			room, err := scanRoom(row)
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.ListByTripID: %w", err)
	}
	return rooms, nil
}

func (r *storeRoomRepo) MaxOrder(ctx context.Context, tripID string) (int, bool, error) {
	var (
		order int
		ok    bool
	)
	err := r.s.View(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		return tx.Find(ctx, store.Rooms, store.Query{
			Where:   []store.Cond{store.Eq("trip_id", tripID)},
			OrderBy: []string{"sort_order"},
			Desc:    true,
			Limit:   1,
		}, func(row store.Row) error {
			room, err := scanRoom(row)
			if err != nil {
				return err
			}
			order, ok = room.Order, true
			return nil
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("repo.RoomRepo.MaxOrder: %w", err)
	}
	return order, ok, nil
}

func (r *storeRoomRepo) Patch(ctx context.Context, id string, p domain.RoomPatch) error {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Capacity != nil {
		set["capacity"] = *p.Capacity
	}
	if p.Description.Set {
		set["description"] = strValue(p.Description.Value)
	}
	if p.Icon.Set {
		set["icon"] = strValue(p.Icon.Value)
	}
	if err := r.patch(ctx, id, set); err != nil {
		return fmt.Errorf("repo.RoomRepo.Patch: %w", err)
	}
	return nil
}

func (r *storeRoomRepo) SetOrder(ctx context.Context, id string, order int) error {
	if err := r.patch(ctx, id, map[string]any{"sort_order": order}); err != nil {
		return fmt.Errorf("repo.RoomRepo.SetOrder: %w", err)
	}
	return nil
}

func (r *storeRoomRepo) patch(ctx context.Context, id string, set map[string]any) error {
	return r.s.Update(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		found, err := tx.Patch(ctx, store.Rooms, id, set)
		if err != nil {
			return err
		}
		if !found {
			return &domain.NotFoundError{Entity: "room", ID: id}
		}
		return nil
	})
}

func (r *storeRoomRepo) Delete(ctx context.Context, id string) error {
	err := r.s.Update(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		return tx.Delete(ctx, store.Rooms, id)
	})
	if err != nil {
		return fmt.Errorf("repo.RoomRepo.Delete: %w", err)
	}
	return nil
}

func (r *storeRoomRepo) DeleteByTripID(ctx context.Context, tripID string) (int64, error) {
	var n int64
	err := r.s.Update(ctx, scope(store.Rooms), func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.DeleteWhere(ctx, store.Rooms, store.Eq("trip_id", tripID))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repo.RoomRepo.DeleteByTripID: %w", err)
	}
	return n, nil
}

func scanRoom(row store.Row) (domain.Room, error) {
	var (
		room        domain.Room
		description sql.NullString
		icon        sql.NullString
	)
	if err := row.Scan(&room.ID, &room.TripID, &room.Name, &room.Capacity, &description, &room.Order, &icon); err != nil {
		return domain.Room{}, err
	}
	room.Description = optString(description)
	room.Icon = optString(icon)
	return room, nil
}

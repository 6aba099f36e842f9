package handler

import (
	"net/http"

	"github.com/pkordes/tripstore/internal/domain"
)

// RoomOrder is the body of PUT /trips/{tripID}/rooms/order.
type RoomOrder struct {
	IDs []string `json:"ids"`
}

// CreateRoom handles POST /trips/{tripID}/rooms. The room is appended after
// the trip's current last room.
func (s *Server) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var in domain.NewRoom
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	room, err := s.deps.Rooms.Create(r.Context(), tripID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// ListRooms handles GET /trips/{tripID}/rooms in display order.
func (s *Server) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.deps.Rooms.ListByTrip(r.Context(), tripID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rooms))
}

// GetRoom handles GET /trips/{tripID}/rooms/{id}.
func (s *Server) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.deps.Rooms.Get(r.Context(), entityID(r))
	if err == nil {
		err = owned("room", room.ID, tripID(r), room.TripID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// UpdateRoom handles PATCH /trips/{tripID}/rooms/{id}.
func (s *Server) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var p domain.RoomPatch
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	room, err := s.deps.Rooms.UpdateWithOwnershipCheck(r.Context(), tripID(r), entityID(r), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// DeleteRoom handles DELETE /trips/{tripID}/rooms/{id}, taking the room's
// assignments with it.
func (s *Server) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Rooms.DeleteWithOwnershipCheck(r.Context(), tripID(r), entityID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderRooms handles PUT /trips/{tripID}/rooms/order.
func (s *Server) ReorderRooms(w http.ResponseWriter, r *http.Request) {
	var body RoomOrder
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Rooms.Reorder(r.Context(), tripID(r), body.IDs); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// owned reports an ownership mismatch between the trip in the URL and the
// one the record belongs to.
func owned(entity, id, want, got string) error {
	if want == got {
		return nil
	}
	return &domain.OwnershipError{Entity: entity, ID: id, ExpectedTripID: want, ActualTripID: got}
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

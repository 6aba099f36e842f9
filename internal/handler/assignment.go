package handler

import (
	"net/http"

	"github.com/pkordes/tripstore/internal/domain"
)

// ConflictResult is the body of GET /trips/{tripID}/assignments/conflicts.
type ConflictResult struct {
	Conflict bool `json:"conflict"`
}

// CreateAssignment handles POST /trips/{tripID}/assignments. The overlap
// check and the insert share one transaction; an overlap answers 409.
func (s *Server) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var in domain.NewRoomAssignment
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.deps.Assignments.AssignRoom(r.Context(), tripID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ListAssignments handles GET /trips/{tripID}/assignments.
func (s *Server) ListAssignments(w http.ResponseWriter, r *http.Request) {
	as, err := s.deps.Assignments.ListByTrip(r.Context(), tripID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(as))
}

// CheckConflict handles GET /trips/{tripID}/assignments/conflicts with
// ?personId=&start=&end= and an optional &excludeId=.
func (s *Server) CheckConflict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := domain.ParseDate(q.Get("start"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := domain.ParseDate(q.Get("end"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	personID := q.Get("personId")
	if personID == "" {
		s.writeError(w, r, domain.Validationf("personId", "is required"))
		return
	}
	conflict, err := s.deps.Assignments.CheckConflict(r.Context(), tripID(r), personID, start, end, q.Get("excludeId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConflictResult{Conflict: conflict})
}

// GetAssignment handles GET /trips/{tripID}/assignments/{id}.
func (s *Server) GetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Assignments.Get(r.Context(), entityID(r))
	if err == nil {
		err = owned("room assignment", a.ID, tripID(r), a.TripID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateAssignment handles PATCH /trips/{tripID}/assignments/{id}.
func (s *Server) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var p domain.RoomAssignmentPatch
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.deps.Assignments.UpdateWithOwnershipCheck(r.Context(), tripID(r), entityID(r), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAssignment handles DELETE /trips/{tripID}/assignments/{id}.
func (s *Server) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Assignments.DeleteWithOwnershipCheck(r.Context(), tripID(r), entityID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

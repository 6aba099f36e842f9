package handler

import (
	"net/http"

	"github.com/pkordes/tripstore/internal/domain"
)

// CreatePerson handles POST /trips/{tripID}/people.
func (s *Server) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var in domain.NewPerson
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.deps.People.Create(r.Context(), tripID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListPeople handles GET /trips/{tripID}/people.
func (s *Server) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.deps.People.ListByTrip(r.Context(), tripID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(people))
}

// GetPerson handles GET /trips/{tripID}/people/{id}.
func (s *Server) GetPerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.People.Get(r.Context(), entityID(r))
	if err == nil {
		err = owned("person", p.ID, tripID(r), p.TripID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePerson handles PATCH /trips/{tripID}/people/{id}.
func (s *Server) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	var patch domain.PersonPatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.deps.People.UpdateWithOwnershipCheck(r.Context(), tripID(r), entityID(r), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePerson handles DELETE /trips/{tripID}/people/{id}. The person's
// assignments and transports go too; transports they were driving keep
// their row with the driver cleared.
func (s *Server) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.People.DeleteWithOwnershipCheck(r.Context(), tripID(r), entityID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

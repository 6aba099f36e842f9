package handler

import (
	"net/http"

	"github.com/pkordes/tripstore/internal/domain"
)

// CreateTransport handles POST /trips/{tripID}/transports.
func (s *Server) CreateTransport(w http.ResponseWriter, r *http.Request) {
	var in domain.NewTransport
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.deps.Transports.Create(r.Context(), tripID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListTransports handles GET /trips/{tripID}/transports, earliest first.
func (s *Server) ListTransports(w http.ResponseWriter, r *http.Request) {
	ts, err := s.deps.Transports.ListByTrip(r.Context(), tripID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ts))
}

// GetTransport handles GET /trips/{tripID}/transports/{id}.
func (s *Server) GetTransport(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.Transports.Get(r.Context(), entityID(r))
	if err == nil {
		err = owned("transport", t.ID, tripID(r), t.TripID)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTransport handles PATCH /trips/{tripID}/transports/{id}.
func (s *Server) UpdateTransport(w http.ResponseWriter, r *http.Request) {
	var p domain.TransportPatch
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.deps.Transports.UpdateWithOwnershipCheck(r.Context(), tripID(r), entityID(r), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTransport handles DELETE /trips/{tripID}/transports/{id}.
func (s *Server) DeleteTransport(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transports.DeleteWithOwnershipCheck(r.Context(), tripID(r), entityID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

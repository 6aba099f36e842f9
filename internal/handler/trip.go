package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tripstore/internal/domain"
)

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var in domain.NewTrip
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.deps.Trips.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /trips, newest start date first.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.deps.Trips.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	writeJSON(w, http.StatusOK, TripList{
		Data:       trips,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.deps.Trips.Get(r.Context(), tripID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// GetTripByShareID handles GET /shares/{shareID}.
func (s *Server) GetTripByShareID(w http.ResponseWriter, r *http.Request) {
	trip, err := s.deps.Trips.GetByShareID(r.Context(), chi.URLParam(r, "shareID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PATCH /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var p domain.TripPatch
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.deps.Trips.Update(r.Context(), tripID(r), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{tripID}. Everything the trip owns goes
// with it; deleting an unknown trip still answers 204.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Trips.Delete(r.Context(), tripID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportTrip handles GET /trips/{tripID}/export.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	exp, err := s.deps.Export.ExportTrip(r.Context(), tripID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// queryInt returns the named query parameter as an int, or nil when it is
// absent or not a number so the caller's default applies.
func queryInt(r *http.Request, name string) *int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &v
}

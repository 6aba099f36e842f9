package handler

import (
	"net/http"

	"github.com/pkordes/tripstore/internal/domain"
)

// GetSettings handles GET /settings. Defaults are returned until the first
// update is written.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateSettings handles PATCH /settings.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p domain.SettingsPatch
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.deps.Settings.Update(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pkordes/tripstore/internal/domain"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// errBadRequest marks request bodies that could not be decoded at all.
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Anything unrecognised is logged and reported as 500 without its message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *domain.ValidationError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: ve.Reason, Field: ve.Field,
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", err))
	case errors.As(err, &mbe):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("too_large", err))
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request", err))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", err))
	case errors.Is(err, domain.ErrOwnership):
		writeJSON(w, http.StatusForbidden, errorBody("ownership", err))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("conflict", err))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal", Message: http.StatusText(http.StatusInternalServerError),
		}})
	}
}

func errorBody(code string, err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: unwrapMessage(err)}}
}

// unwrapMessage returns the innermost message of a wrapped error chain,
// dropping the "layer.Type.Method: " prefixes added on the way up.
func unwrapMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil || isSentinel(next) {
			return err.Error()
		}
		err = next
	}
}

func isSentinel(err error) bool {
	for _, s := range []error{errBadRequest, domain.ErrNotFound, domain.ErrValidation, domain.ErrOwnership, domain.ErrConflict, domain.ErrStorage} {
		if err == s {
			return true
		}
	}
	return false
}

// decode reads a JSON body into v. Malformed JSON is a bad request; a value
// rejected by a domain type's own parser keeps its validation error.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var (
			ve  *domain.ValidationError
			mbe *http.MaxBytesError
		)
		if errors.As(err, &ve) || errors.As(err, &mbe) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/handler"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/service"
	"github.com/pkordes/tripstore/testutil"
)

// ---- helpers ---------------------------------------------------------------

// newAPI wires the full service stack over a fresh SQLite store, the same
// way main.go wires it in production.
func newAPI(t *testing.T) http.Handler {
	t.Helper()
	s := testutil.NewStore(t)
	var clock int64 = 1_720_000_000_000
	svc := service.New(s, repo.New(s), func() int64 {
		clock++
		return clock
	})
	return handler.NewServer(handler.Deps{
		Trips:       svc.Trips,
		Rooms:       svc.Rooms,
		People:      svc.People,
		Assignments: svc.Assignments,
		Transports:  svc.Transports,
		Settings:    svc.Settings,
		Export:      svc.Export,
	}, nil).Routes()
}

// do sends one request through h. A non-nil body is JSON-encoded unless it
// is already a string.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeAs decodes the recorder body into a T.
func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// errorCode returns the error.code of a failure body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeAs[handler.ErrorResponse](t, rec).Error.Code
}

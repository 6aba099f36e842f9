// Package testutil provides shared helpers for store-backed tests.
// SQLite stores need nothing but a temp dir; Postgres helpers skip
// automatically when TEST_DATABASE_URL is not set, so the suite runs
// anywhere.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkordes/tripstore/internal/store"
)

// NewStore opens a migrated SQLite store in a fresh file under t.TempDir().
// Every call gets its own database, so tests never see each other's rows.
// The store is closed automatically when the test finishes.
func NewStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tripstore.db")
	s, err := store.OpenSQLite(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// NewPostgresStore opens a migrated store against TEST_DATABASE_URL and
// empties every collection before and after the test.
//
// The test is skipped automatically if TEST_DATABASE_URL is not set.
func NewPostgresStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	dsn := requireDSN(t)
	ctx := context.Background()

	s, err := store.OpenPostgres(ctx, dsn, opts...)
	if err != nil {
		t.Fatalf("testutil.NewPostgresStore: %v", err)
	}
	truncate := func() {
		for _, c := range store.All {
			if _, err := s.DB().ExecContext(ctx, "DELETE FROM "+c.Name); err != nil {
				t.Fatalf("testutil.NewPostgresStore: clear %s: %v", c.Name, err)
			}
		}
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		_ = s.Close()
	})
	return s
}

// requireDSN returns the TEST_DATABASE_URL environment variable value,
// skipping the test if it is not set.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}

// Package store is the storage engine the repositories are built on: named
// collections with point, equality and ordered lookups, partial updates, and
// transactions over a declared set of collections.
//
// A transaction rides in the context handed to its body. Repository calls made
// with that context join the open transaction instead of starting a new one,
// so a service can compose several repository operations atomically.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripstore/internal/domain"
)

// ErrScope is returned when a transaction touches a collection it did not
// declare, or a nested transaction asks for more than its parent holds.
var ErrScope = errors.New("collection outside transaction scope")

// ErrReadOnly is returned when a write is attempted inside a View.
var ErrReadOnly = errors.New("write inside read-only transaction")

// ErrNoRecord is returned by Tx.Get when no row has the requested id.
var ErrNoRecord = errors.New("no record")

// querier is the subset of database/sql used by Tx; *sql.Tx satisfies it.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the database handle, the per-collection lock table and the
// dialect used to render SQL.
type Store struct {
	db      *sql.DB
	dialect Dialect
	locks   *lockTable
	log     *slog.Logger
	metrics *Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migration and rollback messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics records transaction outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New wraps an already-open database. It does not run migrations.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		locks:   newLockTable(),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for integration-test hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect reports which engine the store talks to.
func (s *Store) Dialect() Dialect { return s.dialect }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

type txKey struct{}

// Update runs fn in a read-write transaction over scope. Everything fn writes
// commits together when it returns nil; any error or panic rolls it all back.
func (s *Store) Update(ctx context.Context, scope []*Collection, fn func(ctx context.Context, tx *Tx) error) error {
	return s.run(ctx, scope, true, fn)
}

// View runs fn in a read-only transaction over scope, giving it a consistent
// snapshot of those collections.
func (s *Store) View(ctx context.Context, scope []*Collection, fn func(ctx context.Context, tx *Tx) error) error {
	return s.run(ctx, scope, false, fn)
}

func (s *Store) run(ctx context.Context, scope []*Collection, write bool, fn func(ctx context.Context, tx *Tx) error) (err error) {
	if parent, ok := ctx.Value(txKey{}).(*Tx); ok && parent.store == s {
		if err := parent.covers(scope, write); err != nil {
			return err
		}
		return fn(ctx, parent)
	}

	names := scopeNames(scope)
	unlock := s.locks.acquire(names, write)
	defer unlock()

	mode := "read"
	if write {
		mode = "write"
	}
	start := time.Now()

	sqlTx, err := s.db.BeginTx(ctx, s.dialect.txOptions(write))
	if err != nil {
		s.metrics.observe(mode, "error", time.Since(start))
		return &domain.StorageError{Op: "begin", Entity: strings.Join(names, ","), Err: err}
	}

	tx := &Tx{
		id:      uuid.NewString(),
		q:       sqlTx,
		store:   s,
		scope:   make(map[string]bool, len(names)),
		write:   write,
		dialect: s.dialect,
	}
	for _, n := range names {
		tx.scope[n] = true
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			s.metrics.observe(mode, "rollback", time.Since(start))
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.WarnContext(ctx, "rollback failed", "tx_id", tx.id, "scope", names, "error", rbErr)
			}
			s.log.DebugContext(ctx, "transaction rolled back", "tx_id", tx.id, "scope", names, "error", err)
			s.metrics.observe(mode, "rollback", time.Since(start))
			return
		}
		if cErr := sqlTx.Commit(); cErr != nil {
			err = &domain.StorageError{Op: "commit", Entity: strings.Join(names, ","), Err: cErr}
			s.metrics.observe(mode, "error", time.Since(start))
			return
		}
		s.metrics.observe(mode, "commit", time.Since(start))
	}()

	return fn(context.WithValue(ctx, txKey{}, tx), tx)
}

// scopeNames returns the sorted, de-duplicated collection names of scope.
func scopeNames(scope []*Collection) []string {
	names := make([]string, 0, len(scope))
	for _, c := range scope {
		names = append(names, c.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func scopeError(op string, names ...string) error {
	return fmt.Errorf("store: %s %s: %w", op, strings.Join(names, ","), ErrScope)
}

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

func newMockStore(t *testing.T, d store.Dialect) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db, d), mock
}

func TestUpdate_BeginFailureIsStorageError(t *testing.T) {
	s, mock := newMockStore(t, store.SQLite)
	mock.ExpectBegin().WillReturnError(errors.New("disk I/O error"))

	err := s.Update(context.Background(), []*store.Collection{store.Rooms}, func(context.Context, *store.Tx) error {
		t.Fatal("body must not run")
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrStorage)
	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "begin", se.Op)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ExecFailureRollsBackWithContext(t *testing.T) {
	s, mock := newMockStore(t, store.SQLite)
	diskFull := errors.New("database or disk is full")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms SET name = \?`).WillReturnError(diskFull)
	mock.ExpectRollback()

	err := s.Update(context.Background(), []*store.Collection{store.Rooms}, func(ctx context.Context, tx *store.Tx) error {
		_, err := tx.Patch(ctx, store.Rooms, "r1", map[string]any{"name": "x"})
		return err
	})

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, diskFull, "engine error must stay reachable")
	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "rooms", se.Entity)
	assert.Equal(t, "r1", se.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_CommitFailureIsStorageError(t *testing.T) {
	s, mock := newMockStore(t, store.SQLite)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM rooms WHERE id = \?`).WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("locked"))

	err := s.Update(context.Background(), []*store.Collection{store.Rooms}, func(ctx context.Context, tx *store.Tx) error {
		return tx.Delete(ctx, store.Rooms, "r1")
	})

	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "commit", se.Op)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDialect_RebindsPlaceholders(t *testing.T) {
	s, mock := newMockStore(t, store.Postgres)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM room_assignments WHERE trip_id = \$1 AND room_id = \$2`).
		WithArgs("t1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	var n int64
	err := s.Update(context.Background(), []*store.Collection{store.RoomAssignments}, func(ctx context.Context, tx *store.Tx) error {
		var err error
		n, err = tx.DeleteWhere(ctx, store.RoomAssignments, store.Eq("trip_id", "t1"), store.Eq("room_id", "r1"))
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/store"
)

// SettingsRepo persists the single settings row.
type SettingsRepo interface {
	// Get returns a *domain.NotFoundError until settings have been written.
	Get(ctx context.Context) (domain.Settings, error)

	// Put writes the whole row, creating it if needed.
	Put(ctx context.Context, s domain.Settings) (domain.Settings, error)
}

type storeSettingsRepo struct {
	s *store.Store
}

// NewSettingsRepo constructs a SettingsRepo backed by s.
func NewSettingsRepo(s *store.Store) SettingsRepo {
	return &storeSettingsRepo{s: s}
}

func (r *storeSettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := r.s.View(ctx, scope(store.Settings), func(ctx context.Context, tx *store.Tx) error {
		return tx.Get(ctx, store.Settings, domain.SettingsID, func(row store.Row) error {
			var current sql.NullString
			if err := row.Scan(&out.ID, &out.Language, &current); err != nil {
				return err
			}
			out.CurrentTripID = optString(current)
			return nil
		})
	})
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Get: %w", notFound(err, "settings", domain.SettingsID))
	}
	return out, nil
}

func (r *storeSettingsRepo) Put(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	s.ID = domain.SettingsID
	err := r.s.Update(ctx, scope(store.Settings), func(ctx context.Context, tx *store.Tx) error {
		return tx.Upsert(ctx, store.Settings, map[string]any{
			"id":              s.ID,
			"language":        s.Language,
			"current_trip_id": strValue(s.CurrentTripID),
		})
	})
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Put: %w", err)
	}
	return s, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/tripstore/migrations"
)

// Migrate applies every pending embedded migration in version order.
// It is safe to call on an up-to-date database.
func (s *Store) Migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(s.dialect.goose(), s.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("store.Migrate: create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("store.Migrate: %w", err)
	}
	for _, r := range results {
		s.log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	provider, err := goose.NewProvider(s.dialect.goose(), s.db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("store.SchemaVersion: create goose provider: %w", err)
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.SchemaVersion: %w", err)
	}
	return v, nil
}

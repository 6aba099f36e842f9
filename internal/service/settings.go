package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tripstore/internal/domain"
	"github.com/pkordes/tripstore/internal/repo"
	"github.com/pkordes/tripstore/internal/store"
)

// SettingsService manages the application-wide settings singleton.
type SettingsService struct {
	tx    Transactor
	repos repo.Repos
}

func NewSettingsService(tx Transactor, r repo.Repos) *SettingsService {
	return &SettingsService{tx: tx, repos: r}
}

func defaultSettings() domain.Settings {
	return domain.Settings{ID: domain.SettingsID, Language: domain.DefaultLanguage}
}

// Get returns the stored settings, or the defaults when none were written.
// A current trip that has since been deleted is reported as no current trip.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := s.tx.View(ctx, collections(store.Settings, store.Trips), func(ctx context.Context, _ *store.Tx) error {
		var err error
		out, err = s.repos.Settings.Get(ctx)
		if absent(err) {
			out = defaultSettings()
			return nil
		}
		if err != nil {
			return err
		}
		if out.CurrentTripID != nil {
			_, err := s.repos.Trips.GetByID(ctx, *out.CurrentTripID)
			if absent(err) {
				out.CurrentTripID = nil
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.Get: %w", err)
	}
	return out, nil
}

// Ensure writes the default settings if none exist and returns what is stored.
func (s *SettingsService) Ensure(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := s.tx.Update(ctx, collections(store.Settings), func(ctx context.Context, _ *store.Tx) error {
		var err error
		out, err = s.ensure(ctx)
		return err
	})
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.Ensure: %w", err)
	}
	return out, nil
}

func (s *SettingsService) ensure(ctx context.Context) (domain.Settings, error) {
	cur, err := s.repos.Settings.Get(ctx)
	if absent(err) {
		return s.repos.Settings.Put(ctx, defaultSettings())
	}
	return cur, err
}

// Update merges p into the stored settings, creating them first if needed.
// A current trip, when set, must exist.
func (s *SettingsService) Update(ctx context.Context, p domain.SettingsPatch) (domain.Settings, error) {
	if p.Language != nil {
		lang, err := requireText("language", *p.Language)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("service.SettingsService.Update: %w", err)
		}
		p.Language = &lang
	}

	var out domain.Settings
	err := s.tx.Update(ctx, collections(store.Settings, store.Trips), func(ctx context.Context, _ *store.Tx) error {
		cur, err := s.ensure(ctx)
		if err != nil {
			return err
		}
		if p.CurrentTripID.Set && p.CurrentTripID.Value != nil {
			if _, err := s.repos.Trips.GetByID(ctx, *p.CurrentTripID.Value); err != nil {
				return err
			}
		}
		out, err = s.repos.Settings.Put(ctx, p.Apply(cur))
		return err
	})
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service.SettingsService.Update: %w", err)
	}
	return out, nil
}

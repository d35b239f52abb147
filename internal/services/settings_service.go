package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"wingman/internal/models"
	"wingman/internal/repositories"
)

var ErrUnknownSetting = errors.New("unknown setting")

// SettingsService caches the recognized boolean preferences and writes
// every change through to the repository. It is created once at startup
// and shared by reference.
type SettingsService struct {
	repo     repositories.SettingsRepository
	ctx      context.Context
	defaults map[string]bool

	mu     sync.RWMutex
	values map[string]bool
}

// NewSettingsService loads stored values and writes the default for any
// recognized key the store does not have yet.
func NewSettingsService(ctx context.Context, repo repositories.SettingsRepository) (*SettingsService, error) {
	if repo == nil {
		return nil, errors.New("settings repository is required")
	}
	s := &SettingsService{
		repo:     repo,
		ctx:      ctx,
		defaults: models.DefaultSettings(),
		values:   make(map[string]bool),
	}

	stored, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	for _, setting := range stored {
		if _, ok := s.defaults[setting.Key]; ok {
			s.values[setting.Key] = setting.Value
		}
	}

	missing := make(map[string]bool)
	for key, def := range s.defaults {
		if _, ok := s.values[key]; !ok {
			missing[key] = def
			s.values[key] = def
		}
	}
	if err := repo.UpsertMany(ctx, missing); err != nil {
		return nil, fmt.Errorf("seed default settings: %w", err)
	}
	return s, nil
}

// Startup rebinds the service to the application lifetime context.
func (s *SettingsService) Startup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
}

func (s *SettingsService) Get(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return v, nil
}

func (s *SettingsService) Set(key string, value bool) error {
	if _, ok := s.defaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Upsert(s.ctx, key, value); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	s.values[key] = value
	return nil
}

// ResetToDefaults overwrites every recognized key. The cache changes only
// once the store has accepted the defaults.
func (s *SettingsService) ResetToDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defaults := maps.Clone(s.defaults)
	if err := s.repo.UpsertMany(s.ctx, defaults); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	s.values = defaults
	return nil
}

// Persist writes the full cached map.
func (s *SettingsService) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.repo.UpsertMany(s.ctx, maps.Clone(s.values)); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

// All returns a copy of the current values.
func (s *SettingsService) All() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

package mocks

import (
	"context"
	"sort"
	"sync"

	"wingman/internal/models"
)

// SettingsRepositoryMock keeps rows in memory unless a Func override is set.
type SettingsRepositoryMock struct {
	ListFunc       func(ctx context.Context) ([]models.Setting, error)
	UpsertFunc     func(ctx context.Context, key string, value bool) error
	UpsertManyFunc func(ctx context.Context, values map[string]bool) error

	mu   sync.Mutex
	Rows map[string]bool
}

func (m *SettingsRepositoryMock) List(ctx context.Context) ([]models.Setting, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Setting, 0, len(m.Rows))
	for k, v := range m.Rows {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *SettingsRepositoryMock) Upsert(ctx context.Context, key string, value bool) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, key, value)
	}
	return m.UpsertMany(ctx, map[string]bool{key: value})
}

func (m *SettingsRepositoryMock) UpsertMany(ctx context.Context, values map[string]bool) error {
	if m.UpsertManyFunc != nil {
		return m.UpsertManyFunc(ctx, values)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Rows == nil {
		m.Rows = make(map[string]bool)
	}
	for k, v := range values {
		m.Rows[k] = v
	}
	return nil
}

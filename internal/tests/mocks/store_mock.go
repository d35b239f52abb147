package mocks

import (
	"context"

	"wingman/internal/models"
	"wingman/internal/store"
)

var _ store.Store = (*StoreMock)(nil)

// StoreMock answers with empty results unless a Func override is set.
type StoreMock struct {
	CloseFunc              func() error
	PingFunc               func(ctx context.Context) error
	CreateUserFunc         func(ctx context.Context, user *models.User) error
	GetUserByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetUserByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHashFunc func(ctx context.Context, userID, hash string) (int64, error)
	ListProvidersFunc      func(ctx context.Context) ([]models.Provider, error)
	DefaultProviderFunc    func(ctx context.Context) (*models.Provider, error)
	SeedProvidersFunc      func(ctx context.Context, providers []models.Provider) error
}

func (m *StoreMock) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *StoreMock) DatabaseType() string {
	return "Mock"
}

func (m *StoreMock) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *StoreMock) CreateUser(ctx context.Context, user *models.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	return nil
}

func (m *StoreMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *StoreMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *StoreMock) UpdatePasswordHash(ctx context.Context, userID, hash string) (int64, error) {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, userID, hash)
	}
	return 0, nil
}

func (m *StoreMock) ListProviders(ctx context.Context) ([]models.Provider, error) {
	if m.ListProvidersFunc != nil {
		return m.ListProvidersFunc(ctx)
	}
	return []models.Provider{}, nil
}

func (m *StoreMock) DefaultProvider(ctx context.Context) (*models.Provider, error) {
	if m.DefaultProviderFunc != nil {
		return m.DefaultProviderFunc(ctx)
	}
	return nil, store.ErrNotFound
}

func (m *StoreMock) SeedProviders(ctx context.Context, providers []models.Provider) error {
	if m.SeedProvidersFunc != nil {
		return m.SeedProvidersFunc(ctx, providers)
	}
	return nil
}

// Package store provides the web backend's relational storage. Both the
// SQLite and PostgreSQL backends satisfy Store and share one query set.
package store

import (
	"context"
	"errors"

	"wingman/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store defines the data access used by the HTTP handlers. Every method
// runs parameterized statements only.
type Store interface {
	Close() error

	// DatabaseType returns the backend name ("SQLite" or "PostgreSQL").
	DatabaseType() string
	Ping(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdatePasswordHash reports the number of rows changed; zero means
	// no user has that id.
	UpdatePasswordHash(ctx context.Context, userID, hash string) (int64, error)

	// Provider operations
	ListProviders(ctx context.Context) ([]models.Provider, error)
	DefaultProvider(ctx context.Context) (*models.Provider, error)
	SeedProviders(ctx context.Context, providers []models.Provider) error
}

// Open picks PostgreSQL when databaseURL is set and SQLite at path otherwise.
func Open(ctx context.Context, databaseURL, path string) (Store, error) {
	if databaseURL != "" {
		return NewPostgres(ctx, databaseURL)
	}
	return NewSQLite(ctx, path)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"wingman/internal/models"
)

// sqlStore holds the queries shared by both backends. Queries are written
// with ? placeholders and rebound for dialects that number them.
type sqlStore struct {
	conn     *sql.DB
	name     string
	numbered bool
	now      func() time.Time
}

func (s *sqlStore) Close() error {
	return s.conn.Close()
}

func (s *sqlStore) DatabaseType() string {
	return s.name
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// rebind rewrites ? placeholders to $1, $2, ... when the dialect needs it.
func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// --- User Methods ---

const userColumns = `id, email, name, password_hash, created_at`

func (s *sqlStore) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("user is required")
	}
	email := normalizeEmail(user.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = email
	user.CreatedAt = s.now().UTC().Truncate(time.Second)
	ts := user.CreatedAt.Unix()
	_, err := s.conn.ExecContext(ctx, s.rebind(
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		user.ID, user.Email, user.Name, user.PasswordHash, ts, ts)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *sqlStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.conn.QueryRowContext(ctx, s.rebind(
		`SELECT `+userColumns+` FROM users WHERE email = ?`), normalizeEmail(email))
	return scanUser(row)
}

func (s *sqlStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.conn.QueryRowContext(ctx, s.rebind(
		`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	return scanUser(row)
}

func (s *sqlStore) UpdatePasswordHash(ctx context.Context, userID, hash string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.rebind(
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
		hash, s.now().UTC().Unix(), userID)
	if err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var created int64
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// --- Provider Methods ---

const providerColumns = `id, name, base_url, enabled, is_default, sort_order`

func (s *sqlStore) ListProviders(ctx context.Context) ([]models.Provider, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+providerColumns+` FROM providers ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := []models.Provider{}
	for rows.Next() {
		var p models.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.BaseURL, &p.Enabled, &p.IsDefault, &p.SortOrder); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func (s *sqlStore) DefaultProvider(ctx context.Context) (*models.Provider, error) {
	var p models.Provider
	err := s.conn.QueryRowContext(ctx, s.rebind(
		`SELECT `+providerColumns+` FROM providers WHERE is_default = ? ORDER BY sort_order LIMIT 1`), true).
		Scan(&p.ID, &p.Name, &p.BaseURL, &p.Enabled, &p.IsDefault, &p.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SeedProviders inserts catalog rows that are not present yet. Existing
// rows are left untouched so operators can edit them.
func (s *sqlStore) SeedProviders(ctx context.Context, providers []models.Provider) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	hasDefault := false
	if err := tx.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) > 0 FROM providers WHERE is_default = ?`), true).Scan(&hasDefault); err != nil {
		return fmt.Errorf("check default provider: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(
		`INSERT INTO providers (`+providerColumns+`) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range providers {
		isDefault := p.IsDefault && !hasDefault
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.BaseURL, p.Enabled, isDefault, p.SortOrder); err != nil {
			return fmt.Errorf("seed provider %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

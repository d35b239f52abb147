package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ServerConfig holds the web server settings read from the environment.
type ServerConfig struct {
	Addr          string
	DatabaseURL   string
	DBPath        string
	TokenSecret   string
	Env           string
	LogLevel      string
	LogFile       string
	CORSOrigins   []string
	ResetTokenTTL time.Duration
	SessionTTL    time.Duration
	BcryptCost    int
	// KeyringDir enables the encrypted file keyring used for the token
	// secret when no OS keychain is available.
	KeyringDir      string
	KeyringPassword string
}

// Production reports whether cookies must be marked Secure.
func (c ServerConfig) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadServerConfig reads WINGMAN_* variables, applies defaults and validates.
func LoadServerConfig() (ServerConfig, error) {
	return loadServerConfig(os.Getenv)
}

func loadServerConfig(getenv func(string) string) (ServerConfig, error) {
	c := ServerConfig{
		Addr:        strings.TrimSpace(getenv("WINGMAN_ADDR")),
		DatabaseURL: strings.TrimSpace(getenv("DATABASE_URL")),
		DBPath:      strings.TrimSpace(getenv("WINGMAN_DB_PATH")),
		TokenSecret: getenv("WINGMAN_TOKEN_SECRET"),
		Env:         strings.TrimSpace(getenv("WINGMAN_ENV")),
		LogLevel:    strings.TrimSpace(getenv("WINGMAN_LOG_LEVEL")),
		LogFile:     strings.TrimSpace(getenv("WINGMAN_LOG_FILE")),

		KeyringDir:      strings.TrimSpace(getenv("WINGMAN_KEYRING_DIR")),
		KeyringPassword: getenv("WINGMAN_KEYRING_PASSWORD"),
	}
	for _, o := range strings.Split(getenv("WINGMAN_CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}

	var err error
	if c.ResetTokenTTL, err = parseDuration(getenv("WINGMAN_RESET_TOKEN_TTL")); err != nil {
		return ServerConfig{}, fmt.Errorf("WINGMAN_RESET_TOKEN_TTL: %w", err)
	}
	if c.SessionTTL, err = parseDuration(getenv("WINGMAN_SESSION_TTL")); err != nil {
		return ServerConfig{}, fmt.Errorf("WINGMAN_SESSION_TTL: %w", err)
	}
	if v := strings.TrimSpace(getenv("WINGMAN_BCRYPT_COST")); v != "" {
		if c.BcryptCost, err = strconv.Atoi(v); err != nil {
			return ServerConfig{}, fmt.Errorf("WINGMAN_BCRYPT_COST: %w", err)
		}
	}

	applyServerDefaults(&c)
	if err := validateServer(&c); err != nil {
		return ServerConfig{}, err
	}
	return c, nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func applyServerDefaults(c *ServerConfig) {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DBPath == "" {
		c.DBPath = "wingman-web.db"
	}
	if c.Env == "" {
		c.Env = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ResetTokenTTL == 0 {
		c.ResetTokenTTL = time.Hour
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
}

func validateServer(c *ServerConfig) error {
	if c.ResetTokenTTL < 0 {
		return errors.New("reset token ttl must be positive")
	}
	if c.SessionTTL < 0 {
		return errors.New("session ttl must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.TokenSecret != "" && len(c.TokenSecret) < 32 {
		return errors.New("WINGMAN_TOKEN_SECRET must be at least 32 bytes")
	}
	return nil
}

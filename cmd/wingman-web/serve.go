package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wingman/internal/assets"
	"wingman/internal/auth"
	"wingman/internal/config"
	"wingman/internal/server"
	"wingman/internal/services"
	"wingman/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides WINGMAN_ADDR")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	secret, err := tokenSecret(cfg, log)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokens(secret)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{Store: st, Tokens: tokens, Config: cfg, Logger: log})
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

// openStore opens the configured backend and seeds the provider catalog.
func openStore(ctx context.Context, cfg config.ServerConfig, log *zap.Logger) (store.Store, error) {
	st, err := store.Open(ctx, cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	catalog, err := assets.Providers()
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := st.SeedProviders(ctx, catalog); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed providers: %w", err)
	}
	log.Info("store ready", zap.String("database", st.DatabaseType()), zap.Int("catalog_providers", len(catalog)))
	return st, nil
}

// tokenSecret prefers WINGMAN_TOKEN_SECRET and otherwise keeps a generated
// secret in the keyring so sessions survive restarts.
func tokenSecret(cfg config.ServerConfig, log *zap.Logger) ([]byte, error) {
	if cfg.TokenSecret != "" {
		return []byte(cfg.TokenSecret), nil
	}
	ring, err := services.OpenKeyring(services.KeyringConfig{
		FileDir:      cfg.KeyringDir,
		FilePassword: cfg.KeyringPassword,
	})
	if err != nil {
		return nil, errors.Join(errors.New("WINGMAN_TOKEN_SECRET is not set and no keyring is available"), err)
	}
	secret, err := services.NewKeyringService(ring, log).TokenSecret()
	if err != nil {
		return nil, fmt.Errorf("token secret: %w", err)
	}
	log.Info("using token secret from keyring")
	return secret, nil
}

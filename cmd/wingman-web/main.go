// Command wingman-web serves the Wingman web backend API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wingman/internal/config"
	"wingman/internal/logging"
	"wingman/internal/utils"
)

var rootCmd = &cobra.Command{
	Use:           "wingman-web",
	Short:         "Wingman web backend",
	Long:          "Serves the Wingman auth and provider API. Configuration is read from WINGMAN_* environment variables and an optional .env file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads .env, the server config and the logger shared by every command.
func setup() (config.ServerConfig, *zap.Logger, error) {
	envPath, envErr := utils.LoadEnv()

	cfg, err := config.LoadServerConfig()
	if err != nil {
		return config.ServerConfig{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		JSON:  cfg.Production(),
	})
	if err != nil {
		return config.ServerConfig{}, nil, fmt.Errorf("create logger: %w", err)
	}
	if envErr != nil {
		log.Warn("failed to load .env", zap.String("path", envPath), zap.Error(envErr))
	} else if envPath != "" {
		log.Info("loaded .env", zap.String("path", envPath))
	}
	return cfg, log, nil
}

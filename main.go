package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/wailsapp/wails/v2"
	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wingman/internal/config"
	"wingman/internal/connectivity"
	"wingman/internal/coordinator"
	"wingman/internal/database"
	"wingman/internal/logging"
	"wingman/internal/models"
	"wingman/internal/panel"
	"wingman/internal/repositories"
	"wingman/internal/services"
	"wingman/internal/utils"
)

func main() {
	if _, err := utils.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading .env:", err)
	}

	log, err := logging.New(logging.Options{
		Level: os.Getenv("WINGMAN_LOG_LEVEL"),
		File:  filepath.Join(logging.DefaultLogDir("wingman"), "wingman.log"),
		JSON:  !database.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		log = zap.NewExample()
	}

	ctx := context.Background()

	settings, dbClose := openSettings(ctx, log)

	cfg := config.Load(log)
	checker := connectivity.NewChecker(cfg.WebBaseURL, log)
	p, err := panel.New(cfg.WebBaseURL, log)
	if err != nil {
		log.Warn("invalid web base url, using default", zap.String("url", cfg.WebBaseURL), zap.Error(err))
		checker.SetURL(config.DefaultWebBaseURL)
		p, _ = panel.New(config.DefaultWebBaseURL, log)
	}
	if pinned, err := settings.Get(models.SettingPinPanel); err == nil {
		p.SetPinned(pinned)
	}

	coord, err := coordinator.New(coordinator.Deps{Checker: checker, Panel: p, Logger: log})
	if err != nil {
		log.Fatal("coordinator", zap.Error(err))
	}
	coord.Start(ctx)

	keyringService := services.NewKeyringService(openKeyring(log), log)
	app := NewApp(log, coord, p, settings, dbClose)

	err = wails.Run(&options.App{
		Title:       "Wingman",
		Width:       420,
		Height:      640,
		MinWidth:    360,
		MinHeight:   480,
		StartHidden: true,
		AlwaysOnTop: p.IsPinned(),
		AssetServer: &assetserver.Options{
			Handler: p.Handler(),
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Wingman",
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{Title: "Wingman", Message: "Menu-bar companion for the Wingman web app"},
		},
		BackgroundColour:   &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		Logger:             logging.NewWailsLogger(log),
		LogLevel:           wailslogger.INFO,
		LogLevelProduction: wailslogger.WARNING,
		OnStartup:          app.startup,
		OnBeforeClose:      p.OnBeforeClose,
		OnShutdown:         app.shutdown,
		Bind: []interface{}{
			app,
			keyringService,
		},
	})

	if err != nil {
		log.Error("wails run failed", zap.Error(err))
	}
}

// openSettings loads settings from the on-disk database, falling back to
// an in-memory one so the shell still starts with defaults.
func openSettings(ctx context.Context, log *zap.Logger) (*services.SettingsService, func() error) {
	for _, path := range []string{database.GetDefaultDBPath(), database.MemoryPath} {
		db, err := database.Init(database.Config{Path: path, LogLevel: logger.Warn, Logger: log})
		if err != nil {
			log.Error("failed to open settings database", zap.String("path", path), zap.Error(err))
			continue
		}
		closeDB := closer(db)
		settings, err := services.NewSettingsService(ctx, repositories.NewSettingsRepository(db))
		if err != nil {
			log.Error("failed to load settings", zap.String("path", path), zap.Error(err))
			_ = closeDB()
			continue
		}
		if path == database.MemoryPath {
			log.Warn("settings will not persist across restarts")
		}
		return settings, closeDB
	}
	log.Fatal("no settings database available")
	return nil, nil
}

func closer(db *gorm.DB) func() error {
	sqlDB, err := db.DB()
	if err != nil {
		return func() error { return nil }
	}
	return sqlDB.Close
}

func openKeyring(log *zap.Logger) keyring.Keyring {
	ring, err := services.OpenKeyring(services.KeyringConfig{})
	if err != nil {
		log.Warn("keyring unavailable, API keys cannot be stored", zap.Error(err))
		return nil
	}
	return ring
}

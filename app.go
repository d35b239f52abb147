package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"wingman/internal/config"
	"wingman/internal/coordinator"
	"wingman/internal/events"
	"wingman/internal/models"
	"wingman/internal/panel"
	"wingman/internal/services"
	"wingman/internal/tray"
)

// App is bound to the frontend. Every exported method is callable from
// the panel's JavaScript.
type App struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
	coord    *coordinator.Coordinator
	panel    *panel.Panel
	settings *services.SettingsService
	tray     *tray.Tray
	dbClose  func() error
}

// NewApp creates a new App application struct
func NewApp(logger *zap.Logger, coord *coordinator.Coordinator, p *panel.Panel, settings *services.SettingsService, dbClose func() error) *App {
	return &App{
		logger:   logger,
		coord:    coord,
		panel:    p,
		settings: settings,
		dbClose:  dbClose,
	}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.settings.Startup(a.ctx)
	events.EnableRuntimeEmitter(a.logger)
	a.panel.Startup(a.ctx)

	go a.coord.Run(a.ctx, a.panel.Wakes())

	a.tray = tray.New(a.coord, a.settings, a.logger, func() { runtime.Quit(a.ctx) })
	a.tray.Start(a.ctx)

	load := func() config.AppConfig { return config.Load(a.logger) }
	if err := a.coord.WatchConfig(a.ctx, load, config.Candidates()); err != nil {
		a.logger.Warn("config watcher disabled", zap.Error(err))
	}
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tray != nil {
		a.tray.Stop()
	}
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.logger.Error("failed to close database", zap.Error(err))
		} else {
			a.logger.Info("database closed")
		}
		a.dbClose = nil
	}
	_ = a.logger.Sync()
}

func (a *App) GetMode() string {
	return a.coord.Mode().String()
}

func (a *App) GetPanelState() coordinator.PanelState {
	return a.coord.QueryState()
}

func (a *App) OpenPanel() {
	a.coord.Open()
}

func (a *App) ClosePanel() {
	a.coord.Close()
}

// PinPanel pins or unpins the panel and remembers the choice.
func (a *App) PinPanel(pinned bool) error {
	a.coord.Pin(pinned)
	return a.settings.Set(models.SettingPinPanel, pinned)
}

// Reconnect re-runs the connectivity check and returns the new mode.
func (a *App) Reconnect() string {
	return a.coord.Wake(a.ctx).String()
}

func (a *App) GetSettings() map[string]bool {
	return a.settings.All()
}

func (a *App) SetSetting(key string, value bool) error {
	if err := a.settings.Set(key, value); err != nil {
		return err
	}
	if key == models.SettingPinPanel {
		a.coord.Pin(value)
	}
	return nil
}

func (a *App) ResetSettings() error {
	if err := a.settings.ResetToDefaults(); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	pinned, err := a.settings.Get(models.SettingPinPanel)
	if err != nil {
		return err
	}
	a.coord.Pin(pinned)
	return nil
}

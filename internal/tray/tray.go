// Package tray is the menu-bar affordance that opens and closes the panel.
package tray

import (
	"context"
	_ "embed"
	"fmt"
	"runtime"
	"sync"

	"fyne.io/systray"
	"go.uber.org/zap"

	"wingman/internal/coordinator"
	"wingman/internal/models"
)

//go:embed icon.png
var iconData []byte

// Coordinator is the part of the mode coordinator the menu drives.
type Coordinator interface {
	Open()
	Close()
	QueryState() coordinator.PanelState
	Pin(pinned bool)
	Wake(ctx context.Context) coordinator.Mode
	Mode() coordinator.Mode
	Events() <-chan coordinator.Mode
}

// Settings is the settings store as seen by the menu.
type Settings interface {
	Get(key string) (bool, error)
	Set(key string, value bool) error
	ResetToDefaults() error
}

type Tray struct {
	coord    Coordinator
	settings Settings
	logger   *zap.Logger
	quit     func()

	ctx         context.Context
	end         func()
	stopOnce    sync.Once
	statusItem  *systray.MenuItem
	openItem    *systray.MenuItem
	pinItem     *systray.MenuItem
	loginItem   *systray.MenuItem
	refreshItem *systray.MenuItem
	resetItem   *systray.MenuItem
	quitItem    *systray.MenuItem
}

func New(coord Coordinator, settings Settings, logger *zap.Logger, quit func()) *Tray {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tray{
		coord:    coord,
		settings: settings,
		logger:   logger.Named("tray"),
		quit:     quit,
	}
}

// Start adds the menu-bar icon to the event loop the host application
// already runs. The tray never owns the loop or the application delegate.
// Failures are logged; the application keeps running without a tray.
func (t *Tray) Start(ctx context.Context) {
	t.ctx = ctx
	defer t.recoverNative("start")
	start, end := systray.RunWithExternalLoop(t.onReady, t.onExit)
	t.end = end
	onMainThread(func() {
		defer t.recoverNative("start")
		start()
	})
}

// Stop removes the icon. It is safe to call more than once or before Start.
func (t *Tray) Stop() {
	t.stopOnce.Do(func() {
		if t.end == nil {
			return
		}
		defer t.recoverNative("stop")
		t.end()
	})
}

func (t *Tray) recoverNative(op string) {
	if v := recover(); v != nil {
		t.logger.Error("tray "+op+" failed", zap.String("panic", fmt.Sprint(v)))
	}
}

func (t *Tray) onReady() {
	if runtime.GOOS == "darwin" {
		systray.SetTemplateIcon(iconData, iconData)
	} else {
		systray.SetIcon(iconData)
	}
	systray.SetTooltip("Wingman")

	t.statusItem = systray.AddMenuItem(statusTitle(t.coord.Mode()), "Connection to the Wingman web app")
	t.statusItem.Disable()
	systray.AddSeparator()
	t.openItem = systray.AddMenuItem("Open Wingman", "Show or hide the Wingman panel")
	t.pinItem = systray.AddMenuItemCheckbox("Pin panel", "Keep the panel above other windows", t.coord.QueryState().IsPinned)
	t.loginItem = systray.AddMenuItemCheckbox("Start at login", "Launch Wingman when you log in", t.setting(models.SettingStartAtLogin))
	t.refreshItem = systray.AddMenuItem("Reconnect", "Check the connection again")
	systray.AddSeparator()
	t.resetItem = systray.AddMenuItem("Reset settings", "Restore default preferences")
	t.quitItem = systray.AddMenuItem("Quit", "Quit Wingman")

	go t.loop()
	t.logger.Info("system tray is ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exited")
}

func (t *Tray) loop() {
	for {
		select {
		case <-t.openItem.ClickedCh:
			t.TogglePanel()
		case <-t.pinItem.ClickedCh:
			setChecked(t.pinItem, t.TogglePin())
		case <-t.loginItem.ClickedCh:
			on, err := t.ToggleStartAtLogin()
			if err != nil {
				t.logger.Error("save start at login", zap.Error(err))
			}
			setChecked(t.loginItem, on)
		case <-t.refreshItem.ClickedCh:
			go t.coord.Wake(t.ctx)
		case <-t.resetItem.ClickedCh:
			if err := t.ResetSettings(); err != nil {
				t.logger.Error("reset settings", zap.Error(err))
			}
			setChecked(t.pinItem, t.coord.QueryState().IsPinned)
			setChecked(t.loginItem, t.setting(models.SettingStartAtLogin))
		case mode := <-t.coord.Events():
			t.statusItem.SetTitle(statusTitle(mode))
		case <-t.quitItem.ClickedCh:
			t.logger.Info("quit clicked")
			if t.quit != nil {
				t.quit()
			}
			return
		case <-t.ctx.Done():
			return
		}
	}
}

// TogglePanel opens a closed panel and closes an open one.
func (t *Tray) TogglePanel() {
	if t.coord.QueryState().IsOpen {
		t.coord.Close()
		return
	}
	t.coord.Open()
}

// TogglePin flips the pin state and remembers it. It returns the new state.
func (t *Tray) TogglePin() bool {
	pinned := !t.coord.QueryState().IsPinned
	t.coord.Pin(pinned)
	if err := t.settings.Set(models.SettingPinPanel, pinned); err != nil {
		t.logger.Error("save pin setting", zap.Error(err))
	}
	return pinned
}

// ToggleStartAtLogin flips the setting and returns the stored value.
func (t *Tray) ToggleStartAtLogin() (bool, error) {
	current := t.setting(models.SettingStartAtLogin)
	if err := t.settings.Set(models.SettingStartAtLogin, !current); err != nil {
		return current, err
	}
	return !current, nil
}

// ResetSettings restores defaults and reapplies the pin default.
func (t *Tray) ResetSettings() error {
	if err := t.settings.ResetToDefaults(); err != nil {
		return err
	}
	t.coord.Pin(t.setting(models.SettingPinPanel))
	return nil
}

func (t *Tray) setting(key string) bool {
	v, err := t.settings.Get(key)
	if err != nil {
		t.logger.Warn("read setting", zap.String("key", key), zap.Error(err))
		return false
	}
	return v
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func statusTitle(mode coordinator.Mode) string {
	if mode == coordinator.Online {
		return "Status: Online"
	}
	return "Status: Offline"
}

// Package coordinator derives the application mode from connectivity and
// drives the panel accordingly.
package coordinator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"wingman/internal/config"
	"wingman/internal/connectivity"
)

const eventBuffer = 8

// Panel is the display surface the coordinator drives. It owns its own
// visibility and pin state.
type Panel interface {
	CreateWindow() error
	Show()
	Hide()
	IsVisible() bool
	IsPinned() bool
	SetPinned(pinned bool)
	SetAppMode(mode Mode)
	SetBaseURL(url string)
}

// Checker probes the web base URL.
type Checker interface {
	Check(ctx context.Context) connectivity.Status
	SetURL(url string)
}

type Deps struct {
	Checker Checker
	Panel   Panel
	Logger  *zap.Logger
}

type Coordinator struct {
	checker Checker
	panel   Panel
	logger  *zap.Logger

	mu      sync.Mutex
	mode    Mode
	started bool

	events chan Mode
}

func New(deps Deps) (*Coordinator, error) {
	if deps.Checker == nil {
		return nil, errors.New("checker is required")
	}
	if deps.Panel == nil {
		return nil, errors.New("panel is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Coordinator{
		checker: deps.Checker,
		panel:   deps.Panel,
		logger:  deps.Logger.Named("coordinator"),
		mode:    Degraded,
		events:  make(chan Mode, eventBuffer),
	}, nil
}

// Start runs the first check, blocking until it completes, and pushes the
// resulting mode to the panel. Window creation errors are logged only.
func (c *Coordinator) Start(ctx context.Context) Mode {
	mode := ModeFor(c.checker.Check(ctx))
	c.setMode(mode)
	c.panel.SetAppMode(mode)
	if err := c.panel.CreateWindow(); err != nil {
		c.logger.Error("create panel window", zap.Error(err))
	}
	c.logger.Info("started", zap.Stringer("mode", mode))
	return mode
}

// Wake re-checks connectivity, then recreates and shows the panel.
func (c *Coordinator) Wake(ctx context.Context) Mode {
	return c.refresh(ctx, true)
}

func (c *Coordinator) refresh(ctx context.Context, show bool) Mode {
	mode := ModeFor(c.checker.Check(ctx))
	c.setMode(mode)
	c.panel.SetAppMode(mode)
	if err := c.panel.CreateWindow(); err != nil {
		c.logger.Error("recreate panel window", zap.Error(err))
	}
	if show {
		c.panel.Show()
	}
	return mode
}

// Run handles wake messages until ctx ends or wakes is closed.
func (c *Coordinator) Run(ctx context.Context, wakes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-wakes:
			if !ok {
				return
			}
			c.Wake(ctx)
		}
	}
}

// Reload points the checker and panel at a new base URL and re-checks. The
// panel is shown again only if it was open.
func (c *Coordinator) Reload(ctx context.Context, cfg config.AppConfig) Mode {
	c.logger.Info("reloading web config", zap.String("url", cfg.WebBaseURL))
	c.checker.SetURL(cfg.WebBaseURL)
	c.panel.SetBaseURL(cfg.WebBaseURL)
	return c.refresh(ctx, c.panel.IsVisible())
}

func (c *Coordinator) Open() {
	c.panel.Show()
}

func (c *Coordinator) Close() {
	c.panel.Hide()
}

func (c *Coordinator) QueryState() PanelState {
	return PanelState{
		IsOpen:   c.panel.IsVisible(),
		IsPinned: c.panel.IsPinned(),
	}
}

func (c *Coordinator) Pin(pinned bool) {
	c.panel.SetPinned(pinned)
}

func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Events delivers the mode after every change. Slow readers miss
// intermediate values; Mode always has the current one.
func (c *Coordinator) Events() <-chan Mode {
	return c.events
}

func (c *Coordinator) setMode(mode Mode) {
	c.mu.Lock()
	changed := !c.started || c.mode != mode
	c.mode = mode
	c.started = true
	c.mu.Unlock()

	if !changed {
		return
	}
	c.logger.Info("mode changed", zap.Stringer("mode", mode))
	select {
	case c.events <- mode:
	default:
		c.logger.Debug("mode event dropped", zap.Stringer("mode", mode))
	}
}

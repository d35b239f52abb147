// Package panel is the Wails window that displays the web app. It tracks
// its own visibility and pin state and serves either the proxied web app
// or an offline page depending on the mode.
package panel

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"wingman/internal/coordinator"
	"wingman/internal/events"
)

//go:embed offline.html
var offlinePage []byte

var _ coordinator.Panel = (*Panel)(nil)

type Panel struct {
	logger *zap.Logger
	wakes  chan struct{}

	mu      sync.RWMutex
	ctx     context.Context
	visible bool
	pinned  bool
	mode    coordinator.Mode
	target  *url.URL
	proxy   *httputil.ReverseProxy
}

// New returns a hidden, unpinned panel in Degraded mode pointed at baseURL.
func New(baseURL string, logger *zap.Logger) (*Panel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Panel{
		logger: logger.Named("panel"),
		wakes:  make(chan struct{}, 1),
		mode:   coordinator.Degraded,
	}
	if err := p.setTarget(baseURL); err != nil {
		return nil, err
	}
	return p, nil
}

// Startup binds the panel to the Wails runtime. Calls made before it are
// recorded but not forwarded to the window.
func (p *Panel) Startup(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	visible, pinned, mode := p.visible, p.pinned, p.mode
	p.mu.Unlock()

	runtime.EventsOn(ctx, events.Wake, func(...interface{}) {
		p.RequestWake()
	})
	runtime.WindowSetAlwaysOnTop(ctx, pinned)
	events.Emit(ctx, events.ModeChanged, events.NewModeEvent(mode.String()))
	if visible {
		runtime.WindowShow(ctx)
	} else {
		runtime.WindowHide(ctx)
	}
}

// OnBeforeClose hides the window instead of closing it.
func (p *Panel) OnBeforeClose(ctx context.Context) bool {
	p.Hide()
	return true
}

// Wakes delivers one message per pending wake request.
func (p *Panel) Wakes() <-chan struct{} {
	return p.wakes
}

// RequestWake queues a wake unless one is already pending.
func (p *Panel) RequestWake() {
	select {
	case p.wakes <- struct{}{}:
	default:
	}
}

// CreateWindow re-renders the window content for the current mode. The
// native window itself is created by Wails and lives for the whole process.
func (p *Panel) CreateWindow() error {
	p.mu.RLock()
	ctx := p.ctx
	p.mu.RUnlock()
	if ctx != nil {
		runtime.WindowReloadApp(ctx)
	}
	return nil
}

// Show reveals the window. Going from hidden to visible also queues a wake
// so the connection is re-checked whatever page is loaded.
func (p *Panel) Show() {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = true
	ctx := p.ctx
	p.mu.Unlock()
	if ctx != nil {
		runtime.WindowShow(ctx)
	}
	if !wasVisible {
		p.RequestWake()
	}
}

func (p *Panel) Hide() {
	p.mu.Lock()
	p.visible = false
	ctx := p.ctx
	p.mu.Unlock()
	if ctx != nil {
		runtime.WindowHide(ctx)
	}
}

func (p *Panel) IsVisible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visible
}

func (p *Panel) IsPinned() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pinned
}

func (p *Panel) SetPinned(pinned bool) {
	p.mu.Lock()
	p.pinned = pinned
	ctx := p.ctx
	p.mu.Unlock()
	if ctx != nil {
		runtime.WindowSetAlwaysOnTop(ctx, pinned)
	}
}

func (p *Panel) SetAppMode(mode coordinator.Mode) {
	p.mu.Lock()
	p.mode = mode
	ctx := p.ctx
	p.mu.Unlock()
	events.Emit(ctx, events.ModeChanged, events.NewModeEvent(mode.String()))
}

func (p *Panel) AppMode() coordinator.Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

func (p *Panel) BaseURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.target.String()
}

func (p *Panel) SetBaseURL(raw string) {
	if err := p.setTarget(raw); err != nil {
		p.logger.Error("ignoring invalid base url", zap.String("url", raw), zap.Error(err))
	}
}

func (p *Panel) setTarget(raw string) error {
	target, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return fmt.Errorf("base url %q must be http or https", raw)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		r.Host = target.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		p.logger.Warn("proxy to web app failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeOffline(w, http.StatusBadGateway)
	}

	p.mu.Lock()
	p.target = target
	p.proxy = proxy
	p.mu.Unlock()
	return nil
}

// Handler serves the window content: the web app when Online, the
// offline page otherwise.
func (p *Panel) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.RLock()
		mode, proxy := p.mode, p.proxy
		p.mu.RUnlock()

		if mode == coordinator.Online && proxy != nil {
			proxy.ServeHTTP(w, r)
			return
		}
		writeOffline(w, http.StatusOK)
	})
}

func writeOffline(w http.ResponseWriter, status int) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(offlinePage)
}

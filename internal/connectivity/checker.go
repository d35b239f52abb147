// Package connectivity probes the web frontend with a single HTTP GET.
package connectivity

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a blocking check.
const DefaultTimeout = 5 * time.Second

// Status is the outcome of one probe.
type Status int

const (
	Fail Status = iota
	Pass
)

func (s Status) String() string {
	if s == Pass {
		return "pass"
	}
	return "fail"
}

// Checker issues one GET per check against the configured URL. Overlapping
// checks are independent; nothing is cached.
type Checker struct {
	mu      sync.RWMutex
	url     string
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

type Option func(*Checker)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.client = hc }
}

func NewChecker(url string, logger *zap.Logger, opts ...Option) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Checker{
		url:     url,
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  logger.Named("connectivity"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}

func (c *Checker) SetURL(url string) {
	c.mu.Lock()
	c.url = url
	c.mu.Unlock()
}

// Check blocks until the probe completes or the timeout elapses. It is Pass
// only for a transport success with status 200; a timeout is Fail.
func (c *Checker) Check(ctx context.Context) Status {
	url := c.URL()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("connectivity request invalid", zap.String("url", url), zap.Error(err))
		return Fail
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("connectivity check failed", zap.String("url", url), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return Fail
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("connectivity check returned non-200", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return Fail
	}
	c.logger.Info("connectivity check passed", zap.String("url", url), zap.Duration("elapsed", time.Since(start)))
	return Pass
}

// CheckAsync runs Check on its own goroutine and hands the result to done.
func (c *Checker) CheckAsync(ctx context.Context, done func(Status)) {
	go func() {
		done(c.Check(ctx))
	}()
}

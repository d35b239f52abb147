package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"wingman/internal/config"
)

const reloadDelay = 200 * time.Millisecond

// WatchConfig reloads the coordinator whenever one of paths is written,
// created or removed. Parent directories are watched so files that do not
// exist yet are picked up. It returns once the watcher is running.
//
// The baseline URL is read before the watches are added, and the loop
// re-reads once right away, so a write that lands during setup still
// triggers a reload.
func (c *Coordinator) WatchConfig(ctx context.Context, load func() config.AppConfig, paths []string) error {
	last := load().WebBaseURL

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		targets[p] = true
		dirs[filepath.Dir(p)] = true
	}
	watched := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			c.logger.Debug("config dir not watchable", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return fmt.Errorf("no config directory could be watched")
	}

	c.logger.Info("config watcher initialized", zap.Strings("paths", paths))
	go c.watchLoop(ctx, watcher, targets, load, last)
	return nil
}

func (c *Coordinator) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, targets map[string]bool, load func() config.AppConfig, last string) {
	defer watcher.Close()

	pending := time.After(0)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDelay)
			}
		case <-pending:
			pending = nil
			cfg := load()
			if cfg.WebBaseURL == last {
				continue
			}
			last = cfg.WebBaseURL
			c.Reload(ctx, cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Error("config watcher error", zap.Error(err))
		}
	}
}

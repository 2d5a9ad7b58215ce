package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RunFunc is invoked every time the watched file settles after a change
type RunFunc func(ctx context.Context) error

// Watcher re-runs a function whenever a file is written or recreated
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a watcher for path. Changes arriving within debounce of each
// other trigger a single run.
func New(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled, calling fn after each change to the file.
// Runs never overlap; a failed run is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn RunFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so that editors replacing the file are noticed
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("Watching input for changes",
		zap.String("path", w.path),
		zap.Duration("debounce", w.debounce))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("Input changed", zap.String("op", event.Op.String()))
			settle = time.After(w.debounce)

		case <-settle:
			settle = nil
			w.logger.Info("Re-running after input change", zap.String("path", w.path))
			if err := fn(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("Run after input change failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

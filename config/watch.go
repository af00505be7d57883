package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mohiawrai2609/commant-center/model"
)

// Watcher hot-reloads the model_registry section of a config file into a
// live registry. Other config sections require a restart; the registry is
// the piece operators tune while the daemon runs (swapping fallback chains
// when a vendor degrades).
type Watcher struct {
	path     string
	registry *model.Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	// Debouncing: editors fire several events per save.
	pendingMu sync.Mutex
	pending   bool
}

// WatcherConfig configures a config file watcher.
type WatcherConfig struct {
	// Path is the config file to watch.
	Path string
	// Registry receives merged model_registry updates.
	Registry *model.Registry
	// DebounceDelay collapses event bursts (default 250ms).
	DebounceDelay time.Duration
	// Logger for reload events.
	Logger *slog.Logger
}

// NewWatcher creates a config watcher.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 250 * time.Millisecond
	}

	return &Watcher{
		path:     cfg.Path,
		registry: cfg.Registry,
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
	}, nil
}

// Start begins watching the config file until ctx is cancelled.
// The parent directory is watched rather than the file itself: most editors
// save via rename, which drops a watch placed directly on the file.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Config watcher started", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.pendingMu.Lock()
				w.pending = true
				w.pendingMu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	dirty := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if !dirty {
		return
	}
	w.reload()
}

func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		w.logger.Warn("Config reload failed, keeping previous registry", "path", w.path, "error", err)
		return
	}
	if cfg.ModelRegistry == nil {
		w.logger.Debug("Config changed but has no model_registry section", "path", w.path)
		return
	}

	w.registry.MergeFromConfig(cfg.ModelRegistry)
	w.logger.Info("Model registry reloaded",
		"path", w.path,
		"capabilities", len(cfg.ModelRegistry.Capabilities),
		"endpoints", len(cfg.ModelRegistry.Endpoints))
}

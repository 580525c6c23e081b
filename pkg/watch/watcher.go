package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/saturn/pkg/telemetry/logging"
)

// Watcher re-runs a transform whenever the source or template file changes.
// It debounces editor write bursts and survives atomic saves (rename then
// create) by watching the parent directories instead of the files
// themselves.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	config   *Config
	debounce *Debouncer

	// names is the set of watched file basenames, keyed by directory.
	names map[string]map[string]bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config contains configuration for the watcher.
type Config struct {
	// Files are the paths to watch (source and template documents).
	Files []string

	// DebounceInterval is the quiet period before re-running after a
	// change (default: 200ms).
	DebounceInterval time.Duration
}

// New creates a watcher for the configured files.
func New(cfg *Config, logger *logging.Logger) (*Watcher, error) {
	if cfg == nil || len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = logging.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   logger.With("component", "watch"),
		config:   cfg,
		debounce: NewDebouncer(cfg.DebounceInterval),
		names:    make(map[string]map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	return w, nil
}

// Watch blocks, invoking onChange after every debounced change to a watched
// file, until the context is cancelled or Stop is called. The first onChange
// error is logged, not returned; watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	for _, file := range w.config.Files {
		if err := w.addFile(file); err != nil {
			return fmt.Errorf("failed to watch %q: %w", file, err)
		}
	}

	w.logger.Info("file watcher started",
		"files", w.config.Files,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			w.debounce.Trigger(func() {
				w.logger.Info("re-running transform", "path", event.Name)

				if err := onChange(); err != nil {
					w.logger.Error("transform failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			// Keep watching despite transient errors.
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	return nil
}

// addFile registers a file's parent directory with fsnotify and remembers
// the basename for event filtering.
func (w *Watcher) addFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	base := filepath.Base(abs)

	if w.names[dir] == nil {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.names[dir] = make(map[string]bool)
	}
	w.names[dir][base] = true

	return nil
}

// shouldProcessEvent reports whether an event concerns a watched file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	dir := filepath.Dir(abs)
	base := filepath.Base(abs)

	return w.names[dir][base]
}

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyRunning is returned when Watch is called twice on one Watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// ChangeFunc receives the rule files changed since the previous call,
// sorted and deduplicated.
type ChangeFunc func(ctx context.Context, changed []string) error

// Config contains configuration for the watcher.
type Config struct {
	// Paths are the files or directories to watch. Directories are watched
	// recursively. Paths that do not exist are skipped with a warning.
	Paths []string

	// Debounce is the time to wait after the last change before calling
	// the ChangeFunc.
	Debounce time.Duration

	// Extensions is the list of file extensions to watch.
	Extensions []string

	// SkipHidden ignores dot files and dot directories.
	SkipHidden bool
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() *Config {
	return &Config{
		Debounce:   DefaultDebounce,
		Extensions: []string{".yaml"},
		SkipHidden: true,
	}
}

// Watcher watches rule directories and batches changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	config  *Config

	mu      sync.RWMutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a new watcher.
func NewWatcher(config *Config, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".yaml"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fsw,
		logger:  logger.With("component", "watch"),
		config:  config,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, calling onChange
// once per settled batch of edits. Errors from onChange are logged and
// watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange ChangeFunc) error {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	watched := 0
	for _, path := range w.config.Paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("watch path does not exist", "path", path)
			continue
		}
		if err := w.addPath(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no watchable paths in %v", w.config.Paths)
	}

	batch := NewBatcher(w.config.Debounce, func(changed []string) {
		w.logger.Info("rule files changed", "count", len(changed))
		if err := onChange(ctx, changed); err != nil {
			w.logger.Error("re-audit failed", "error", err)
		}
	})
	defer batch.Stop()

	w.logger.Info("watching rule files",
		"paths", w.config.Paths,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			// New subdirectories (region overlays) join the watch set.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.hidden(event.Name) {
					if err := w.addDirectory(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			batch.Add(event.Name)
			w.logger.Debug("rule file event",
				"path", event.Name,
				"op", event.Op.String(),
				"pending", batch.Pending(),
			)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	running := w.running
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.addDirectory(path)
	}
	return w.watcher.Add(path)
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.hidden(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (w *Watcher) hidden(path string) bool {
	return w.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// shouldProcessEvent reports whether an event marks a rule file change.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.hidden(event.Name) {
		return false
	}
	return w.hasValidExtension(filepath.Ext(event.Name))
}

func (w *Watcher) hasValidExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Config contains configuration for the rule file watcher.
type Config struct {
	// Files are the rule files to watch. Directories are not expanded.
	Files []string

	// Debounce is the time to wait after the last event on a file before
	// reporting it (default: 200ms).
	Debounce time.Duration
}

// ChangeFunc is called with the absolute path of a rule file after it was
// written. Calls are made one at a time from the Watch goroutine.
type ChangeFunc func(ctx context.Context, path string)

// Watcher reports edits to a fixed set of rule files. Editors often save by
// writing a temp file and renaming it over the original, so the parent
// directories are watched and events are filtered to the configured files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *Debouncer
	files    map[string]bool
	dirs     []string

	mu      sync.Mutex
	started bool
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a watcher. Each file's directory must exist; the file itself
// may be created later.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no rule files to watch")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := cfg.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}

	files := make(map[string]bool, len(cfg.Files))
	var dirs []string
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", f, err)
		}
		dir := filepath.Dir(abs)
		if info, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("watch %q: %w", f, err)
		} else if !info.IsDir() {
			return nil, fmt.Errorf("watch %q: %s is not a directory", f, dir)
		}
		files[abs] = true
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		debounce: NewDebouncer(interval),
		files:    files,
		dirs:     dirs,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Files returns the watched files as absolute paths, sorted.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Watch blocks, calling onChange for every debounced edit, until ctx is
// canceled or Stop is called. A Watcher can be run once.
func (w *Watcher) Watch(ctx context.Context, onChange ChangeFunc) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.started = true
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.watcher.Close()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
	}

	w.logger.Info("watching rule files",
		"files", len(w.files),
		"directories", len(w.dirs),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped (context canceled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if path, ok := w.relevant(event); ok {
				w.logger.Debug("rule file event", "path", path, "op", event.Op.String())
				w.debounce.Trigger(path)
			}

		case path := <-w.debounce.C():
			onChange(ctx, path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Running reports whether Watch is currently active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Stop stops a running Watch and waits for it to return. Stopping a
// watcher that never ran releases its resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.started = true
		w.mu.Unlock()
		w.debounce.Stop()
		w.watcher.Close()
		return
	}
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	<-w.doneCh
}

// relevant reports whether event is a write or create of a watched file.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path := filepath.Clean(event.Name)
	return path, w.files[path]
}

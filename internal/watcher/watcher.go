// Package watcher reloads project resources when their .yy files change on disk.
//
// It is used by `gme watch`. Filesystem events are collected by fsnotify and
// applied on the goroutine that called Start, so the project registry is only
// ever touched from that one loop.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/gmedit/internal/index"
	"github.com/aidanlsb/gmedit/internal/logging"
	"github.com/aidanlsb/gmedit/internal/paths"
	"github.com/aidanlsb/gmedit/internal/project"
	"github.com/aidanlsb/gmedit/internal/resource"
)

// ErrNotResource indicates a path is not a .yy listed in the project file.
var ErrNotResource = errors.New("not a project resource")

// Change describes one applied filesystem change.
type Change struct {
	Path    string           // project-relative, slash separated
	Record  *resource.Record // reloaded record; nil on removal or error
	Removed bool
	Err     error
}

// Watcher monitors a project directory and reloads changed resources.
type Watcher struct {
	proj   *project.Project
	db     *index.Database
	logger *slog.Logger

	debounceDelay time.Duration
	ignore        map[string]bool

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	onChange  func(Change)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Project       *project.Project
	Database      *index.Database // Optional; kept in step with reloads
	DebounceDelay time.Duration   // Default: project watch.debounce_ms
	IgnoreDirs    []string        // Added to .gmedit and .git
	Logger        *slog.Logger
	OnChange      func(Change) // Optional callback
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Project == nil {
		return nil, fmt.Errorf("project is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = cfg.Project.Config().GetDebounce()
	}

	ignore := map[string]bool{index.Dir: true, ".git": true}
	for _, dir := range cfg.Project.Config().GetIgnoreDirs() {
		ignore[dir] = true
	}
	for _, dir := range cfg.IgnoreDirs {
		ignore[dir] = true
	}

	logger := cfg.Logger
	if logger == nil {
		logger = cfg.Project.Logger()
	}

	return &Watcher{
		proj:          cfg.Project,
		db:            cfg.Database,
		logger:        logging.OrDiscard(logger).With("component", "watcher"),
		debounceDelay: debounce,
		ignore:        ignore,
		pending:       make(map[string]time.Time),
		onChange:      cfg.OnChange,
	}, nil
}

// Start watches the project until ctx is cancelled. Reloads run on the
// calling goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.proj.Root()); err != nil {
		return fmt.Errorf("failed to watch project: %w", err)
	}
	w.logger.Debug("watching project", "root", w.proj.Root(), "debounce", w.debounceDelay)

	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			w.processPending(now)
		}
	}
}

func (w *Watcher) tick() time.Duration {
	if d := w.debounceDelay / 2; d > 0 && d < 50*time.Millisecond {
		return d
	}
	return 50 * time.Millisecond
}

// ReloadFile re-reads one resource .yy into the registry and the index.
// rel may be absolute or project-relative.
func (w *Watcher) ReloadFile(rel string) (*resource.Record, error) {
	rel, err := w.relative(rel)
	if err != nil {
		return nil, err
	}
	if _, ok := w.proj.EntryForPath(rel); !ok || !paths.IsResourceFile(rel) {
		return nil, fmt.Errorf("%w: %s", ErrNotResource, rel)
	}

	rec, err := w.proj.Reload(rel)
	if err != nil {
		return nil, err
	}

	if w.db != nil {
		var mtime int64
		if full, err := w.proj.Abs(rel); err == nil {
			if info, err := os.Stat(full); err == nil {
				mtime = info.ModTime().Unix()
			}
		}
		if err := w.db.IndexRecord(rec, mtime); err != nil {
			return rec, fmt.Errorf("failed to index %s: %w", rel, err)
		}
	}
	return rec, nil
}

// RemoveFile drops a deleted resource file from the index. The registry keeps
// the record until the project is reopened.
func (w *Watcher) RemoveFile(rel string) error {
	rel, err := w.relative(rel)
	if err != nil {
		return err
	}
	if w.db == nil {
		return nil
	}
	return w.db.RemoveFile(rel)
}

func (w *Watcher) relative(p string) (string, error) {
	if filepath.IsAbs(p) {
		return paths.Rel(w.proj.Root(), p)
	}
	return paths.Normalize(p), nil
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !paths.IsResourceFile(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.shouldIgnoreDir(path) {
				w.addWatchRecursive(path)
			}
		}
		return
	}
	if w.shouldIgnore(path) {
		return
	}

	w.logger.Debug("event", "op", event.Op.String(), "path", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.pending[path] = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, path)
		err := w.RemoveFile(path)
		if err != nil {
			w.logger.Warn("failed to remove from index", "path", path, "error", err)
		}
		w.notify(Change{Path: w.display(path), Removed: true, Err: err})
	}
}

// processPending reloads files whose last event is older than the debounce delay.
func (w *Watcher) processPending(now time.Time) {
	for path, at := range w.pending {
		if now.Sub(at) < w.debounceDelay {
			continue
		}
		delete(w.pending, path)

		rec, err := w.ReloadFile(path)
		if errors.Is(err, ErrNotResource) {
			w.logger.Debug("ignoring unlisted file", "path", path)
			continue
		}
		if err != nil {
			w.logger.Warn("failed to reload", "path", path, "error", err)
		} else {
			w.logger.Info("reloaded", "path", w.display(path), "id", rec.ID(), "name", rec.Name())
		}
		w.notify(Change{Path: w.display(path), Record: rec, Err: err})
	}
}

func (w *Watcher) notify(c Change) {
	if w.onChange != nil {
		w.onChange(c)
	}
}

func (w *Watcher) display(path string) string {
	if rel, err := w.relative(path); err == nil {
		return rel
	}
	return path
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logger.Debug("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.proj.Root(), path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if w.ignore[part] {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	return w.ignore[filepath.Base(path)]
}

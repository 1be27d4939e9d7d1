// Package watcher reports changes to a set of script files.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
)

// Watcher watches the parent directories of its target files so that
// editors replacing a file through rename are still noticed.
type Watcher struct {
	config      WatcherConfig
	fsWatcher   *fsnotify.Watcher
	fsWatcherMu sync.Mutex
	debouncer   *Debouncer
	onChange    func(paths []string)
	log         *slog.Logger
	targets     map[string]bool
	dirs        map[string]bool
	mu          sync.RWMutex
	running     bool
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

func New(config WatcherConfig, onChange func(paths []string)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:    config,
		fsWatcher: fsWatcher,
		onChange:  onChange,
		log:       logger.ForComponent("watcher"),
		targets:   make(map[string]bool),
		dirs:      make(map[string]bool),
	}

	w.debouncer = NewDebouncer(config.DebounceWindow, config.MaxBatchSize, w.flush)

	return w, nil
}

// AddFile starts reporting changes to path.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		w.fsWatcherMu.Lock()
		err := w.fsWatcher.Add(dir)
		w.fsWatcherMu.Unlock()
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
		w.log.Debug("watching directory", "path", dir)
	}

	w.targets[abs] = true
	w.log.Info("watching script", "path", abs)
	return nil
}

func (w *Watcher) Targets() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.targets))
	for path := range w.targets {
		out = append(out, path)
	}
	return out
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	w.running = true
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.handleEvents()

	return nil
}

func (w *Watcher) handleEvents() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			w.log.Debug("file event", "path", event.Name, "op", event.Op.String())
			w.route(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// route feeds target events to the debouncer. A removed or renamed-away
// script leaves nothing to run, so it is dropped from the pending set.
func (w *Watcher) route(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	w.mu.RLock()
	target := w.targets[path]
	w.mu.RUnlock()

	if !target || w.shouldIgnore(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.debouncer.Touch(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.debouncer.Forget(path)
	}
}

func (w *Watcher) flush(paths []string) {
	w.log.Debug("scripts changed", "paths", paths)
	if w.onChange != nil {
		w.onChange(paths)
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	basename := filepath.Base(path)

	if !w.config.WatchHidden && strings.HasPrefix(basename, ".") {
		return true
	}

	slashed := filepath.ToSlash(path)
	for _, pattern := range w.config.IgnorePatterns {
		if match, _ := doublestar.Match(pattern, slashed); match {
			return true
		}
	}

	return false
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}

	w.running = false
	w.cancel()
	done := w.done
	w.mu.Unlock()

	<-done
	w.debouncer.Close()

	w.fsWatcherMu.Lock()
	defer w.fsWatcherMu.Unlock()
	return w.fsWatcher.Close()
}

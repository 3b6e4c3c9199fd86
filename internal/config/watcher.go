// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// rigrun-mentions.
package config

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/rigrun-mentions/internal/logging"
	"github.com/jeranaias/rigrun-mentions/internal/mention"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Reload carries fresh suggestion data for one trigger. Items holds the
// inline data followed by the data file's items.
type Reload struct {
	// Index is the trigger's position in Config.Triggers; configs sharing a
	// trigger character are reloaded independently.
	Index   int
	Trigger rune
	Items   []mention.Item
	Err     error
}

// ErrWatcherStarted is returned by a second call to Watch.
var ErrWatcherStarted = errors.New("data watcher already started")

// watchedTrigger is a trigger config fed by a data file.
type watchedTrigger struct {
	index int
	cfg   TriggerConfig
}

// =============================================================================
// DATA FILE WATCHER
// =============================================================================

// DataWatcher watches trigger data files and emits a Reload whenever one
// changes. Parent directories are watched so atomic-rename saves are seen.
type DataWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *slog.Logger

	// path -> triggers fed by that file
	files map[string][]watchedTrigger

	mu      sync.Mutex
	pending map[string]time.Time

	events chan Reload
	done    chan struct{}
	once    sync.Once
	started bool
}

// NewDataWatcher creates a watcher for every data_file in cfg.
func NewDataWatcher(cfg *Config, debounce time.Duration, log *slog.Logger) (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logging.NewNop()
	}

	dw := &DataWatcher{
		watcher:  w,
		debounce: debounce,
		log:      log,
		files:    make(map[string][]watchedTrigger),
		pending:  make(map[string]time.Time),
		events:   make(chan Reload, 16),
		done:     make(chan struct{}),
	}
	for i, t := range cfg.Triggers {
		path := cfg.DataFile(t)
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		dw.files[abs] = append(dw.files[abs], watchedTrigger{index: i, cfg: t})
	}
	return dw, nil
}

// Files returns the watched data files, sorted.
func (dw *DataWatcher) Files() []string {
	out := make([]string, 0, len(dw.files))
	for p := range dw.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Events delivers reloads. It is closed when the watcher stops.
func (dw *DataWatcher) Events() <-chan Reload {
	return dw.events
}

// Watch starts watching until ctx is cancelled or Close is called. It may
// be called once; later calls return ErrWatcherStarted.
func (dw *DataWatcher) Watch(ctx context.Context) error {
	dw.mu.Lock()
	if dw.started {
		dw.mu.Unlock()
		return ErrWatcherStarted
	}
	dw.started = true
	dw.mu.Unlock()

	dirs := make(map[string]bool)
	for p := range dw.files {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := dw.watcher.Add(dir); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dw.processEvents(ctx)
	}()
	go func() {
		defer wg.Done()
		dw.processPending(ctx)
	}()
	go func() {
		wg.Wait()
		close(dw.events)
	}()
	return nil
}

// Close stops watching and releases resources.
func (dw *DataWatcher) Close() error {
	var err error
	dw.once.Do(func() {
		close(dw.done)
		err = dw.watcher.Close()
	})
	return err
}

func (dw *DataWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				path = event.Name
			}
			if _, watched := dw.files[path]; !watched {
				continue
			}
			dw.mu.Lock()
			dw.pending[path] = time.Now()
			dw.mu.Unlock()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.log.Warn("data file watcher error", "error", err)
		}
	}
}

func (dw *DataWatcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(dw.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.done:
			return

		case <-ticker.C:
			now := time.Now()
			var ready []string

			dw.mu.Lock()
			for path, changed := range dw.pending {
				if now.Sub(changed) >= dw.debounce {
					ready = append(ready, path)
					delete(dw.pending, path)
				}
			}
			dw.mu.Unlock()

			for _, path := range ready {
				for _, r := range dw.reload(path) {
					select {
					case dw.events <- r:
					case <-ctx.Done():
						return
					case <-dw.done:
						return
					}
				}
			}
		}
	}
}

// reload re-reads path for every trigger it feeds.
func (dw *DataWatcher) reload(path string) []Reload {
	items, err := LoadItems(path)
	if err != nil {
		dw.log.Warn("data file reload failed", "path", path, "error", err)
	}

	triggers := dw.files[path]
	out := make([]Reload, 0, len(triggers))
	for _, w := range triggers {
		r := Reload{Index: w.index, Trigger: w.cfg.Rune(), Err: err}
		if err == nil {
			r.Items = append(append([]mention.Item(nil), w.cfg.Data...), items...)
		}
		out = append(out, r)
		dw.log.Debug("data file reloaded", "path", path, "trigger", w.cfg.Trigger, "index", w.index, "items", len(r.Items))
	}
	return out
}

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/stackc/internal/state"
)

// watchAndCompile recompiles inputs whenever they are written, until ctx is
// cancelled. Parent directories are watched so editors that replace files
// on save are still seen.
func (c *CommandContext) watchAndCompile(ctx context.Context, store state.Store, paths []string, out string, batch bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	c.Renderer.Muted(fmt.Sprintf("Watching %d file(s) for changes (Ctrl+C to stop)", len(paths)))

	deb := newDebouncer(c.Cfg.Watch.Debounce, func(changed []string) {
		c.Logger.Debug("recompiling", "files", changed)
		units, err := c.compileBatch(ctx, store, changed)
		if err != nil {
			return
		}
		if err := c.emit(units, out, batch); err != nil {
			c.Renderer.Error(err.Error())
		}
		if err := c.reportFailures(units); err != nil {
			c.Renderer.Error(err.Error())
		}
	})
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if p, ok := targets[abs]; ok {
				deb.Trigger(p)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Error("watcher error", "error", err)
		}
	}
}

// debouncer coalesces triggers arriving within delay of each other into one
// call of fn with the distinct names, in first-trigger order. Calls of fn
// never overlap.
type debouncer struct {
	delay time.Duration
	fn    func(names []string)

	mu      sync.Mutex
	timer   *time.Timer
	pending []string
	stopped bool

	runMu sync.Mutex
}

func newDebouncer(delay time.Duration, fn func(names []string)) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Trigger schedules name and restarts the delay.
func (d *debouncer) Trigger(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if !slices.Contains(d.pending, name) {
		d.pending = append(d.pending, name)
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	names := d.pending
	d.pending = nil
	stopped := d.stopped
	d.mu.Unlock()

	if stopped || len(names) == 0 {
		return
	}

	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn(names)
}

// Stop cancels any pending call.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

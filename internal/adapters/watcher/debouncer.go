package watcher

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces the bursts of write events editors produce for a
// single save into one batch per quiet window.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
	stopped  bool
}

// NewDebouncer creates a Debouncer calling callback with the sorted, distinct
// paths added during each window.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.drainLocked()
	d.mu.Unlock()

	d.deliver(paths)
}

// Flush delivers pending paths now, on the caller's goroutine. If the window
// already elapsed the timer's delivery stands and Flush does nothing.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.drainLocked()
	d.mu.Unlock()

	d.deliver(paths)
}

// Stop discards pending paths and ignores later Adds.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

func (d *Debouncer) drainLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for h := range d.pending {
		paths = append(paths, h.Value())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}

func (d *Debouncer) deliver(paths []string) {
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

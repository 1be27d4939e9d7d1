package watcher

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects the paths of changed scripts and hands them over once
// no change has arrived for one quiet window, or as soon as maxBatch paths
// are pending.
type Debouncer struct {
	window   time.Duration
	maxBatch int
	onFlush  func(paths []string)

	mu       sync.Mutex
	pending  map[string]time.Time
	deadline time.Time
	armed    bool
	closed   bool
}

func NewDebouncer(window time.Duration, maxBatch int, onFlush func(paths []string)) *Debouncer {
	if maxBatch <= 0 {
		maxBatch = 1
	}
	return &Debouncer{
		window:   window,
		maxBatch: maxBatch,
		onFlush:  onFlush,
		pending:  make(map[string]time.Time),
	}
}

// Touch marks path as changed and pushes the quiet deadline back.
func (d *Debouncer) Touch(path string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	now := time.Now()
	if _, ok := d.pending[path]; !ok {
		d.pending[path] = now
	}
	d.deadline = now.Add(d.window)

	if len(d.pending) >= d.maxBatch {
		d.flushLocked()
		return
	}

	if !d.armed {
		d.armed = true
		time.AfterFunc(d.window, d.fire)
	}
	d.mu.Unlock()
}

// Forget drops path from the pending set, e.g. after it was deleted.
func (d *Debouncer) Forget(path string) {
	d.mu.Lock()
	delete(d.pending, path)
	d.mu.Unlock()
}

func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// fire runs when a timer expires. Touches since arming moved the deadline,
// so it re-arms for the remainder instead of flushing early.
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.armed = false

	if d.closed || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}

	if wait := time.Until(d.deadline); wait > 0 {
		d.armed = true
		time.AfterFunc(wait, d.fire)
		d.mu.Unlock()
		return
	}

	d.flushLocked()
}

// flushLocked must be called with d.mu held and releases it. Paths are
// handed over in order of their first change.
func (d *Debouncer) flushLocked() {
	paths := make([]string, 0, len(d.pending))
	for path := range d.pending {
		paths = append(paths, path)
	}
	first := d.pending
	slices.SortFunc(paths, func(a, b string) int {
		if c := first[a].Compare(first[b]); c != 0 {
			return c
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	d.pending = make(map[string]time.Time)
	d.mu.Unlock()

	if len(paths) > 0 && d.onFlush != nil {
		d.onFlush(paths)
	}
}

// Close hands over whatever is pending and ignores later touches.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.flushLocked()
}

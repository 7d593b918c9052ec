package canvas

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of Schedule calls into one deferred fn
// call after a quiet period. Single-slot: a new Schedule cancels and
// replaces any pending one, so the last scheduled state wins.
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	return &Debouncer{quiet: quiet, fn: fn}
}

func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fn)
}

// Flush fires a pending call immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

// Stop drops any pending call without firing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Package debounce delays a task until input has been quiet for a fixed
// interval. A new call replaces the pending task; Flush runs it right away.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	timer   clockwork.Timer
	pending func()
	gen     uint64
	stopped bool
}

func New(c clockwork.Clock, delay time.Duration) *Debouncer {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Debouncer{clock: c, delay: delay}
}

// Call cancels any pending task and schedules fn after the delay.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending task and reports whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	had := d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
	return had
}

// Flush runs the pending task immediately, bypassing the delay.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if d.stopped || fn == nil {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.mu.Unlock()

	fn()
	return true
}

// Stop cancels the pending task; later calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

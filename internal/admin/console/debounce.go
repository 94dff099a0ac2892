package console

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period after the last keystroke before a search is issued.
const DefaultSearchDebounce = 500 * time.Millisecond

// Timer is the subset of *time.Timer used by Debouncer.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, fn func()) Timer

// StdAfterFunc adapts time.AfterFunc.
func StdAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Debouncer runs only the most recent of a burst of triggers, once the burst has been quiet for the delay.
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	afterFunc AfterFunc
	pending   *debounced
}

type debounced struct {
	timer Timer
	done  chan bool
}

func (d *debounced) finish(ran bool) {
	d.done <- ran
	close(d.done)
}

// NewDebouncer returns a Debouncer. A nil afterFunc uses the real clock.
func NewDebouncer(delay time.Duration, afterFunc AfterFunc) *Debouncer {
	if afterFunc == nil {
		afterFunc = StdAfterFunc
	}
	return &Debouncer{delay: delay, afterFunc: afterFunc}
}

// Trigger schedules fn and cancels any trigger still waiting. The returned channel
// receives true once fn has run, or false when the trigger was superseded or stopped.
func (d *Debouncer) Trigger(fn func()) <-chan bool {
	entry := &debounced{done: make(chan bool, 1)}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev := d.pending; prev != nil && prev.timer.Stop() {
		prev.finish(false)
	}
	d.pending = entry
	entry.timer = d.afterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending != entry {
			d.mu.Unlock()
			entry.finish(false)
			return
		}
		d.pending = nil
		d.mu.Unlock()

		fn()
		entry.finish(true)
	})
	return entry.done
}

// Stop cancels the pending trigger, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev := d.pending; prev != nil {
		d.pending = nil
		if prev.timer.Stop() {
			prev.finish(false)
		}
	}
}

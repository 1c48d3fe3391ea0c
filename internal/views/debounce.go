package views

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is how long search input must be idle before it is applied.
const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer coalesces rapid Push calls: fn runs once with the latest value
// after delay has passed without another Push.
type Debouncer[T any] struct {
	// run is held while fn executes so Stop can wait for an in-flight call
	run    sync.Mutex
	mu     sync.Mutex
	delay  time.Duration
	fn     func(T)
	timer  *time.Timer
	gen    uint64
	closed bool
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.run.Lock()
		defer d.run.Unlock()

		d.mu.Lock()
		// a newer Push or Stop won the race against this timer
		if d.closed || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
		d.fn(v)
	})
}

// Stop cancels any pending call and waits for a call already running to
// return; fn never runs after Stop returns. Later pushes are ignored. fn must
// not call Stop.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.run.Lock()
	d.run.Unlock()
}

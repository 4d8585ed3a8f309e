package pipeline

import (
	"time"

	"github.com/mmcdole/globe/internal/reactive"
)

// DefaultDebounce is the settle delay used for search input and URL writes
const DefaultDebounce = 300 * time.Millisecond

// Debounced mirrors an input ref, updating only after the input has been
// quiet for the configured delay. Only the latest pending value survives.
type Debounced[T comparable] struct {
	value  *reactive.Ref[T]
	sched  reactive.Scheduler
	delay  time.Duration
	cancel func() bool
	unsub  func()
	closed bool
}

// NewDebounced starts mirroring input. The output starts at input's
// current value with no delay.
func NewDebounced[T comparable](input *reactive.Ref[T], delay time.Duration, sched reactive.Scheduler) *Debounced[T] {
	d := &Debounced[T]{
		value: reactive.NewRef(input.Get()),
		sched: sched,
		delay: delay,
	}
	d.unsub = input.Subscribe(func(_, v T) {
		d.schedule(v)
	})
	return d
}

func (d *Debounced[T]) schedule(v T) {
	if d.closed {
		return
	}
	d.stop()
	d.cancel = d.sched.AfterFunc(d.delay, func() {
		// A loop-delivered timer can outlive Stop; drop it
		if d.closed {
			return
		}
		d.cancel = nil
		d.value.Set(v)
	})
}

func (d *Debounced[T]) stop() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Value returns the settled ref
func (d *Debounced[T]) Value() *reactive.Ref[T] {
	return d.value
}

// Get returns the settled value
func (d *Debounced[T]) Get() T {
	return d.value.Get()
}

// Pending reports whether an update is scheduled
func (d *Debounced[T]) Pending() bool {
	return d.cancel != nil
}

// Close cancels any pending update and stops observing the input.
// It is safe to call more than once.
func (d *Debounced[T]) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.stop()
	if d.unsub != nil {
		d.unsub()
	}
}

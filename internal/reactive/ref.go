// Package reactive provides the small observable-value and scheduling
// primitives the filtering pipeline is built from.
//
// Nothing here is safe for concurrent use. A Ref belongs to one event loop
// (the Bubble Tea Update loop, or the goroutine driving a ManualScheduler)
// and work from other goroutines reaches it through Scheduler.AfterFunc.
package reactive

// Ref is an observable value. Subscribers run synchronously inside Set,
// in subscription order.
type Ref[T any] struct {
	value T
	equal func(a, b T) bool
	subs  []*subscriber[T]
}

type subscriber[T any] struct {
	fn     func(old, new T)
	active bool
}

// NewRef creates a ref that only notifies when the value changes.
func NewRef[T comparable](v T) *Ref[T] {
	return &Ref[T]{
		value: v,
		equal: func(a, b T) bool { return a == b },
	}
}

// NewListRef creates a ref over a slice. Every Set notifies, since a new
// slice is a new sequence even when its contents match.
func NewListRef[T any](v []T) *Ref[[]T] {
	return &Ref[[]T]{value: v}
}

// Get returns the current value
func (r *Ref[T]) Get() T {
	return r.value
}

// Set stores v and notifies subscribers with the previous and new value.
func (r *Ref[T]) Set(v T) {
	old := r.value
	if r.equal != nil && r.equal(old, v) {
		return
	}
	r.value = v

	// Snapshot so subscribers may (un)subscribe while being notified
	subs := make([]*subscriber[T], len(r.subs))
	copy(subs, r.subs)
	for _, s := range subs {
		if s.active {
			s.fn(old, v)
		}
	}
}

// Subscribe registers fn for future changes and returns a function that
// removes it. The returned function is idempotent.
func (r *Ref[T]) Subscribe(fn func(old, new T)) (unsubscribe func()) {
	s := &subscriber[T]{fn: fn, active: true}
	r.subs = append(r.subs, s)
	return func() {
		if !s.active {
			return
		}
		s.active = false
		for i, existing := range r.subs {
			if existing == s {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
	}
}

// Subscribers returns the number of active subscribers
func (r *Ref[T]) Subscribers() int {
	return len(r.subs)
}

package pipeline

import (
	"github.com/mmcdole/globe/internal/reactive"
)

// DefaultPageSize is the reveal step used when none is configured
const DefaultPageSize = 10

// Sentinel names the placeholder element whose visibility grows the list.
// The empty Sentinel means no element is bound.
type Sentinel string

// IntersectionEntry reports a visibility change for one sentinel
type IntersectionEntry struct {
	Target         Sentinel
	IsIntersecting bool
}

// VisibilityObserver watches sentinels on behalf of one callback.
type VisibilityObserver interface {
	Observe(target Sentinel)
	Unobserve(target Sentinel)
	Disconnect()
}

// ObserverFactory creates an observer that reports intersections of the
// viewport, grown by margin, with observed sentinels.
type ObserverFactory func(margin Margin, callback func(entries []IntersectionEntry)) VisibilityObserver

// LoadMoreOptions configures an incremental reveal controller
type LoadMoreOptions[T any] struct {
	Items     *reactive.Ref[[]T]
	PageSize  int
	IsLoading *reactive.Ref[bool]  // optional; suppresses growth while true
	Error     *reactive.Ref[error] // optional; suppresses growth while set
	Margin    Margin
	Observer  ObserverFactory // optional; nil disables the visibility trigger
}

// LoadMore exposes a growing prefix of Items. The prefix collapses back
// to one page whenever Items is re-set.
type LoadMore[T any] struct {
	items     *reactive.Ref[[]T]
	pageSize  int
	isLoading *reactive.Ref[bool]
	err       *reactive.Ref[error]

	visibleCount int

	observer VisibilityObserver
	trigger  Sentinel
	observed bool

	unsub func()
}

// NewLoadMore creates the controller, sized to the first page.
func NewLoadMore[T any](opts LoadMoreOptions[T]) *LoadMore[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	lm := &LoadMore[T]{
		items:     opts.Items,
		pageSize:  opts.PageSize,
		isLoading: opts.IsLoading,
		err:       opts.Error,
	}
	if opts.Observer != nil {
		lm.observer = opts.Observer(opts.Margin, lm.onIntersect)
	}

	lm.Reset()
	lm.unsub = opts.Items.Subscribe(func(_, _ []T) {
		lm.Reset()
	})
	return lm
}

// VisibleItems returns the exposed prefix, in order
func (lm *LoadMore[T]) VisibleItems() []T {
	list := lm.items.Get()
	n := min(lm.visibleCount, len(list))
	visible := make([]T, n)
	copy(visible, list[:n])
	return visible
}

// VisibleCount returns how many items are exposed
func (lm *LoadMore[T]) VisibleCount() int {
	return lm.visibleCount
}

// HasMore reports whether items remain beyond the exposed prefix
func (lm *LoadMore[T]) HasMore() bool {
	return len(lm.items.Get()) > lm.visibleCount
}

// LoadMore exposes one more page, if any items remain.
func (lm *LoadMore[T]) LoadMore() {
	if !lm.HasMore() {
		return
	}
	lm.visibleCount = min(lm.visibleCount+lm.pageSize, len(lm.items.Get()))
	lm.syncObservation()
}

// Reset collapses the prefix to the first page of the current items.
func (lm *LoadMore[T]) Reset() {
	lm.visibleCount = min(lm.pageSize, len(lm.items.Get()))
	lm.syncObservation()
}

// SetTrigger binds the sentinel. Binding a new sentinel stops observing
// the previous one; binding "" unbinds.
func (lm *LoadMore[T]) SetTrigger(target Sentinel) {
	if target == lm.trigger {
		return
	}
	if lm.observed {
		lm.observer.Unobserve(lm.trigger)
		lm.observed = false
	}
	lm.trigger = target
	lm.syncObservation()
}

// Trigger returns the bound sentinel
func (lm *LoadMore[T]) Trigger() Sentinel {
	return lm.trigger
}

// Observing reports whether the sentinel is currently watched
func (lm *LoadMore[T]) Observing() bool {
	return lm.observed
}

// Close disconnects the observer and stops following Items.
func (lm *LoadMore[T]) Close() {
	if lm.unsub != nil {
		lm.unsub()
		lm.unsub = nil
	}
	if lm.observer != nil {
		lm.observer.Disconnect()
		lm.observer = nil
	}
	lm.observed = false
}

// syncObservation watches the sentinel only while there is more to show.
func (lm *LoadMore[T]) syncObservation() {
	want := lm.observer != nil && lm.trigger != "" && lm.HasMore()
	if want == lm.observed {
		return
	}
	if want {
		lm.observer.Observe(lm.trigger)
	} else {
		lm.observer.Unobserve(lm.trigger)
	}
	lm.observed = want
}

func (lm *LoadMore[T]) onIntersect(entries []IntersectionEntry) {
	if len(entries) == 0 || !entries[0].IsIntersecting {
		return
	}
	if lm.isLoading != nil && lm.isLoading.Get() {
		return
	}
	if lm.err != nil && lm.err.Get() != nil {
		return
	}
	lm.LoadMore()
}

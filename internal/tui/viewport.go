package tui

import (
	"slices"

	"github.com/mmcdole/globe/internal/pipeline"
)

// RowHeightPx converts CSS pixel margins into terminal rows
const RowHeightPx = 20

// Viewport describes the visible window of a list, in rows
type Viewport struct {
	Offset int                       // first visible row
	Height int                       // visible rows
	Rows   map[pipeline.Sentinel]int // row index of each rendered sentinel
}

// ViewportTracker hands out observers for the pipeline and reports
// sentinel visibility to them whenever the view lays out.
type ViewportTracker struct {
	observers []*viewportObserver
}

// NewViewportTracker creates an empty tracker
func NewViewportTracker() *ViewportTracker {
	return &ViewportTracker{}
}

// Factory returns the observer constructor passed to the home pipeline
func (t *ViewportTracker) Factory() pipeline.ObserverFactory {
	return func(margin pipeline.Margin, callback func([]pipeline.IntersectionEntry)) pipeline.VisibilityObserver {
		o := &viewportObserver{
			tracker:  t,
			margin:   margin,
			callback: callback,
			targets:  make(map[pipeline.Sentinel]*targetState),
		}
		t.observers = append(t.observers, o)
		return o
	}
}

// Observers returns the number of connected observers
func (t *ViewportTracker) Observers() int {
	return len(t.observers)
}

// Sync evaluates every observed sentinel against v and notifies observers
// whose sentinels entered, left or moved while visible. It reports whether
// any callback ran; callers re-layout and sync again until it returns false.
func (t *ViewportTracker) Sync(v Viewport) bool {
	fired := false
	for _, o := range slices.Clone(t.observers) {
		if o.sync(v) {
			fired = true
		}
	}
	return fired
}

func (t *ViewportTracker) remove(o *viewportObserver) {
	t.observers = slices.DeleteFunc(t.observers, func(x *viewportObserver) bool { return x == o })
}

type targetState struct {
	reported   bool
	intersects bool
	row        int
}

type viewportObserver struct {
	tracker  *ViewportTracker
	margin   pipeline.Margin
	callback func([]pipeline.IntersectionEntry)
	targets  map[pipeline.Sentinel]*targetState
}

func (o *viewportObserver) Observe(target pipeline.Sentinel) {
	if _, ok := o.targets[target]; !ok {
		o.targets[target] = &targetState{}
	}
}

func (o *viewportObserver) Unobserve(target pipeline.Sentinel) {
	delete(o.targets, target)
}

func (o *viewportObserver) Disconnect() {
	o.targets = make(map[pipeline.Sentinel]*targetState)
	o.tracker.remove(o)
}

func (o *viewportObserver) sync(v Viewport) bool {
	var entries []pipeline.IntersectionEntry

	// Sorted for a stable callback order
	names := make([]pipeline.Sentinel, 0, len(o.targets))
	for name := range o.targets {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		st := o.targets[name]
		row, rendered := v.Rows[name]
		in := rendered && o.intersects(v, row)

		changed := !st.reported || in != st.intersects || (in && row != st.row)
		st.reported, st.intersects, st.row = true, in, row
		if changed {
			entries = append(entries, pipeline.IntersectionEntry{Target: name, IsIntersecting: in})
		}
	}

	if len(entries) == 0 {
		return false
	}
	o.callback(entries)
	return true
}

// intersects checks row against the viewport grown by the vertical margins.
// Lists are a single column, so the horizontal margins do not apply.
func (o *viewportObserver) intersects(v Viewport, row int) bool {
	top := v.Offset - rowsFor(o.margin.Top)
	bottom := v.Offset + v.Height + rowsFor(o.margin.Bottom)
	return row >= top && row < bottom
}

// rowsFor converts pixels to whole rows, rounding up
func rowsFor(px int) int {
	if px <= 0 {
		return 0
	}
	return (px + RowHeightPx - 1) / RowHeightPx
}

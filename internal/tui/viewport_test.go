package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/globe/internal/pipeline"
	"github.com/mmcdole/globe/internal/reactive"
)

const sentinel = pipeline.Sentinel("load-more")

type recorded struct {
	calls [][]pipeline.IntersectionEntry
}

func (r *recorded) callback(entries []pipeline.IntersectionEntry) {
	r.calls = append(r.calls, entries)
}

func at(row int) map[pipeline.Sentinel]int {
	return map[pipeline.Sentinel]int{sentinel: row}
}

func TestRowsFor(t *testing.T) {
	assert.Equal(t, 0, rowsFor(0))
	assert.Equal(t, 0, rowsFor(-40))
	assert.Equal(t, 1, rowsFor(1))
	assert.Equal(t, 1, rowsFor(20))
	assert.Equal(t, 10, rowsFor(200))
	assert.Equal(t, 11, rowsFor(201))
}

func TestViewportObserverMargin(t *testing.T) {
	tracker := NewViewportTracker()
	var rec recorded
	obs := tracker.Factory()(pipeline.Margin{Bottom: 200}, rec.callback)
	obs.Observe(sentinel)

	// 10 visible rows plus 10 rows of margin: rows 0..19 intersect
	require.True(t, tracker.Sync(Viewport{Offset: 0, Height: 10, Rows: at(25)}))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []pipeline.IntersectionEntry{{Target: sentinel, IsIntersecting: false}}, rec.calls[0])

	require.True(t, tracker.Sync(Viewport{Offset: 6, Height: 10, Rows: at(25)}))
	assert.True(t, rec.calls[1][0].IsIntersecting)

	// same state and row: nothing new
	assert.False(t, tracker.Sync(Viewport{Offset: 7, Height: 10, Rows: at(25)}))
	assert.Len(t, rec.calls, 2)
}

func TestViewportObserverReportsMovedSentinel(t *testing.T) {
	tracker := NewViewportTracker()
	var rec recorded
	obs := tracker.Factory()(pipeline.Margin{}, rec.callback)
	obs.Observe(sentinel)

	tracker.Sync(Viewport{Height: 40, Rows: at(10)})
	tracker.Sync(Viewport{Height: 40, Rows: at(20)})

	require.Len(t, rec.calls, 2)
	assert.True(t, rec.calls[0][0].IsIntersecting)
	assert.True(t, rec.calls[1][0].IsIntersecting)
}

func TestViewportObserverUnrenderedSentinel(t *testing.T) {
	tracker := NewViewportTracker()
	var rec recorded
	obs := tracker.Factory()(pipeline.Margin{}, rec.callback)
	obs.Observe(sentinel)

	tracker.Sync(Viewport{Height: 40})
	require.Len(t, rec.calls, 1)
	assert.False(t, rec.calls[0][0].IsIntersecting)
}

func TestViewportObserverUnobserveAndDisconnect(t *testing.T) {
	tracker := NewViewportTracker()
	var rec recorded
	obs := tracker.Factory()(pipeline.Margin{}, rec.callback)
	require.Equal(t, 1, tracker.Observers())

	obs.Observe(sentinel)
	obs.Unobserve(sentinel)
	assert.False(t, tracker.Sync(Viewport{Height: 40, Rows: at(1)}))

	obs.Observe(sentinel)
	obs.Disconnect()
	assert.Equal(t, 0, tracker.Observers())
	assert.False(t, tracker.Sync(Viewport{Height: 40, Rows: at(1)}))
	assert.Empty(t, rec.calls)
}

func TestViewportTrackerDrivesLoadMore(t *testing.T) {
	tracker := NewViewportTracker()
	items := make([]int, 45)
	ref := newIntsRef(items)

	lm := pipeline.NewLoadMore(pipeline.LoadMoreOptions[int]{
		Items:    ref,
		PageSize: 10,
		Margin:   pipeline.Margin{Bottom: 100},
		Observer: tracker.Factory(),
	})
	defer lm.Close()
	lm.SetTrigger(sentinel)

	// A 12-row viewport with 5 rows of margin fills to 20 and stops
	// once the sentinel lies beyond row 16.
	layout := func() Viewport {
		return Viewport{Height: 12, Rows: at(lm.VisibleCount())}
	}
	for i := 0; i < 10; i++ {
		if !tracker.Sync(layout()) {
			break
		}
	}
	assert.Equal(t, 20, lm.VisibleCount())

	// Scrolling down reveals the rest, page by page
	for off := 0; off < 45; off++ {
		v := layout()
		v.Offset = off
		tracker.Sync(v)
	}
	assert.Equal(t, 45, lm.VisibleCount())
	assert.False(t, lm.Observing())
}

func newIntsRef(v []int) *reactive.Ref[[]int] {
	return reactive.NewListRef(v)
}

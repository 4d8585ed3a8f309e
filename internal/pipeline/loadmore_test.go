package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/reactive"
)

const trigger Sentinel = "sentinel"

type loadMoreFixture struct {
	items    *reactive.Ref[[]*domain.Country]
	loading  *reactive.Ref[bool]
	err      *reactive.Ref[error]
	observer *fakeObserver
	lm       *LoadMore[*domain.Country]
}

func newLoadMoreFixture(t *testing.T, n int) *loadMoreFixture {
	t.Helper()
	f := &loadMoreFixture{
		items:    reactive.NewListRef(numbered(n)),
		loading:  reactive.NewRef(false),
		err:      reactive.NewRef[error](nil),
		observer: &fakeObserver{},
	}
	f.lm = NewLoadMore(LoadMoreOptions[*domain.Country]{
		Items:     f.items,
		PageSize:  10,
		IsLoading: f.loading,
		Error:     f.err,
		Margin:    DefaultMargin,
		Observer:  f.observer.factory(),
	})
	t.Cleanup(f.lm.Close)
	return f
}

func TestLoadMorePaginationGrowth(t *testing.T) {
	f := newLoadMoreFixture(t, 25)
	f.lm.SetTrigger(trigger)

	counts := []int{f.lm.VisibleCount()}
	for f.lm.HasMore() {
		f.observer.intersect(trigger)
		counts = append(counts, f.lm.VisibleCount())
	}

	assert.Equal(t, []int{10, 20, 25}, counts)
	assert.False(t, f.lm.Observing(), "sentinel is released once everything is shown")
	assert.Len(t, f.lm.VisibleItems(), 25)
	assert.Equal(t, DefaultMargin, f.observer.margin)
}

func TestLoadMoreVisibleItemsIsOrderedPrefix(t *testing.T) {
	f := newLoadMoreFixture(t, 25)

	visible := f.lm.VisibleItems()
	require.Len(t, visible, 10)
	assert.Equal(t, f.items.Get()[:10], visible)

	visible[0] = nil
	assert.NotNil(t, f.lm.VisibleItems()[0])
}

func TestLoadMoreResetsOnNewItems(t *testing.T) {
	f := newLoadMoreFixture(t, 25)
	f.lm.LoadMore()
	require.Equal(t, 20, f.lm.VisibleCount())

	f.items.Set(numbered(40))
	assert.Equal(t, 10, f.lm.VisibleCount())

	f.items.Set(numbered(3))
	assert.Equal(t, 3, f.lm.VisibleCount())
	assert.False(t, f.lm.HasMore())

	f.items.Set(nil)
	assert.Equal(t, 0, f.lm.VisibleCount())
	assert.Empty(t, f.lm.VisibleItems())
}

func TestLoadMoreSuppressedWhileLoadingOrErrored(t *testing.T) {
	f := newLoadMoreFixture(t, 25)
	f.lm.SetTrigger(trigger)

	f.loading.Set(true)
	f.observer.intersect(trigger)
	assert.Equal(t, 10, f.lm.VisibleCount())

	f.loading.Set(false)
	f.err.Set(errors.New("boom"))
	f.observer.intersect(trigger)
	assert.Equal(t, 10, f.lm.VisibleCount())

	f.err.Set(nil)
	f.observer.intersect(trigger)
	assert.Equal(t, 20, f.lm.VisibleCount())
}

func TestLoadMoreIgnoresNonIntersectingEntries(t *testing.T) {
	f := newLoadMoreFixture(t, 25)
	f.lm.SetTrigger(trigger)

	f.observer.callback([]IntersectionEntry{{Target: trigger, IsIntersecting: false}})
	f.observer.callback(nil)
	assert.Equal(t, 10, f.lm.VisibleCount())
}

func TestLoadMoreObservationFollowsHasMore(t *testing.T) {
	f := newLoadMoreFixture(t, 5)
	f.lm.SetTrigger(trigger)
	assert.False(t, f.lm.Observing())

	f.items.Set(numbered(15))
	assert.True(t, f.lm.Observing())
	assert.True(t, f.observer.observed[trigger])

	f.lm.LoadMore()
	assert.False(t, f.lm.Observing())
	assert.False(t, f.observer.observed[trigger])

	f.items.Set(numbered(30))
	assert.True(t, f.lm.Observing(), "observation resumes after a reset")
}

func TestLoadMoreSwapTrigger(t *testing.T) {
	f := newLoadMoreFixture(t, 25)
	f.lm.SetTrigger(trigger)
	f.lm.SetTrigger("other")

	assert.False(t, f.observer.observed[trigger])
	assert.True(t, f.observer.observed["other"])
	assert.Equal(t, Sentinel("other"), f.lm.Trigger())

	f.lm.SetTrigger("")
	assert.Empty(t, f.observer.observed)
	assert.False(t, f.lm.Observing())
}

func TestLoadMoreCloseDisconnects(t *testing.T) {
	f := newLoadMoreFixture(t, 25)
	f.lm.SetTrigger(trigger)

	f.lm.Close()
	assert.True(t, f.observer.disconnected)
	assert.False(t, f.lm.Observing())
	assert.Equal(t, 0, f.items.Subscribers())

	f.lm.Close()
}

func TestLoadMoreWithoutObserver(t *testing.T) {
	items := reactive.NewListRef(numbered(12))
	lm := NewLoadMore(LoadMoreOptions[*domain.Country]{Items: items})
	defer lm.Close()

	lm.SetTrigger(trigger)
	assert.False(t, lm.Observing())
	assert.Equal(t, DefaultPageSize, lm.VisibleCount())

	lm.LoadMore()
	lm.LoadMore()
	assert.Equal(t, 12, lm.VisibleCount())
}

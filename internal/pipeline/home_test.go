package pipeline

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/reactive"
)

type homeFixture struct {
	sched    *reactive.ManualScheduler
	nav      *fakeNavigator
	observer *fakeObserver
	dataset  DatasetQuery
	refetch  int
	home     *Home
}

func newHomeFixture(t *testing.T, location url.Values, countries []*domain.Country) *homeFixture {
	t.Helper()
	f := &homeFixture{
		sched:    newScheduler(),
		nav:      newFakeNavigator(location),
		observer: &fakeObserver{},
	}
	f.dataset = DatasetQuery{
		Data:      reactive.NewListRef(countries),
		IsLoading: reactive.NewRef(false),
		Error:     reactive.NewRef[error](nil),
		Refetch:   func() { f.refetch++ },
	}
	f.home = NewHome(HomeOptions{
		Dataset:   f.dataset,
		Navigator: f.nav,
		Scheduler: f.sched,
		Observer:  f.observer.factory(),
	})
	f.home.SetLoadMoreTrigger(DefaultSentinel)
	t.Cleanup(f.home.Close)
	return f
}

func (f *homeFixture) settle() {
	f.sched.Advance(DefaultDebounce)
}

func homeDataset() []*domain.Country {
	return append(sampleCountries(), numbered(20)...)
}

func TestHomeMountHydratesFilters(t *testing.T) {
	f := newHomeFixture(t, url.Values{"query": {"land"}, "region": {"Europe"}}, homeDataset())
	assert.Len(t, f.home.Countries(), 25)

	f.home.Mount()
	assert.Equal(t, domain.FilterState{Query: "land", Region: "Europe"}, f.home.Filters())

	// The region applies at once; the term once it settles
	assert.Len(t, f.home.Countries(), 23)
	f.settle()
	assert.Equal(t, []string{"Iceland", "Ireland"}, names(f.home.Countries()))
	assert.Empty(t, f.nav.pushes)
}

func TestHomeIncrementalReveal(t *testing.T) {
	f := newHomeFixture(t, nil, homeDataset())
	f.home.Mount()

	assert.Len(t, f.home.VisibleCountries(), 10)
	f.observer.intersect(DefaultSentinel)
	assert.Len(t, f.home.VisibleCountries(), 20)
	f.home.LoadMore()
	assert.Len(t, f.home.VisibleCountries(), 25)
	assert.False(t, f.home.HasMore())

	f.home.SearchTerm.Set("country 1")
	f.settle()
	assert.Len(t, f.home.Countries(), 10)
	assert.Len(t, f.home.VisibleCountries(), 10)
	assert.False(t, f.home.HasMore())

	f.home.SearchTerm.Set("country")
	f.settle()
	assert.Len(t, f.home.VisibleCountries(), 10, "a new filter collapses the reveal")
	assert.True(t, f.home.HasMore())
}

func TestHomeSearchWritesLocation(t *testing.T) {
	f := newHomeFixture(t, nil, homeDataset())
	f.home.Mount()

	f.home.SearchTerm.Set("fra")
	assert.True(t, f.home.IsSearching())
	f.settle()

	assert.False(t, f.home.IsSearching())
	require.Len(t, f.nav.pushes, 1)
	assert.Equal(t, "fra", f.nav.query.Get(ParamQuery))
	assert.Equal(t, []string{"France"}, names(f.home.VisibleCountries()))
}

func TestHomeLoadingAndError(t *testing.T) {
	f := newHomeFixture(t, nil, homeDataset())
	f.home.Mount()

	f.dataset.IsLoading.Set(true)
	assert.True(t, f.home.Loading())
	assert.Empty(t, f.home.VisibleCountries())

	f.dataset.IsLoading.Set(false)
	f.dataset.Error.Set(errors.New("offline"))
	assert.EqualError(t, f.home.Error(), "offline")

	f.observer.intersect(DefaultSentinel)
	assert.Len(t, f.home.VisibleCountries(), 10)

	f.home.HandleRetry()
	assert.Equal(t, 1, f.refetch)
}

func TestHomeDropsNilRecords(t *testing.T) {
	f := newHomeFixture(t, nil, []*domain.Country{nil, country("Peru", "Lima", "Americas"), nil})
	f.home.Mount()

	assert.Equal(t, []string{"Peru"}, names(f.home.VisibleCountries()))
}

func TestHomeCloseReleasesResources(t *testing.T) {
	f := newHomeFixture(t, nil, homeDataset())
	f.home.Mount()
	f.home.SearchTerm.Set("fra")

	f.home.Close()
	f.settle()

	assert.True(t, f.observer.disconnected)
	assert.Empty(t, f.nav.pushes)
	assert.Equal(t, 0, f.dataset.Data.Subscribers())
	assert.Equal(t, 0, f.dataset.IsLoading.Subscribers())
	assert.Equal(t, 0, f.sched.Pending())
}

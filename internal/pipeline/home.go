package pipeline

import (
	"log/slog"
	"time"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/reactive"
)

// DefaultSentinel is the sentinel name views bind the load-more row to
const DefaultSentinel Sentinel = "load-more"

// DatasetQuery is the observable face of the dataset provider.
type DatasetQuery struct {
	Data      *reactive.Ref[[]*domain.Country]
	IsLoading *reactive.Ref[bool]
	Error     *reactive.Ref[error]
	Refetch   func()
}

// HomeOptions configures the home page pipeline
type HomeOptions struct {
	Dataset   DatasetQuery
	Navigator Navigator
	Scheduler reactive.Scheduler
	Cache     *FilterCache    // shared across pipelines; created if nil
	Observer  ObserverFactory // optional viewport capability

	PageSize       int
	Debounce       time.Duration
	ReplaceHistory bool
	Margin         Margin

	Logger *slog.Logger
}

// Home composes search, URL sync and incremental reveal into the state a
// country list view renders.
type Home struct {
	SearchTerm *reactive.Ref[string]
	Region     *reactive.Ref[string]

	dataset  DatasetQuery
	urlSync  *URLSync
	search   *Search
	items    *reactive.Ref[[]*domain.Country]
	loadMore *LoadMore[*domain.Country]
	logger   *slog.Logger

	mounted bool
	unsubs  []func()
}

// NewHome builds the pipeline. Call Mount after the first render to
// hydrate filters from the location.
func NewHome(opts HomeOptions) *Home {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Margin == (Margin{}) {
		opts.Margin = DefaultMargin
	}
	if opts.Cache == nil {
		opts.Cache = NewFilterCache(opts.Scheduler.Now)
	}
	if opts.Dataset.Data == nil {
		opts.Dataset.Data = reactive.NewListRef[*domain.Country](nil)
	}
	if opts.Dataset.IsLoading == nil {
		opts.Dataset.IsLoading = reactive.NewRef(false)
	}
	if opts.Dataset.Error == nil {
		opts.Dataset.Error = reactive.NewRef[error](nil)
	}

	h := &Home{
		SearchTerm: reactive.NewRef(""),
		Region:     reactive.NewRef(""),
		dataset:    opts.Dataset,
		logger:     opts.Logger,
	}

	h.urlSync = NewURLSync(h.SearchTerm, h.Region, opts.Navigator, opts.Scheduler, URLSyncOptions{
		Debounce:       opts.Debounce,
		ReplaceHistory: opts.ReplaceHistory,
		Logger:         opts.Logger,
	})

	h.search = NewSearch(SearchOptions{
		Countries: opts.Dataset.Data,
		Term:      h.SearchTerm,
		Region:    h.Region,
		Loading:   opts.Dataset.IsLoading,
		Cache:     opts.Cache,
		Scheduler: opts.Scheduler,
		Debounce:  opts.Debounce,
	})

	h.items = reactive.NewListRef(compact(h.search.Filtered().Get()))
	h.unsubs = append(h.unsubs, h.search.Filtered().Subscribe(func(_, filtered []*domain.Country) {
		h.items.Set(compact(filtered))
	}))

	h.loadMore = NewLoadMore(LoadMoreOptions[*domain.Country]{
		Items:     h.items,
		PageSize:  opts.PageSize,
		IsLoading: opts.Dataset.IsLoading,
		Error:     opts.Dataset.Error,
		Margin:    opts.Margin,
		Observer:  opts.Observer,
	})

	return h
}

// Mount hydrates the filters from the location, once.
func (h *Home) Mount() {
	if h.mounted {
		return
	}
	h.mounted = true
	h.urlSync.InitializeFromURL()
}

// Filters returns the raw filter state
func (h *Home) Filters() domain.FilterState {
	return domain.FilterState{Query: h.SearchTerm.Get(), Region: h.Region.Get()}
}

// IsSearching reports a pending search recomputation
func (h *Home) IsSearching() bool {
	return h.search.IsSearching()
}

// Countries returns the full filtered sequence
func (h *Home) Countries() []*domain.Country {
	return h.items.Get()
}

// VisibleCountries returns the revealed prefix of the filtered sequence
func (h *Home) VisibleCountries() []*domain.Country {
	return h.loadMore.VisibleItems()
}

// HasMore reports whether more filtered countries can be revealed
func (h *Home) HasMore() bool {
	return h.loadMore.HasMore()
}

// LoadMore reveals the next page directly, bypassing the sentinel
func (h *Home) LoadMore() {
	h.loadMore.LoadMore()
}

// SetLoadMoreTrigger binds the sentinel the view renders after the list
func (h *Home) SetLoadMoreTrigger(target Sentinel) {
	h.loadMore.SetTrigger(target)
}

// Loading reports an in-flight dataset fetch
func (h *Home) Loading() bool {
	return h.dataset.IsLoading.Get()
}

// Error returns the dataset fetch error, if any
func (h *Home) Error() error {
	return h.dataset.Error.Get()
}

// HandleRetry re-requests the dataset
func (h *Home) HandleRetry() {
	h.logger.Info("retrying country fetch")
	if h.dataset.Refetch != nil {
		h.dataset.Refetch()
	}
}

// Close tears down timers, subscriptions and the viewport observer.
func (h *Home) Close() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
	h.loadMore.Close()
	h.search.Close()
	h.urlSync.Close()
}

// compact drops nil entries
func compact(countries []*domain.Country) []*domain.Country {
	out := make([]*domain.Country, 0, len(countries))
	for _, c := range countries {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

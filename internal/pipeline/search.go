package pipeline

import (
	"strings"
	"time"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/reactive"
)

// SearchOptions wires the search engine to its inputs
type SearchOptions struct {
	Countries *reactive.Ref[[]*domain.Country] // full dataset
	Term      *reactive.Ref[string]            // raw search input
	Region    *reactive.Ref[string]            // region selector
	Loading   *reactive.Ref[bool]              // dataset fetch in flight
	Cache     *FilterCache
	Scheduler reactive.Scheduler
	Debounce  time.Duration
}

// Search derives the visible dataset from the full dataset, the debounced
// search term and the region selector. The derivation is re-run whenever
// one of those inputs changes.
type Search struct {
	opts      SearchOptions
	debounced *Debounced[string]
	filtered  *reactive.Ref[[]*domain.Country]
	unsubs    []func()
}

// NewSearch creates the engine and performs the first derivation.
func NewSearch(opts SearchOptions) *Search {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Cache == nil {
		opts.Cache = NewFilterCache(opts.Scheduler.Now)
	}
	if opts.Loading == nil {
		opts.Loading = reactive.NewRef(false)
	}

	s := &Search{
		opts:      opts,
		debounced: NewDebounced(opts.Term, opts.Debounce, opts.Scheduler),
	}
	s.filtered = reactive.NewListRef(s.derive())

	s.unsubs = append(s.unsubs,
		opts.Countries.Subscribe(func(_, _ []*domain.Country) {
			// Results memoized against the previous dataset no longer hold
			s.opts.Cache.Clear()
			s.recompute()
		}),
		s.debounced.Value().Subscribe(func(_, _ string) { s.recompute() }),
		opts.Region.Subscribe(func(_, _ string) { s.recompute() }),
		opts.Loading.Subscribe(func(_, _ bool) { s.recompute() }),
	)
	return s
}

// Filtered returns the derived result ref. It is re-set on every
// recomputation.
func (s *Search) Filtered() *reactive.Ref[[]*domain.Country] {
	return s.filtered
}

// DebouncedTerm returns the settled search term
func (s *Search) DebouncedTerm() string {
	return s.debounced.Get()
}

// IsSearching reports whether a recomputation is pending because the raw
// term has not settled yet.
func (s *Search) IsSearching() bool {
	return s.opts.Term.Get() != s.debounced.Get()
}

// Close stops observing inputs and cancels the pending debounce
func (s *Search) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.debounced.Close()
}

func (s *Search) recompute() {
	s.filtered.Set(s.derive())
}

func (s *Search) derive() []*domain.Country {
	// Never show stale rows while a fresh fetch is in flight
	if s.opts.Loading.Get() {
		return []*domain.Country{}
	}

	all := s.opts.Countries.Get()
	query, region := NormalizeFilters(s.debounced.Get(), s.opts.Region.Get())

	if query == "" && region == "" {
		return all
	}

	if cached, ok := s.opts.Cache.Get(query, region); ok {
		return cached
	}

	results := Filter(all, query, region)
	if len(all) > 0 {
		s.opts.Cache.Set(query, region, results)
	}
	return results
}

// NormalizeFilters lowercases and trims the query and trims the region,
// the form Filter and the cache expect.
func NormalizeFilters(query, region string) (string, string) {
	return strings.TrimSpace(strings.ToLower(query)), strings.TrimSpace(region)
}

// Filter restricts countries to region (case-insensitive, skipped when
// empty) and then to rows whose name, capital or region contains query.
// query and region must already be normalized by NormalizeFilters.
func Filter(countries []*domain.Country, query, region string) []*domain.Country {
	results := make([]*domain.Country, 0)
	for _, c := range countries {
		if c == nil {
			continue
		}
		if region != "" && !c.InRegion(region) {
			continue
		}
		if query != "" && !c.Matches(query) {
			continue
		}
		results = append(results, c)
	}
	return results
}

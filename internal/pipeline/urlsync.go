package pipeline

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/reactive"
)

// Location query parameter names
const (
	ParamQuery  = "query"
	ParamRegion = "region"
)

// Navigator is the routing capability the URL synchronizer needs.
type Navigator interface {
	// Query returns the current location's query parameters
	Query() url.Values

	// Push navigates to the current path with query, adding a history entry
	Push(query url.Values)

	// Replace navigates to the current path with query, replacing the entry
	Replace(query url.Values)

	// Subscribe reports location changes (including back/forward)
	Subscribe(fn func(query url.Values)) (unsubscribe func())
}

// URLSyncOptions configures a URLSync
type URLSyncOptions struct {
	Debounce       time.Duration
	ReplaceHistory bool
	Logger         *slog.Logger
}

// URLSync keeps the (query, region) filter refs and the location query
// string in step. Writes are debounced; reads apply only after
// InitializeFromURL has run.
type URLSync struct {
	query  *reactive.Ref[string]
	region *reactive.Ref[string]
	nav    Navigator

	// Both facets settle together so one edit yields one navigation
	filters   *reactive.Ref[domain.FilterState]
	debounced *Debounced[domain.FilterState]

	replace     bool
	initialized bool
	logger      *slog.Logger
	unsubs      []func()

	writing bool // navigating from updateURL
}

// NewURLSync wires both directions. Nothing is written to the location
// until InitializeFromURL is called.
func NewURLSync(query, region *reactive.Ref[string], nav Navigator, sched reactive.Scheduler, opts URLSyncOptions) *URLSync {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	u := &URLSync{
		query:   query,
		region:  region,
		nav:     nav,
		filters: reactive.NewRef(domain.FilterState{Query: query.Get(), Region: region.Get()}),
		replace: opts.ReplaceHistory,
		logger:  opts.Logger,
	}
	u.debounced = NewDebounced(u.filters, opts.Debounce, sched)

	track := func(_, _ string) {
		u.filters.Set(domain.FilterState{Query: u.query.Get(), Region: u.region.Get()})
	}
	u.unsubs = append(u.unsubs,
		query.Subscribe(track),
		region.Subscribe(track),
		u.debounced.Value().Subscribe(func(_, f domain.FilterState) {
			u.updateURL(f.Query, f.Region)
		}),
		nav.Subscribe(u.onLocationChange),
	)
	return u
}

// InitializeFromURL copies the location's filters into the refs and
// enables both sync directions. Later calls do nothing.
func (u *URLSync) InitializeFromURL() {
	if u.initialized {
		return
	}
	params := u.nav.Query()
	u.query.Set(params.Get(ParamQuery))
	u.region.Set(params.Get(ParamRegion))
	u.initialized = true
}

// Initialized reports whether InitializeFromURL has run
func (u *URLSync) Initialized() bool {
	return u.initialized
}

// Close stops both directions and cancels pending writes
func (u *URLSync) Close() {
	for _, unsub := range u.unsubs {
		unsub()
	}
	u.unsubs = nil
	u.debounced.Close()
}

// FilterParams builds the minimal query parameter set for the filters:
// a parameter is present only when its trimmed value is non-empty.
func FilterParams(query, region string) url.Values {
	params := url.Values{}
	if q := strings.TrimSpace(query); q != "" {
		params.Set(ParamQuery, q)
	}
	if r := strings.TrimSpace(region); r != "" {
		params.Set(ParamRegion, r)
	}
	return params
}

func (u *URLSync) updateURL(query, region string) {
	if !u.initialized {
		return
	}

	params := FilterParams(query, region)
	current := u.nav.Query()
	if current.Get(ParamQuery) == params.Get(ParamQuery) &&
		current.Get(ParamRegion) == params.Get(ParamRegion) {
		return
	}

	u.logger.Debug("updating location", "query", params.Get(ParamQuery), "region", params.Get(ParamRegion), "replace", u.replace)
	u.writing = true
	defer func() { u.writing = false }()
	if u.replace {
		u.nav.Replace(params)
	} else {
		u.nav.Push(params)
	}
}

func (u *URLSync) onLocationChange(params url.Values) {
	if !u.initialized || u.writing {
		return
	}
	query := params.Get(ParamQuery)
	region := params.Get(ParamRegion)
	if strings.TrimSpace(u.query.Get()) != query || strings.TrimSpace(u.region.Get()) != region {
		u.query.Set(query)
		u.region.Set(region)
	}
}

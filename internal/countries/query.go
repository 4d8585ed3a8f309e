package countries

import (
	"context"
	"errors"
	"slices"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/pipeline"
	"github.com/mmcdole/globe/internal/reactive"
)

// ListQuery exposes the country list as refs owned by the event loop.
// Fetches run in goroutines and land through the scheduler.
type ListQuery struct {
	Data       *reactive.Ref[[]*domain.Country]
	IsLoading  *reactive.Ref[bool] // fetching with nothing to show
	IsFetching *reactive.Ref[bool] // any fetch in flight, including revalidation
	Error      *reactive.Ref[error]

	svc    *Service
	fields []string
	sched  reactive.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	gen    int
}

// NewListQuery serves cached data at once and starts a fetch when the
// cache is missing or stale.
func NewListQuery(ctx context.Context, svc *Service, fields []string, sched reactive.Scheduler) *ListQuery {
	ctx, cancel := context.WithCancel(ctx)
	q := &ListQuery{
		Data:       reactive.NewListRef[*domain.Country](nil),
		IsLoading:  reactive.NewRef(false),
		IsFetching: reactive.NewRef(false),
		Error:      reactive.NewRef[error](nil),
		svc:        svc,
		fields:     fields,
		sched:      sched,
		ctx:        ctx,
		cancel:     cancel,
	}

	if cached, ok := svc.GetData(fields); ok {
		q.Data.Set(cached)
	}
	if svc.IsStale(fields) {
		q.start(false)
	}
	return q
}

// Dataset adapts the query to the home pipeline
func (q *ListQuery) Dataset() pipeline.DatasetQuery {
	return pipeline.DatasetQuery{
		Data:      q.Data,
		IsLoading: q.IsLoading,
		Error:     q.Error,
		Refetch:   q.Refetch,
	}
}

// Refetch re-requests the list from the network
func (q *ListQuery) Refetch() {
	q.start(true)
}

// Close cancels the in-flight fetch and drops late results.
func (q *ListQuery) Close() {
	q.cancel()
	q.gen++
}

func (q *ListQuery) start(force bool) {
	q.gen++
	gen := q.gen
	q.IsFetching.Set(true)
	q.IsLoading.Set(len(q.Data.Get()) == 0)

	go func() {
		var countries []*domain.Country
		var err error
		if force {
			countries, err = q.svc.Refetch(q.ctx, q.fields)
		} else {
			countries, err = q.svc.FetchAll(q.ctx, q.fields)
		}
		reactive.Post(q.sched, func() {
			if gen != q.gen {
				return
			}
			q.finish(countries, err)
		})
	}()
}

func (q *ListQuery) finish(countries []*domain.Country, err error) {
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			q.Error.Set(err)
		}
	} else {
		q.Error.Set(nil)
		// Revalidation that changed nothing keeps the current sequence
		if !sameCountries(q.Data.Get(), countries) || q.Data.Get() == nil {
			q.Data.Set(countries)
		}
	}
	q.IsLoading.Set(false)
	q.IsFetching.Set(false)
}

func sameCountries(a, b []*domain.Country) bool {
	return slices.EqualFunc(a, b, func(x, y *domain.Country) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	})
}

// DetailQuery exposes one country's detail. It is idle while the code is
// empty.
type DetailQuery struct {
	Data      *reactive.Ref[*domain.CountryDetail]
	IsLoading *reactive.Ref[bool]
	Error     *reactive.Ref[error]

	svc    *Service
	sched  reactive.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	code   string
	gen    int

	started bool
}

// NewDetailQuery starts fetching code, if any.
func NewDetailQuery(ctx context.Context, svc *Service, code string, sched reactive.Scheduler) *DetailQuery {
	ctx, cancel := context.WithCancel(ctx)
	q := &DetailQuery{
		Data:      reactive.NewRef[*domain.CountryDetail](nil),
		IsLoading: reactive.NewRef(false),
		Error:     reactive.NewRef[error](nil),
		svc:       svc,
		sched:     sched,
		ctx:       ctx,
		cancel:    cancel,
	}
	q.SetCode(code)
	return q
}

// Code returns the requested code
func (q *DetailQuery) Code() string {
	return q.code
}

// SetCode switches the query to another country. Setting the current
// code again does nothing; use Refetch to retry.
func (q *DetailQuery) SetCode(code string) {
	if code == q.code && q.started {
		return
	}
	q.started = true
	q.code = code
	q.gen++
	q.Error.Set(nil)

	if code == "" {
		q.Data.Set(nil)
		q.IsLoading.Set(false)
		return
	}

	if cached, ok := q.svc.GetDetail(code); ok {
		q.Data.Set(cached)
	} else {
		q.Data.Set(nil)
	}
	q.fetch()
}

// Refetch re-requests the current code
func (q *DetailQuery) Refetch() {
	if q.code == "" {
		return
	}
	q.gen++
	q.Error.Set(nil)
	q.fetch()
}

// Close cancels the in-flight fetch and drops late results.
func (q *DetailQuery) Close() {
	q.cancel()
	q.gen++
}

func (q *DetailQuery) fetch() {
	gen := q.gen
	code := q.code
	q.IsLoading.Set(q.Data.Get() == nil)

	go func() {
		detail, err := q.svc.FetchDetail(q.ctx, code)
		if err == nil {
			// Border countries are the likely next stop
			go q.svc.PrefetchDetails(q.ctx, detail.Borders)
		}
		reactive.Post(q.sched, func() {
			if gen != q.gen {
				return
			}
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					q.Error.Set(err)
				}
			} else {
				q.Data.Set(detail)
			}
			q.IsLoading.Set(false)
		})
	}()
}

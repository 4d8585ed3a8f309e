package countries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/restcountries"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultMaxAge    = 24 * time.Hour

	listRetries         = 3
	detailRetries       = 2
	defaultRetryBase    = 1 * time.Second
	maxRetryDelay       = 30 * time.Second
	prefetchConcurrency = 4

	listKeyPrefix   = "countries:list:"
	detailKeyPrefix = "country-detail:"
)

// Options tunes caching and retry behaviour
type Options struct {
	StaleTime time.Duration // cached results younger than this skip the network
	MaxAge    time.Duration // cached results older than this are discarded
	RetryBase time.Duration // first retry delay; doubled per attempt up to 30s
	Now       func() time.Time
	Logger    *slog.Logger
}

// Service fetches countries through the repository, caching results in
// the store. Concurrent identical fetches share one request.
type Service struct {
	repo   domain.CountryRepository
	store  domain.Store
	opts   Options
	group  singleflight.Group
	logger *slog.Logger
}

// NewService creates a new countries service.
func NewService(repo domain.CountryRepository, store domain.Store, opts Options) *Service {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{repo: repo, store: store, opts: opts, logger: opts.Logger}
}

// ListKey returns the store key for a list query over fields
func ListKey(fields []string) string {
	return listKeyPrefix + strings.Join(fields, ",")
}

// DetailKey returns the store key for one country's detail
func DetailKey(code string) string {
	return detailKeyPrefix + strings.ToUpper(strings.TrimSpace(code))
}

// FetchAll returns the country list, from cache when fresh and from the
// network otherwise.
func (s *Service) FetchAll(ctx context.Context, fields []string) ([]*domain.Country, error) {
	if countries, updatedAt, ok := s.cachedList(fields); ok && s.fresh(updatedAt) {
		s.logger.Debug("cache fresh", "key", ListKey(fields), "count", len(countries))
		return countries, nil
	}
	return s.Refetch(ctx, fields)
}

// Refetch fetches the country list from the network, bypassing the cache.
func (s *Service) Refetch(ctx context.Context, fields []string) ([]*domain.Country, error) {
	key := ListKey(fields)
	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		countries, err := retry(ctx, s.backOff(), listRetries, func() ([]*domain.Country, error) {
			return s.repo.FetchAll(ctx, fields)
		}, s.notify(key))
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(key, countries, s.opts.Now()); err != nil {
			s.logger.Error("failed to save countries", "error", err)
		}
		return countries, nil
	})
	if err != nil {
		s.logger.Error("failed to fetch countries", "error", err)
		return nil, err
	}
	countries := v.([]*domain.Country)
	s.logger.Debug("fetched countries", "count", len(countries))
	return countries, nil
}

// FetchDetail returns one country's detail, from cache when fresh. Unknown
// codes fail with domain.ErrCountryNotFound without retrying.
func (s *Service) FetchDetail(ctx context.Context, code string) (*domain.CountryDetail, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrEmptyCode
	}
	if detail, updatedAt, ok := s.cachedDetail(code); ok && s.fresh(updatedAt) {
		return detail, nil
	}

	key := DetailKey(code)
	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		detail, err := retry(ctx, s.backOff(), detailRetries, func() (*domain.CountryDetail, error) {
			return s.repo.FetchDetail(ctx, code)
		}, s.notify(key))
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(key, detail, s.opts.Now()); err != nil {
			s.logger.Error("failed to save country detail", "error", err, "code", code)
		}
		return detail, nil
	})
	if err != nil {
		s.logger.Error("failed to fetch country detail", "error", err, "code", code)
		return nil, err
	}
	return v.(*domain.CountryDetail), nil
}

// GetData returns the cached country list regardless of staleness.
func (s *Service) GetData(fields []string) ([]*domain.Country, bool) {
	countries, _, ok := s.cachedList(fields)
	return countries, ok
}

// GetDetail returns a cached country detail regardless of staleness.
func (s *Service) GetDetail(code string) (*domain.CountryDetail, bool) {
	detail, _, ok := s.cachedDetail(code)
	return detail, ok
}

// IsStale reports whether the cached list is missing or older than the
// stale time.
func (s *Service) IsStale(fields []string) bool {
	_, updatedAt, ok := s.cachedList(fields)
	return !ok || !s.fresh(updatedAt)
}

// PrefetchDetails warms detail entries for codes concurrently. Failures
// are logged; only cancellation is returned.
func (s *Service) PrefetchDetails(ctx context.Context, codes []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)
	for _, code := range codes {
		g.Go(func() error {
			if _, err := s.FetchDetail(ctx, code); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				s.logger.Debug("prefetch failed", "code", code, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Invalidate drops the cached list and every cached detail.
func (s *Service) Invalidate() {
	s.store.DeletePrefix(listKeyPrefix)
	s.store.DeletePrefix(detailKeyPrefix)
	s.logger.Info("invalidated countries cache")
}

// --- Private helpers ---

func (s *Service) cachedList(fields []string) ([]*domain.Country, time.Time, bool) {
	var countries []*domain.Country
	updatedAt, ok := s.store.Get(ListKey(fields), &countries)
	if !ok || s.expired(updatedAt) {
		return nil, time.Time{}, false
	}
	return countries, updatedAt, true
}

func (s *Service) cachedDetail(code string) (*domain.CountryDetail, time.Time, bool) {
	var detail domain.CountryDetail
	updatedAt, ok := s.store.Get(DetailKey(code), &detail)
	if !ok || s.expired(updatedAt) {
		return nil, time.Time{}, false
	}
	return &detail, updatedAt, true
}

func (s *Service) fresh(updatedAt time.Time) bool {
	return s.opts.Now().Sub(updatedAt) < s.opts.StaleTime
}

func (s *Service) expired(updatedAt time.Time) bool {
	return s.opts.Now().Sub(updatedAt) > s.opts.MaxAge
}

// shared runs fn once per key across concurrent callers. fn gets a context
// that outlives any single caller; each caller still returns on its own
// cancellation.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.RetryBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = maxRetryDelay
	b.Reset()
	return b
}

func (s *Service) notify(key string) backoff.Notify {
	return func(err error, next time.Duration) {
		s.logger.Warn("fetch failed, retrying", "key", key, "error", err, "backoff", next)
	}
}

// retry runs op up to retries+1 times. Errors that cannot succeed on
// repetition end the loop at once.
func retry[T any](ctx context.Context, b backoff.BackOff, retries uint, op func() (T, error), notify backoff.Notify) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !restcountries.IsRetryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(retries+1), backoff.WithNotify(notify))
}

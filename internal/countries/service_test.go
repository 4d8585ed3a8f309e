package countries

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/store"
)

var fields = []string{"cca3", "name"}

// fakeRepo serves canned responses and counts calls
type fakeRepo struct {
	mu          sync.Mutex
	listCalls   int
	detailCalls map[string]int
	listErrs    []error // consumed one per call before succeeding
	detailErr   error
	list        []*domain.Country
	gate        chan struct{} // blocks FetchAll until closed, if set
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		detailCalls: make(map[string]int),
		list: []*domain.Country{
			{ID: "FRA", Name: "France", Region: "Europe"},
			{ID: "PER", Name: "Peru", Region: "Americas"},
		},
	}
}

func (r *fakeRepo) FetchAll(ctx context.Context, _ []string) ([]*domain.Country, error) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if len(r.listErrs) > 0 {
		err := r.listErrs[0]
		r.listErrs = r.listErrs[1:]
		return nil, err
	}
	return r.list, nil
}

func (r *fakeRepo) FetchDetail(ctx context.Context, code string) (*domain.CountryDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detailCalls[code]++
	if r.detailErr != nil {
		return nil, r.detailErr
	}
	return &domain.CountryDetail{
		Country:    domain.Country{ID: code, Name: "Country " + code},
		TLD:        []string{},
		Currencies: []string{},
		Languages:  []string{},
		Borders:    []string{},
	}, nil
}

func (r *fakeRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

func (r *fakeRepo) detailCallsFor(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detailCalls[code]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, repo *fakeRepo) (*Service, *clock, domain.Store) {
	t.Helper()
	st, err := store.Open("", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clk := &clock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(repo, st, Options{RetryBase: time.Millisecond, Now: clk.Now})
	return svc, clk, st
}

func TestFetchAllServesFreshCache(t *testing.T) {
	repo := newFakeRepo()
	svc, clk, _ := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.FetchAll(ctx, fields)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	clk.Advance(4 * time.Minute)
	_, err = svc.FetchAll(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls())
	assert.False(t, svc.IsStale(fields))

	clk.Advance(2 * time.Minute)
	assert.True(t, svc.IsStale(fields))
	_, err = svc.FetchAll(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls())
}

func TestStaleDataStillServedUntilMaxAge(t *testing.T) {
	repo := newFakeRepo()
	svc, clk, _ := newTestService(t, repo)

	_, err := svc.FetchAll(context.Background(), fields)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	cached, ok := svc.GetData(fields)
	assert.True(t, ok)
	assert.Len(t, cached, 2)

	clk.Advance(24 * time.Hour)
	_, ok = svc.GetData(fields)
	assert.False(t, ok)
}

func TestFetchAllRetriesTransientFailures(t *testing.T) {
	repo := newFakeRepo()
	repo.listErrs = []error{domain.ErrSourceUnreachable, domain.ErrSourceUnreachable}
	svc, _, _ := newTestService(t, repo)

	countries, err := svc.FetchAll(context.Background(), fields)
	require.NoError(t, err)
	assert.Len(t, countries, 2)
	assert.Equal(t, 3, repo.calls())
}

func TestFetchAllGivesUpAfterThreeRetries(t *testing.T) {
	repo := newFakeRepo()
	for range 10 {
		repo.listErrs = append(repo.listErrs, domain.ErrSourceUnreachable)
	}
	svc, _, _ := newTestService(t, repo)

	_, err := svc.FetchAll(context.Background(), fields)
	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
	assert.Equal(t, 4, repo.calls())
}

func TestFetchDetailDoesNotRetryNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.detailErr = domain.ErrCountryNotFound
	svc, _, _ := newTestService(t, repo)

	_, err := svc.FetchDetail(context.Background(), "xyz")
	assert.ErrorIs(t, err, domain.ErrCountryNotFound)
	assert.Equal(t, 1, repo.detailCallsFor("XYZ"))
}

func TestFetchDetailRetriesTwice(t *testing.T) {
	repo := newFakeRepo()
	repo.detailErr = errors.New("connection reset")
	svc, _, _ := newTestService(t, repo)

	_, err := svc.FetchDetail(context.Background(), "FRA")
	assert.Error(t, err)
	assert.Equal(t, 3, repo.detailCallsFor("FRA"))
}

func TestFetchDetailCaches(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(t, repo)
	ctx := context.Background()

	d, err := svc.FetchDetail(ctx, " fra ")
	require.NoError(t, err)
	assert.Equal(t, "FRA", d.ID)

	_, err = svc.FetchDetail(ctx, "FRA")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.detailCallsFor("FRA"))

	cached, ok := svc.GetDetail("fra")
	require.True(t, ok)
	assert.Equal(t, "Country FRA", cached.Name)

	_, err = svc.FetchDetail(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCode)
}

func TestConcurrentFetchesShareOneRequest(t *testing.T) {
	repo := newFakeRepo()
	repo.gate = make(chan struct{})
	svc, _, _ := newTestService(t, repo)

	var wg sync.WaitGroup
	results := make([][]*domain.Country, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.Refetch(context.Background(), fields)
		}()
	}

	// Let every caller join the flight before releasing it
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	assert.Equal(t, 1, repo.calls())
	for _, r := range results {
		assert.Len(t, r, 2)
	}
}

func TestCallerCancellationDoesNotWaitForFlight(t *testing.T) {
	repo := newFakeRepo()
	repo.gate = make(chan struct{})
	defer close(repo.gate)
	svc, _, _ := newTestService(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Refetch(ctx, fields)
	assert.ErrorIs(t, err, context.Canceled)
}

// seedList writes list into the service's store as if just fetched
func seedList(t *testing.T, svc *Service, list []*domain.Country) {
	t.Helper()
	require.NoError(t, svc.store.Set(ListKey(fields), list, svc.opts.Now()))
}

func TestCacheHelpers(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(t, repo)
	ctx := context.Background()

	seedList(t, svc, []*domain.Country{{ID: "ISL", Name: "Iceland"}})
	got, ok := svc.GetData(fields)
	require.True(t, ok)
	assert.Equal(t, "Iceland", got[0].Name)

	_, err := svc.FetchAll(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.calls(), "seeded data is fresh")

	_, err = svc.FetchDetail(ctx, "FRA")
	require.NoError(t, err)

	svc.Invalidate()
	_, ok = svc.GetData(fields)
	assert.False(t, ok)
	_, ok = svc.GetDetail("FRA")
	assert.False(t, ok)

	_, err = svc.FetchAll(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls())
}

func TestPrefetchDetails(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(t, repo)

	codes := []string{"AND", "BEL", "DEU", "ITA", "LUX", "MCO", "ESP", "CHE"}
	require.NoError(t, svc.PrefetchDetails(context.Background(), codes))

	for _, code := range codes {
		assert.Equal(t, 1, repo.detailCallsFor(code), code)
		_, ok := svc.GetDetail(code)
		assert.True(t, ok, code)
	}
}

func TestPrefetchDetailsToleratesFailures(t *testing.T) {
	repo := newFakeRepo()
	repo.detailErr = domain.ErrCountryNotFound
	svc, _, _ := newTestService(t, repo)

	assert.NoError(t, svc.PrefetchDetails(context.Background(), []string{"AAA", "BBB"}))
}

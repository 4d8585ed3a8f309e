package pipeline

import (
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/reactive"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newScheduler() *reactive.ManualScheduler {
	return reactive.NewManualScheduler(epoch)
}

func country(name, capital, region string) *domain.Country {
	return &domain.Country{ID: name[:min(3, len(name))], Name: name, Capital: capital, Region: region}
}

func sampleCountries() []*domain.Country {
	return []*domain.Country{
		country("Iceland", "Reykjavik", "Europe"),
		country("Ireland", "Dublin", "Europe"),
		country("Thailand", "Bangkok", "Asia"),
		country("France", "Paris", "Europe"),
		country("Japan", "Tokyo", "Asia"),
	}
}

func numbered(n int) []*domain.Country {
	out := make([]*domain.Country, n)
	for i := range out {
		out[i] = &domain.Country{ID: fmt.Sprintf("C%02d", i), Name: fmt.Sprintf("Country %02d", i), Region: "Europe"}
	}
	return out
}

func names(countries []*domain.Country) []string {
	out := make([]string, len(countries))
	for i, c := range countries {
		out[i] = c.Name
	}
	return out
}

// fakeNavigator records navigations the way a history router would.
type fakeNavigator struct {
	query    url.Values
	pushes   []url.Values
	replaces []url.Values
	subs     []func(url.Values)
}

func newFakeNavigator(query url.Values) *fakeNavigator {
	if query == nil {
		query = url.Values{}
	}
	return &fakeNavigator{query: query}
}

func (n *fakeNavigator) Query() url.Values { return n.query }

func (n *fakeNavigator) Push(q url.Values) {
	n.pushes = append(n.pushes, q)
	n.navigate(q)
}

func (n *fakeNavigator) Replace(q url.Values) {
	n.replaces = append(n.replaces, q)
	n.navigate(q)
}

// navigate changes the location without recording a navigation, as
// browser back/forward does.
func (n *fakeNavigator) navigate(q url.Values) {
	n.query = q
	for _, fn := range n.subs {
		fn(q)
	}
}

func (n *fakeNavigator) Subscribe(fn func(url.Values)) func() {
	n.subs = append(n.subs, fn)
	idx := len(n.subs) - 1
	return func() { n.subs[idx] = func(url.Values) {} }
}

// fakeObserver is a controllable viewport capability.
type fakeObserver struct {
	margin       Margin
	callback     func([]IntersectionEntry)
	observed     map[Sentinel]bool
	disconnected bool
}

func (o *fakeObserver) factory() ObserverFactory {
	return func(margin Margin, cb func([]IntersectionEntry)) VisibilityObserver {
		o.margin = margin
		o.callback = cb
		o.observed = make(map[Sentinel]bool)
		return o
	}
}

func (o *fakeObserver) Observe(s Sentinel)   { o.observed[s] = true }
func (o *fakeObserver) Unobserve(s Sentinel) { delete(o.observed, s) }
func (o *fakeObserver) Disconnect() {
	o.disconnected = true
	o.observed = make(map[Sentinel]bool)
}

// intersect fires the callback if the sentinel is observed, as a real
// viewport watcher would.
func (o *fakeObserver) intersect(s Sentinel) {
	if o.observed[s] {
		o.callback([]IntersectionEntry{{Target: s, IsIntersecting: true}})
	}
}

package router

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc := ParseLocation("/?query=fra&region=Europe")
	assert.Equal(t, "/", loc.Path)
	assert.Equal(t, "fra", loc.Query.Get("query"))
	assert.Equal(t, "/?query=fra&region=Europe", loc.String())

	assert.Equal(t, "/", ParseLocation("").String())
	assert.Equal(t, "/about", ParseLocation("/about").String())
	assert.Equal(t, "/?region=Asia", ParseLocation("?region=Asia").String())
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		path  string
		route Route
		code  string
	}{
		{"/", RouteHome, ""},
		{"/about", RouteAbout, ""},
		{"/country/FRA", RouteCountryDetail, "FRA"},
		{CountryPath("C I V"), RouteCountryDetail, "C I V"},
		{"/country/", RouteNotFound, ""},
		{"/country/FRA/extra", RouteNotFound, ""},
		{"/nowhere", RouteNotFound, ""},
	}
	for _, tt := range tests {
		m := MatchPath(tt.path)
		assert.Equal(t, tt.route, m.Route, tt.path)
		assert.Equal(t, tt.code, m.Params["cca3"], tt.path)
	}
}

func TestHistoryBackForward(t *testing.T) {
	h := New("/")
	var seen []string
	h.Subscribe(func(loc Location) { seen = append(seen, loc.String()) })

	h.Navigate("/?query=fra")
	h.Navigate("/country/FRA")
	assert.Equal(t, RouteCountryDetail, h.Match().Route)

	require.True(t, h.Back())
	assert.Equal(t, "/?query=fra", h.Current().String())
	require.True(t, h.Back())
	assert.False(t, h.Back())
	assert.True(t, h.CanForward())

	require.True(t, h.Forward())
	h.Navigate("/about")
	assert.False(t, h.CanForward(), "push discards forward entries")
	assert.Equal(t, 3, h.Len())

	assert.Equal(t, []string{"/?query=fra", "/country/FRA", "/?query=fra", "/", "/?query=fra", "/about"}, seen)
}

func TestHistoryIgnoresDuplicateNavigation(t *testing.T) {
	h := New("/?query=fra")
	calls := 0
	h.Subscribe(func(Location) { calls++ })

	h.Navigate("/?query=fra")
	h.Replace(ParseLocation("/?query=fra"))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, h.Len())
}

func TestHistoryReplace(t *testing.T) {
	h := New("/")
	h.Navigate("/?query=a")
	h.Replace(ParseLocation("/?query=ab"))

	assert.Equal(t, 2, h.Len())
	h.Back()
	assert.Equal(t, "/", h.Current().String())
}

func TestHistoryUnsubscribe(t *testing.T) {
	h := New("/")
	calls := 0
	unsub := h.Subscribe(func(Location) { calls++ })
	unsub()
	unsub()

	h.Navigate("/about")
	assert.Equal(t, 0, calls)
}

func TestScopedNavigator(t *testing.T) {
	h := New("/?query=fra")
	nav := h.Scoped(HomePath)

	var seen []url.Values
	nav.Subscribe(func(q url.Values) { seen = append(seen, q) })

	assert.Equal(t, "fra", nav.Query().Get("query"))

	h.Navigate("/country/FRA")
	assert.Empty(t, nav.Query(), "off-path locations have no filters")
	assert.Empty(t, seen, "off-path changes are not reported")

	h.Back()
	require.Len(t, seen, 1)
	assert.Equal(t, "fra", seen[0].Get("query"))

	nav.Push(url.Values{"region": {"Asia"}})
	assert.Equal(t, "/?region=Asia", h.Current().String())

	nav.Replace(url.Values{})
	assert.Equal(t, "/", h.Current().String())
	assert.Equal(t, 2, h.Len(), "the detail entry was discarded by the push")
}

func TestScopedQueryIsACopy(t *testing.T) {
	h := New("/?query=fra")
	q := h.Scoped(HomePath).Query()
	q.Set("query", "mutated")

	assert.Equal(t, "fra", h.Current().Query.Get("query"))
}

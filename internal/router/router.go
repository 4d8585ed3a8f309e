// Package router keeps an in-memory navigation history of locations
// such as "/?query=fra" or "/country/FRA" and matches them to routes.
//
// A History belongs to the event loop; it is not safe for concurrent use.
package router

import (
	"net/url"
	"strings"
)

// Route names a page
type Route string

const (
	RouteHome          Route = "home"
	RouteCountryDetail Route = "country-detail"
	RouteAbout         Route = "about"
	RouteNotFound      Route = ""
)

// Route paths
const (
	HomePath  = "/"
	AboutPath = "/about"

	countryPrefix = "/country/"
)

// Location is a path plus query parameters
type Location struct {
	Path  string
	Query url.Values
}

// ParseLocation parses "path?query". A missing path means "/".
func ParseLocation(s string) Location {
	path, rawQuery, _ := strings.Cut(s, "?")
	if path == "" {
		path = HomePath
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	return Location{Path: path, Query: query}
}

// CountryPath returns the detail path for a cca3 code
func CountryPath(code string) string {
	return countryPrefix + url.PathEscape(code)
}

// String renders the location as "path?query", omitting an empty query.
func (l Location) String() string {
	if q := l.Query.Encode(); q != "" {
		return l.Path + "?" + q
	}
	return l.Path
}

// Equal compares path and encoded query
func (l Location) Equal(other Location) bool {
	return l.Path == other.Path && l.Query.Encode() == other.Query.Encode()
}

// Match is the result of matching a path against the route table
type Match struct {
	Route  Route
	Params map[string]string
}

// MatchPath resolves path to a route and its parameters.
func MatchPath(path string) Match {
	switch {
	case path == HomePath || path == "":
		return Match{Route: RouteHome}
	case path == AboutPath:
		return Match{Route: RouteAbout}
	case strings.HasPrefix(path, countryPrefix):
		code, err := url.PathUnescape(strings.TrimPrefix(path, countryPrefix))
		if err != nil || code == "" || strings.Contains(code, "/") {
			return Match{Route: RouteNotFound}
		}
		return Match{Route: RouteCountryDetail, Params: map[string]string{"cca3": code}}
	default:
		return Match{Route: RouteNotFound}
	}
}

// History is a browser-style history stack.
type History struct {
	entries []Location
	index   int
	subs    []*subscriber
}

type subscriber struct {
	fn     func(Location)
	active bool
}

// New creates a history whose only entry is initial.
func New(initial string) *History {
	return &History{entries: []Location{ParseLocation(initial)}}
}

// Current returns the active location
func (h *History) Current() Location {
	return h.entries[h.index]
}

// Match matches the active location's path
func (h *History) Match() Match {
	return MatchPath(h.Current().Path)
}

// Push adds loc after the current entry, discarding forward entries.
// Navigating to the current location does nothing.
func (h *History) Push(loc Location) {
	loc = normalize(loc)
	if loc.Equal(h.Current()) {
		return
	}
	h.entries = append(h.entries[:h.index+1], loc)
	h.index++
	h.notify()
}

// Navigate pushes a location given as a string
func (h *History) Navigate(s string) {
	h.Push(ParseLocation(s))
}

// Replace swaps the current entry for loc.
func (h *History) Replace(loc Location) {
	loc = normalize(loc)
	if loc.Equal(h.Current()) {
		return
	}
	h.entries[h.index] = loc
	h.notify()
}

// Back moves one entry back, reporting whether it moved.
func (h *History) Back() bool {
	if !h.CanBack() {
		return false
	}
	h.index--
	h.notify()
	return true
}

// Forward moves one entry forward, reporting whether it moved.
func (h *History) Forward() bool {
	if !h.CanForward() {
		return false
	}
	h.index++
	h.notify()
	return true
}

func (h *History) CanBack() bool    { return h.index > 0 }
func (h *History) CanForward() bool { return h.index < len(h.entries)-1 }

// Len returns the number of entries
func (h *History) Len() int {
	return len(h.entries)
}

// Subscribe registers fn for every location change.
func (h *History) Subscribe(fn func(Location)) (unsubscribe func()) {
	s := &subscriber{fn: fn, active: true}
	h.subs = append(h.subs, s)
	return func() {
		if !s.active {
			return
		}
		s.active = false
		for i, existing := range h.subs {
			if existing == s {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				break
			}
		}
	}
}

func (h *History) notify() {
	loc := h.Current()
	subs := make([]*subscriber, len(h.subs))
	copy(subs, h.subs)
	for _, s := range subs {
		if s.active {
			s.fn(loc)
		}
	}
}

func normalize(loc Location) Location {
	if loc.Path == "" {
		loc.Path = HomePath
	}
	if loc.Query == nil {
		loc.Query = url.Values{}
	}
	return loc
}

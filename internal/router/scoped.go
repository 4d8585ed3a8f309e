package router

import (
	"net/url"
)

// Scoped is a navigator bound to one path. Query reads and change
// notifications only reflect locations on that path, so leaving the page
// never looks like its filters were cleared.
type Scoped struct {
	history *History
	path    string
}

// Scoped returns a navigator for path
func (h *History) Scoped(path string) *Scoped {
	return &Scoped{history: h, path: path}
}

// Query returns the query of the current location if it is on the path.
func (s *Scoped) Query() url.Values {
	cur := s.history.Current()
	if cur.Path != s.path {
		return url.Values{}
	}
	return cloneValues(cur.Query)
}

// Push navigates to the path with query
func (s *Scoped) Push(query url.Values) {
	s.history.Push(Location{Path: s.path, Query: cloneValues(query)})
}

// Replace replaces the current entry with the path and query
func (s *Scoped) Replace(query url.Values) {
	s.history.Replace(Location{Path: s.path, Query: cloneValues(query)})
}

// Subscribe reports query changes of locations on the path
func (s *Scoped) Subscribe(fn func(url.Values)) func() {
	return s.history.Subscribe(func(loc Location) {
		if loc.Path == s.path {
			fn(cloneValues(loc.Query))
		}
	})
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Package search ranks countries for the jump palette and proposes
// "did you mean" names when a filter matches nothing.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/globe/internal/domain"
)

// Match is a jump candidate with match metadata for highlighting
type Match struct {
	Country        *domain.Country
	MatchedIndexes []int // byte positions in the name
	Score          int   // higher is better
}

// nameIndex implements sahilm/fuzzy.Source over lowercase country names
type nameIndex struct {
	countries  []*domain.Country
	lowerNames []string
}

func newNameIndex(countries []*domain.Country) *nameIndex {
	idx := &nameIndex{}
	for _, c := range countries {
		if c == nil || c.Name == "" {
			continue
		}
		idx.countries = append(idx.countries, c)
		idx.lowerNames = append(idx.lowerNames, strings.ToLower(c.Name))
	}
	return idx
}

// String returns the lowercase name at index i (implements fuzzy.Source)
func (idx *nameIndex) String(i int) string { return idx.lowerNames[i] }

// Len returns the number of names (implements fuzzy.Source)
func (idx *nameIndex) Len() int { return len(idx.lowerNames) }

// Jump ranks countries whose name fuzzily matches query, best first.
// limit <= 0 returns every match.
func Jump(query string, countries []*domain.Country, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	idx := newNameIndex(countries)
	found := fuzzy.FindFrom(query, idx)

	results := make([]Match, 0, len(found))
	for _, m := range found {
		results = append(results, Match{
			Country:        idx.countries[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results
}

type suggestion struct {
	name     string
	distance int // edits against the name or its leading characters
	full     int // edits against the whole name
}

// Suggest returns up to n names close to query, nearest first. A name
// qualifies when it contains the query's characters in order, or when its
// leading characters are within a few edits of the query.
func Suggest(query string, names []string, n int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || n <= 0 {
		return nil
	}

	inOrder := make(map[string]bool)
	for _, r := range lfuzzy.RankFindFold(query, names) {
		inOrder[r.Target] = true
	}

	queryLen := utf8.RuneCountInString(query)
	maxEdits := max(1, queryLen/3)
	seen := make(map[string]bool)
	var ranked []suggestion
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		lower := strings.ToLower(name)
		full := lfuzzy.LevenshteinDistance(query, lower)
		d := min(full, lfuzzy.LevenshteinDistance(query, prefixRunes(lower, queryLen)))
		if d <= maxEdits || inOrder[name] {
			ranked = append(ranked, suggestion{name: name, distance: d, full: full})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.full != b.full {
			return a.full < b.full
		}
		return a.name < b.name
	})

	out := make([]string, 0, min(n, len(ranked)))
	for _, s := range ranked[:min(n, len(ranked))] {
		out = append(out, s.name)
	}
	return out
}

// Names returns the non-empty country names
func Names(countries []*domain.Country) []string {
	names := make([]string, 0, len(countries))
	for _, c := range countries {
		if c != nil && c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

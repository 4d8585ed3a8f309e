package domain

import (
	"fmt"
	"strings"
)

// Country is the list-level projection of a REST Countries record.
// Values are treated as immutable once built and are shared by pointer.
type Country struct {
	ID         string // cca3 code, unique identifier
	Name       string // Common name
	Capital    string // First listed capital, "" if none
	Region     string // e.g. "Europe", "Asia"
	Population int64
	FlagURL    string // PNG flag image URL
}

// Matches reports whether the lowercase query is a substring of the
// lowercase name, capital or region.
func (c *Country) Matches(query string) bool {
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Capital), query) ||
		strings.Contains(strings.ToLower(c.Region), query)
}

// InRegion reports whether the country belongs to region, ignoring case.
func (c *Country) InRegion(region string) bool {
	return strings.EqualFold(c.Region, region)
}

// Description returns secondary info for list rows
func (c *Country) Description() string {
	if c.Capital == "" {
		return c.Region
	}
	return fmt.Sprintf("%s · %s", c.Capital, c.Region)
}

// CountryDetail is the full projection used by the detail view.
// All list fields are non-nil after construction.
type CountryDetail struct {
	Country

	NativeName string
	Subregion  string
	TLD        []string
	Currencies []string
	Languages  []string
	Borders    []string // cca3 codes of neighbouring countries
}

// FilterState holds the two independent filter facets.
// An empty string disables the facet.
type FilterState struct {
	Query  string
	Region string
}

// IsZero reports whether neither facet is set after trimming.
func (f FilterState) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && strings.TrimSpace(f.Region) == ""
}

// Regions lists the region facet values offered by the UI, "" meaning all.
var Regions = []string{"", "Africa", "Americas", "Antarctic", "Asia", "Europe", "Oceania"}

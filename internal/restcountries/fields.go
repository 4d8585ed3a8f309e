package restcountries

import (
	"sort"
	"strings"
)

// DefaultFields are the record fields the list view needs
var DefaultFields = map[string]bool{
	"cca3":       true,
	"name":       true,
	"capital":    true,
	"region":     true,
	"population": true,
	"flags":      true,
}

// ListFields returns the enabled field names in sorted order.
func ListFields(fields map[string]bool) []string {
	names := make([]string, 0, len(fields))
	for name, enabled := range fields {
		if enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// FormatFields renders the enabled fields as the comma-joined value of the
// fields query parameter, e.g. "capital,name".
func FormatFields(fields map[string]bool) string {
	return strings.Join(ListFields(fields), ",")
}

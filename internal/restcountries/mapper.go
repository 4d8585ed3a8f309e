package restcountries

import (
	"sort"

	"github.com/tidwall/gjson"

	"github.com/mmcdole/globe/internal/domain"
)

// FormatCountry builds a Country from one raw API record. Missing or
// mistyped fields become zero values; any input yields a Country.
func FormatCountry(raw []byte) *domain.Country {
	return formatCountry(gjson.ParseBytes(raw))
}

// FormatCountryDetail builds a CountryDetail from one raw API record. List
// fields are never nil.
func FormatCountryDetail(raw []byte) *domain.CountryDetail {
	return formatCountryDetail(gjson.ParseBytes(raw))
}

func formatCountry(r gjson.Result) *domain.Country {
	if !r.IsObject() {
		return &domain.Country{}
	}
	return &domain.Country{
		ID:         str(r.Get("cca3")),
		Name:       str(r.Get("name.common")),
		Capital:    firstString(r.Get("capital")),
		Region:     str(r.Get("region")),
		Population: integer(r.Get("population")),
		FlagURL:    str(r.Get("flags.png")),
	}
}

func formatCountryDetail(r gjson.Result) *domain.CountryDetail {
	detail := &domain.CountryDetail{
		Country:    *formatCountry(r),
		TLD:        []string{},
		Currencies: []string{},
		Languages:  []string{},
		Borders:    []string{},
	}
	if !r.IsObject() {
		return detail
	}

	detail.Subregion = str(r.Get("subregion"))
	detail.TLD = stringList(r.Get("tld"))
	detail.Borders = stringList(r.Get("borders"))
	detail.Languages = namesByKey(r.Get("languages"), "")
	detail.Currencies = namesByKey(r.Get("currencies"), "name")

	// Native names are keyed by language code; take the first code
	if native := r.Get("name.nativeName"); native.IsObject() {
		keys := sortedKeys(native)
		if len(keys) > 0 {
			detail.NativeName = str(native.Get(gjson.Escape(keys[0]) + ".common"))
		}
	}
	return detail
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func integer(r gjson.Result) int64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Int()
}

// firstString accepts either a string or an array whose first element is one.
func firstString(r gjson.Result) string {
	if r.IsArray() {
		return str(r.Get("0"))
	}
	return str(r)
}

// stringList collects the string elements of an array, skipping the rest.
func stringList(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, item := range r.Array() {
		if item.Type == gjson.String {
			out = append(out, item.Str)
		}
	}
	return out
}

// namesByKey renders an object keyed by code as names ordered by code. field
// selects a nested name field; "" means the values are the names.
func namesByKey(r gjson.Result, field string) []string {
	out := []string{}
	if !r.IsObject() {
		return out
	}
	for _, key := range sortedKeys(r) {
		value := r.Get(gjson.Escape(key))
		if field != "" {
			value = value.Get(field)
		}
		if name := str(value); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func sortedKeys(r gjson.Result) []string {
	var keys []string
	r.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	sort.Strings(keys)
	return keys
}

package restcountries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCountryTolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // expected Name
	}{
		{"empty object", `{}`, ""},
		{"not json", `not json`, ""},
		{"array", `[1,2]`, ""},
		{"mistyped name", `{"name":{"common":42}}`, ""},
		{"name only", `{"name":{"common":"Peru"}}`, "Peru"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FormatCountry([]byte(tt.raw))
			assert.NotNil(t, c)
			assert.Equal(t, tt.want, c.Name)
			assert.Equal(t, "", c.Capital)
			assert.Equal(t, "", c.FlagURL)
			assert.Equal(t, int64(0), c.Population)
		})
	}
}

func TestFormatCountryCapitalShapes(t *testing.T) {
	assert.Equal(t, "Lima", FormatCountry([]byte(`{"capital":["Lima","Other"]}`)).Capital)
	assert.Equal(t, "Lima", FormatCountry([]byte(`{"capital":"Lima"}`)).Capital)
	assert.Equal(t, "", FormatCountry([]byte(`{"capital":[]}`)).Capital)
}

func TestFormatCountryDetail(t *testing.T) {
	raw := `{
	  "cca3":"CHE","name":{"common":"Switzerland","nativeName":{
	    "roh":{"common":"Svizra"},"fra":{"common":"Suisse"},"gsw":{"common":"Schweiz"}}},
	  "languages":{"roh":"Romansh","fra":"French","gsw":"Swiss German","ita":"Italian"},
	  "currencies":{"CHF":{"name":"Swiss franc"},"XXX":{"symbol":"?"}},
	  "tld":[".ch", 5],
	  "borders":"not a list"
	}`

	d := FormatCountryDetail([]byte(raw))
	assert.Equal(t, "Switzerland", d.Name)
	assert.Equal(t, "Suisse", d.NativeName)
	assert.Equal(t, []string{"French", "Swiss German", "Italian", "Romansh"}, d.Languages)
	assert.Equal(t, []string{"Swiss franc"}, d.Currencies)
	assert.Equal(t, []string{".ch"}, d.TLD)
	assert.Equal(t, []string{}, d.Borders)
}

func TestFormatCountryDetailNeverNilLists(t *testing.T) {
	d := FormatCountryDetail([]byte(`null`))
	assert.NotNil(t, d.TLD)
	assert.NotNil(t, d.Currencies)
	assert.NotNil(t, d.Languages)
	assert.NotNil(t, d.Borders)
	assert.Equal(t, "", d.NativeName)
}

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "capital,name", FormatFields(map[string]bool{"name": true, "capital": true, "flags": false}))
	assert.Equal(t, "", FormatFields(nil))
	assert.Equal(t, []string{"capital", "cca3", "flags", "name", "population", "region"}, ListFields(DefaultFields))
}

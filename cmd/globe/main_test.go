package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/globe/internal/adapter"
	"github.com/mmcdole/globe/internal/countries"
	"github.com/mmcdole/globe/internal/domain"
	"github.com/mmcdole/globe/internal/store"
)

type staticRepo struct {
	list []*domain.Country
}

func (r staticRepo) FetchAll(context.Context, []string) ([]*domain.Country, error) {
	return r.list, nil
}

func (r staticRepo) FetchDetail(context.Context, string) (*domain.CountryDetail, error) {
	return nil, domain.ErrCountryNotFound
}

func newPrintService(t *testing.T) *countries.Service {
	t.Helper()
	st, err := store.Open("", time.Millisecond, adapter.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return countries.NewService(staticRepo{list: []*domain.Country{
		{ID: "FRA", Name: "France", Capital: "Paris", Region: "Europe", Population: 67391582},
		{ID: "PER", Name: "Peru", Capital: "Lima", Region: "Americas", Population: 32971846},
	}}, st, countries.Options{Logger: adapter.NullLogger()})
}

func TestPrintCountriesNormalizesFlags(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		region string
	}{
		{"capitalized query", "France", ""},
		{"padded query", " fra", ""},
		{"padded region", "", " Europe "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, printCountries(newPrintService(t), tt.query, tt.region, &out))
			assert.Contains(t, out.String(), "France")
			assert.Contains(t, out.String(), "67,391,582")
			assert.NotContains(t, out.String(), "Peru")
		})
	}
}

func TestPrintCountriesNoMatch(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCountries(newPrintService(t), "atlantis", "", &out))
	assert.Equal(t, "No countries match.\n", out.String())
}

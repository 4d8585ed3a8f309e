package domain

import "context"

// CountryRepository: Network operations (implemented by the REST client)
type CountryRepository interface {
	// FetchAll returns every country, restricted to the given response fields
	FetchAll(ctx context.Context, fields []string) ([]*Country, error)

	// FetchDetail returns one country by cca3 code
	FetchDetail(ctx context.Context, code string) (*CountryDetail, error)
}

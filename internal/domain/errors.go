package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrCountryNotFound indicates the requested country code does not exist
	ErrCountryNotFound = errors.New("country not found")

	// ErrSourceUnreachable indicates the countries API could not be reached
	ErrSourceUnreachable = errors.New("countries source is unreachable")

	// ErrEmptyCode indicates a detail lookup without a country code
	ErrEmptyCode = errors.New("country code is empty")
)

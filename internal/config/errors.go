package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and identify the first
// invalid setting so callers can use errors.Is().
var (
	// ErrNoYears is returned when no year range is configured.
	ErrNoYears = errors.New("no years specified: provide at least one year range with --years")

	// ErrInvalidYearRange is returned when a year range is reversed or
	// leaves the four-digit years.
	ErrInvalidYearRange = errors.New("invalid year range: expected years 1000-9999 with start <= end")

	// ErrInvalidProblemRange is returned when the problem range is reversed or
	// leaves 1-100.
	ErrInvalidProblemRange = errors.New("invalid problem range: expected numbers 1-100 with start <= end")

	// ErrInvalidVariant is returned when the competition variant is unknown.
	ErrInvalidVariant = errors.New("invalid variant: must be one of AMC_8, AMC_10A, AMC_10B")

	// ErrInvalidConcurrency is returned when the concurrency limit is negative.
	// Use 0 for no limit.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Use 0 for no timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for no limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")
)

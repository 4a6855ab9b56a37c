package harvest

import "fmt"

// HarvestError is the first failure of a harvest, annotated with the page
// that produced it.
type HarvestError struct {
	// Year of the failing page.
	Year int

	// Number of the failing problem.
	Number int

	// Err is the underlying fetch or extraction error.
	Err error
}

// Error implements the error interface.
func (e *HarvestError) Error() string {
	return fmt.Sprintf("harvest %d problem %d: %v", e.Year, e.Number, e.Err)
}

// Unwrap returns the underlying error.
func (e *HarvestError) Unwrap() error {
	return e.Err
}

package extract

import "errors"

// Structural extraction errors.
// These are returned when a page's markup does not have the expected shape.
// They are never recovered locally; the harvest reports them with the
// offending year and problem number attached.
var (
	// ErrContainerNotFound is returned when the page has no
	// "div.mw-parser-output" content container.
	ErrContainerNotFound = errors.New("content container not found")

	// ErrSolutionAnchorNotFound is returned when no anchor strategy matches.
	ErrSolutionAnchorNotFound = errors.New("solution anchor not found")

	// ErrNoParent is returned when the solution anchor or its wrapper has
	// no parent to partition.
	ErrNoParent = errors.New("no parent found")
)

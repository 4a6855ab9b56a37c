// Package harvest fetches and extracts many problem pages concurrently and
// assembles them into one aggregate result.
//
// Every year of a request gets its own unit of work, and every problem of
// that year gets a unit of its own. Units hand their results back through
// single-value channels, and one loop per level consumes them in a fixed
// order: problems in ascending number within a year, years in the order
// they were requested. Only these loops touch the aggregate, so no locking
// is needed.
//
// The first failure met in that order ends the harvest. Units already in
// flight run to completion and their results are discarded, unless
// cancellation on error is enabled.
package harvest

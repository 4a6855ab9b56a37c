package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when a range string cannot be parsed or its
// bounds are reversed.
var ErrInvalidRange = errors.New("invalid range: expected N or N-M with N <= M")

// Range is an inclusive integer range.
type Range struct {
	// First is the first value of the range.
	First int `json:"first"`

	// Last is the last value of the range (inclusive).
	Last int `json:"last"`
}

// NewRange returns the inclusive range [first, last].
func NewRange(first, last int) Range {
	return Range{First: first, Last: last}
}

// ParseRange parses "N" or "N-M" into an inclusive range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, ErrInvalidRange
	}

	first, last, found := strings.Cut(s, "-")
	if !found {
		last = first
	}

	from, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	to, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}

	r := NewRange(from, to)
	if !r.IsValid() {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return r, nil
}

// IsValid reports whether the range is non-empty.
func (r Range) IsValid() bool {
	return r.First <= r.Last
}

// Len returns the number of values in the range.
// A range wider than math.MaxInt reports math.MaxInt.
func (r Range) Len() int {
	if !r.IsValid() {
		return 0
	}
	width := uint64(r.Last) - uint64(r.First)
	if width >= math.MaxInt {
		return math.MaxInt
	}
	return int(width) + 1
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.First && n <= r.Last
}

// maxPrealloc caps the capacity Values reserves up front.
const maxPrealloc = 1024

// Values returns every value of the range in ascending order.
// The loop stops at Last, so a range ending at math.MaxInt terminates.
func (r Range) Values() []int {
	if !r.IsValid() {
		return []int{}
	}
	values := make([]int, 0, min(r.Len(), maxPrealloc))
	for n := r.First; ; n++ {
		values = append(values, n)
		if n == r.Last {
			break
		}
	}
	return values
}

// String returns "N" for single-value ranges and "N-M" otherwise.
func (r Range) String() string {
	if r.First == r.Last {
		return strconv.Itoa(r.First)
	}
	return strconv.Itoa(r.First) + "-" + strconv.Itoa(r.Last)
}

// HarvestRequest describes one harvest run.
// It is a value type; build it once and pass it by value.
type HarvestRequest struct {
	// Years holds one or more inclusive year ranges, in the order supplied.
	Years []Range `json:"years"`

	// Problems is the inclusive problem-number range harvested for every year.
	Problems Range `json:"problems"`

	// Variant is the competition edition.
	Variant Variant `json:"variant"`

	// KeepDuplicateYears disables deduplication of overlapping year ranges.
	// When true, a year covered by two ranges is harvested and appended twice.
	KeepDuplicateYears bool `json:"keep_duplicate_years,omitempty"`
}

// YearList flattens the year ranges in the order supplied.
// Duplicates are dropped (first occurrence wins) unless KeepDuplicateYears is set.
func (r HarvestRequest) YearList() []int {
	years := make([]int, 0)
	seen := make(map[int]bool)
	for _, yr := range r.Years {
		for _, year := range yr.Values() {
			if !r.KeepDuplicateYears {
				if seen[year] {
					continue
				}
				seen[year] = true
			}
			years = append(years, year)
		}
	}
	return years
}

// ProblemList returns the problem numbers in ascending order.
func (r HarvestRequest) ProblemList() []int {
	return r.Problems.Values()
}

// PageCount returns how many pages the request fetches, saturating at
// math.MaxInt.
func (r HarvestRequest) PageCount() int {
	years, problems := len(r.YearList()), r.Problems.Len()
	if years > 0 && problems > math.MaxInt/years {
		return math.MaxInt
	}
	return years * problems
}

package model

import "slices"

// FetchedPage is the raw markup of one problem page.
// It is owned by a single fetch unit and consumed immediately by extraction.
type FetchedPage struct {
	// Year is the contest year.
	Year int

	// Number is the problem number.
	Number int

	// URL is the page the markup was fetched from.
	URL string

	// Markup is the raw response body.
	Markup string
}

// ExtractedProblem holds the two fragments cut out of one problem page.
// It is immutable after creation.
type ExtractedProblem struct {
	// Year is the contest year.
	Year int `json:"year"`

	// Number is the problem number.
	Number int `json:"number"`

	// Problem is the HTML fragment preceding the solution heading.
	Problem string `json:"problem"`

	// Solution is the HTML fragment from the solution heading up to
	// (but excluding) the "See also" section.
	Solution string `json:"solution"`
}

// Fragment returns the fragment selected by mode.
func (p ExtractedProblem) Fragment(mode Mode) string {
	if mode.IsSolution() {
		return p.Solution
	}
	return p.Problem
}

// YearGroup holds the problems of one year sorted ascending by number.
type YearGroup struct {
	// Year is the contest year.
	Year int `json:"year"`

	// Problems is kept sorted ascending by Number.
	Problems []ExtractedProblem `json:"problems"`
}

// NewYearGroup creates an empty group for year.
func NewYearGroup(year int) *YearGroup {
	return &YearGroup{
		Year:     year,
		Problems: make([]ExtractedProblem, 0),
	}
}

// Add appends a problem and re-sorts the group by number.
// The final order does not depend on the order problems arrive in.
func (g *YearGroup) Add(problem ExtractedProblem) {
	g.Problems = append(g.Problems, problem)
	slices.SortStableFunc(g.Problems, func(a, b ExtractedProblem) int {
		return a.Number - b.Number
	})
}

// Len returns the number of problems in the group.
func (g *YearGroup) Len() int {
	return len(g.Problems)
}

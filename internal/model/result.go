package model

// AggregateResult is the output of one harvest run, grouped by year.
// It is handed to a renderer which produces the problem and solution views.
type AggregateResult struct {
	// Stylesheets are the stylesheet hrefs carried into the rendered documents.
	// Once non-empty the list is frozen for the rest of the run.
	Stylesheets []string `json:"stylesheets"`

	// Variant is the competition edition that was harvested.
	Variant Variant `json:"variant"`

	// Mode selects the problem view or the solution view when rendering.
	Mode Mode `json:"-"`

	// Groups holds one entry per harvested year, in request order.
	Groups []YearGroup `json:"groups"`
}

// NewAggregateResult creates an empty result for variant in problem mode.
func NewAggregateResult(variant Variant) *AggregateResult {
	return &AggregateResult{
		Stylesheets: make([]string, 0),
		Variant:     variant,
		Mode:        ModeProblem,
		Groups:      make([]YearGroup, 0),
	}
}

// SeedStylesheets sets the stylesheet list if it is still empty.
// It returns true when the list was taken. Empty input never seeds.
func (r *AggregateResult) SeedStylesheets(stylesheets []string) bool {
	if len(r.Stylesheets) > 0 || len(stylesheets) == 0 {
		return false
	}
	r.Stylesheets = append(make([]string, 0, len(stylesheets)), stylesheets...)
	return true
}

// AddGroup appends a year group.
func (r *AggregateResult) AddGroup(group YearGroup) {
	r.Groups = append(r.Groups, group)
}

// ProblemCount returns the total number of problems across all groups.
func (r *AggregateResult) ProblemCount() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Problems)
	}
	return total
}

// Years returns the year of every group in order.
func (r *AggregateResult) Years() []int {
	years := make([]int, len(r.Groups))
	for i, g := range r.Groups {
		years[i] = g.Year
	}
	return years
}

// WithMode returns a shallow copy of r with its mode set to mode.
func (r *AggregateResult) WithMode(mode Mode) *AggregateResult {
	c := *r
	c.Mode = mode
	return &c
}

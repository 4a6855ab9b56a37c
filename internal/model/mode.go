package model

// Mode selects which half of each problem page a view contains.
type Mode int

const (
	// ModeProblem selects the problem statements.
	ModeProblem Mode = iota
	// ModeSolution selects the solutions.
	ModeSolution
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeProblem:
		return "problem"
	case ModeSolution:
		return "solution"
	default:
		return "unknown"
	}
}

// IsSolution reports whether m is the solution view.
func (m Mode) IsSolution() bool {
	return m == ModeSolution
}

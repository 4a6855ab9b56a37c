package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/aopsharvest/internal/model"
)

// readFixture returns the content of a file under testdata.
func readFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

// headline renders a wiki section heading the way MediaWiki does.
func headline(id, text string) string {
	return `<h2><span class="mw-headline" id="` + id + `">` + text + `</span></h2>`
}

// TestExtractFixture tests extraction of a real problem page layout.
func TestExtractFixture(t *testing.T) {
	t.Parallel()

	e := New()
	got, err := e.Extract(2003, 23, readFixture(t, "p23.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Year != 2003 || got.Number != 23 {
		t.Errorf("expected 2003/23, got %d/%d", got.Year, got.Number)
	}

	t.Run("problem view", func(t *testing.T) {
		t.Parallel()

		mustContain := []string{
			`<div class="mw-parser-output">`,
			`id="Problem"`,
			"the cat moves clockwise",
			"latex.artofproblemsolving.com",
		}
		for _, s := range mustContain {
			if !strings.Contains(got.Problem, s) {
				t.Errorf("problem view should contain %q", s)
			}
		}

		mustNotContain := []string{
			`id="toc"`,
			"Contents",
			"<br/>",
			`id="Solution"`,
			"cycle of length 4",
			`id="See_Also"`,
			"wikitable",
			"copyrighted",
		}
		for _, s := range mustNotContain {
			if strings.Contains(got.Problem, s) {
				t.Errorf("problem view should not contain %q", s)
			}
		}
	})

	t.Run("solution view", func(t *testing.T) {
		t.Parallel()

		mustContain := []string{
			`<div class="mw-parser-output">`,
			`id="Solution"`,
			"cycle of length 4",
			"The answer is <b>(A)</b>.",
		}
		for _, s := range mustContain {
			if !strings.Contains(got.Solution, s) {
				t.Errorf("solution view should contain %q", s)
			}
		}

		mustNotContain := []string{
			`id="toc"`,
			`id="Problem"`,
			"the cat moves clockwise",
			`id="See_Also"`,
			"wikitable",
			"copyrighted",
		}
		for _, s := range mustNotContain {
			if strings.Contains(got.Solution, s) {
				t.Errorf("solution view should not contain %q", s)
			}
		}
	})
}

// TestExtractExactViews tests the exact output of both views on a page
// without a table of contents.
func TestExtractExactViews(t *testing.T) {
	t.Parallel()

	markup := `<html><body><div class="mw-parser-output">` +
		`<p>intro</p>` +
		headline("Problem", "Problem") + `<p>Q</p>` +
		headline("Solution", "Solution") + `<p>A</p>` +
		headline("See_Also", "See Also") + `<p>nav</p>` +
		`</div></body></html>`

	got, err := New().Extract(2023, 21, markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantProblem := `<div class="mw-parser-output">` +
		headline("Problem", "Problem") + `<p>Q</p></div>`
	if got.Problem != wantProblem {
		t.Errorf("problem view mismatch\n got: %s\nwant: %s", got.Problem, wantProblem)
	}

	wantSolution := `<div class="mw-parser-output">` +
		headline("Solution", "Solution") + `<p>A</p></div>`
	if got.Solution != wantSolution {
		t.Errorf("solution view mismatch\n got: %s\nwant: %s", got.Solution, wantSolution)
	}
}

// TestExtractPlaceholderAfterTOC tests that the child at position 1 is
// dropped from the problem view when a table of contents was removed.
func TestExtractPlaceholderAfterTOC(t *testing.T) {
	t.Parallel()

	markup := `<div class="mw-parser-output">` +
		`<div id="toc"><h2>Contents</h2></div>` +
		`<p>lead</p><p><br></p>` +
		headline("Problem", "Problem") + `<p>Q</p>` +
		headline("Solution", "Solution") + `<p>A</p>` +
		`</div>`

	e := New()
	fragment, err := Prepare(markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fragment.HasTOC() {
		t.Fatal("expected table of contents to be detected")
	}

	problem, err := e.Partition(fragment, model.ModeProblem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="mw-parser-output"><p>lead</p>` +
		headline("Problem", "Problem") + `<p>Q</p></div>`
	if problem != want {
		t.Errorf("problem view mismatch\n got: %s\nwant: %s", problem, want)
	}

	solution, err := e.Partition(fragment, model.ModeSolution)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = `<div class="mw-parser-output">` + headline("Solution", "Solution") + `<p>A</p></div>`
	if solution != want {
		t.Errorf("solution view mismatch\n got: %s\nwant: %s", solution, want)
	}
}

// TestExtractWithoutSeeAlso tests that the solution view runs to the end of
// the container when there is no "See also" section.
func TestExtractWithoutSeeAlso(t *testing.T) {
	t.Parallel()

	markup := `<div class="mw-parser-output"><p>intro</p>` +
		headline("Problem", "Problem") + `<p>Q</p>` +
		headline("Solution", "Solution") + `<p>A</p><p>B</p></div>`

	got, err := New().Extract(2023, 22, markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<div class="mw-parser-output">` + headline("Solution", "Solution") + `<p>A</p><p>B</p></div>`
	if got.Solution != want {
		t.Errorf("solution view mismatch\n got: %s\nwant: %s", got.Solution, want)
	}
}

// TestExtractAnchorStrategies tests the ranked solution anchor lookup.
func TestExtractAnchorStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		markup       string
		wantSolution []string
		notSolution  []string
	}{
		{
			name: "numbered solution id",
			markup: `<div class="mw-parser-output"><p>intro</p>` +
				headline("Problem", "Problem") + `<p>Q</p>` +
				headline("Solution_1", "Solution 1") + `<p>first</p>` +
				headline("Solution_2", "Solution 2") + `<p>second</p>` +
				headline("See_Also", "See Also") + `<p>nav</p></div>`,
			wantSolution: []string{"Solution 1", "first", "Solution 2", "second"},
			notSolution:  []string{"Q", "nav"},
		},
		{
			name: "plain id outranks numbered id",
			markup: `<div class="mw-parser-output"><p>intro</p>` +
				headline("Problem", "Problem") + `<p>Q</p>` +
				headline("Solution_1", "Solution 1") + `<p>first</p>` +
				headline("Solution", "Solution") + `<p>main</p></div>`,
			wantSolution: []string{"main"},
			notSolution:  []string{"first"},
		},
		{
			name:         "second heading marker fallback",
			markup:       readFixture(t, "fallback.html"),
			wantSolution: []string{"Solution (Algebra)", "common denominator", "Plug in each choice"},
			notSolution:  []string{"Which of the following", "Navigation box"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := New().Extract(2021, 7, tt.markup)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, s := range tt.wantSolution {
				if !strings.Contains(got.Solution, s) {
					t.Errorf("solution view should contain %q, got %s", s, got.Solution)
				}
			}
			for _, s := range tt.notSolution {
				if strings.Contains(got.Solution, s) {
					t.Errorf("solution view should not contain %q, got %s", s, got.Solution)
				}
			}
		})
	}
}

// TestExtractFallbackProblemView tests the problem view of a page located
// through the heading marker fallback.
func TestExtractFallbackProblemView(t *testing.T) {
	t.Parallel()

	got, err := New().Extract(2021, 7, readFixture(t, "fallback.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.Problem, "Which of the following") {
		t.Errorf("problem view should contain the statement, got %s", got.Problem)
	}
	for _, s := range []string{"<br/>", "common denominator", "Navigation box"} {
		if strings.Contains(got.Problem, s) {
			t.Errorf("problem view should not contain %q, got %s", s, got.Problem)
		}
	}
}

// TestExtractCustomStrategies tests WithAnchorStrategies.
func TestExtractCustomStrategies(t *testing.T) {
	t.Parallel()

	markup := `<div class="mw-parser-output"><p>intro</p>` +
		`<h3><span class="title">Problem</span></h3><p>Q</p>` +
		`<h3><span class="title">Answer</span></h3><p>A</p></div>`

	e := New(WithAnchorStrategies(PositionStrategy("span.title", 1)))
	got, err := e.Extract(2023, 25, markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantProblem := `<div class="mw-parser-output"><h3><span class="title">Problem</span></h3><p>Q</p></div>`
	if got.Problem != wantProblem {
		t.Errorf("problem view mismatch\n got: %s\nwant: %s", got.Problem, wantProblem)
	}
	wantSolution := `<div class="mw-parser-output"><h3><span class="title">Answer</span></h3><p>A</p></div>`
	if got.Solution != wantSolution {
		t.Errorf("solution view mismatch\n got: %s\nwant: %s", got.Solution, wantSolution)
	}
}

// TestExtractErrors tests the structural extraction errors.
func TestExtractErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		markup  string
		wantErr error
	}{
		{
			name:    "missing container",
			markup:  readFixture(t, "no_container.html"),
			wantErr: ErrContainerNotFound,
		},
		{
			name:    "empty page",
			markup:  "",
			wantErr: ErrContainerNotFound,
		},
		{
			name: "no solution anchor",
			markup: `<div class="mw-parser-output">` +
				headline("Problem", "Problem") + `<p>Q</p></div>`,
			wantErr: ErrSolutionAnchorNotFound,
		},
		{
			name:    "anchor wrapper is the fragment root",
			markup:  `<div class="mw-parser-output" id="Solution"><p>A</p></div>`,
			wantErr: ErrNoParent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New().Extract(2003, 23, tt.markup)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestPartitionIdempotent tests that partitioning does not modify the
// prepared fragment and yields identical results when repeated.
func TestPartitionIdempotent(t *testing.T) {
	t.Parallel()

	fragment, err := Prepare(readFixture(t, "p23.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, err := fragment.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := New()
	for _, mode := range []model.Mode{model.ModeProblem, model.ModeSolution} {
		first, err := e.Partition(fragment, mode)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := e.Partition(fragment, mode)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Errorf("%s view differs between calls", mode)
		}
	}

	after, err := fragment.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != after {
		t.Error("partition modified the prepared fragment")
	}
}

// TestExtractIdempotent tests that extracting the same page twice yields
// identical results.
func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	markup := readFixture(t, "p23.html")
	e := New()

	first, err := e.Extract(2003, 23, markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Extract(2003, 23, markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("repeated extraction produced different results")
	}
}

// TestPrepare tests container detachment and table of contents removal.
func TestPrepare(t *testing.T) {
	t.Parallel()

	t.Run("with table of contents", func(t *testing.T) {
		t.Parallel()

		fragment, err := Prepare(readFixture(t, "p23.html"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fragment.HasTOC() {
			t.Error("expected table of contents to be detected")
		}
		got, err := fragment.HTML()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(got, `id="toc"`) {
			t.Error("table of contents should be removed")
		}
		if strings.Contains(got, "firstHeading") || strings.Contains(got, "printfooter") {
			t.Error("content outside the container should not be kept")
		}
	})

	t.Run("without table of contents", func(t *testing.T) {
		t.Parallel()

		fragment, err := Prepare(readFixture(t, "fallback.html"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fragment.HasTOC() {
			t.Error("expected no table of contents")
		}
	})
}

// TestExtractPage tests extraction together with stylesheet collection.
func TestExtractPage(t *testing.T) {
	t.Parallel()

	page := model.FetchedPage{
		Year:   2003,
		Number: 23,
		URL:    "https://artofproblemsolving.com/wiki/index.php/2003_AMC_8_Problems/Problem_23",
		Markup: readFixture(t, "p23.html"),
	}

	problem, styles, err := New().ExtractPage(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem.Year != 2003 || problem.Number != 23 {
		t.Errorf("expected 2003/23, got %d/%d", problem.Year, problem.Number)
	}
	if len(styles) != 2 {
		t.Errorf("expected 2 stylesheets, got %v", styles)
	}

	_, _, err = New().ExtractPage(model.FetchedPage{Year: 2003, Number: 24})
	if !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("expected ErrContainerNotFound, got %v", err)
	}
}

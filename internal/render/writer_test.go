package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/nao1215/aopsharvest/internal/model"
)

// createTestResult creates a result with two years of sample data.
func createTestResult() *model.AggregateResult {
	result := model.NewAggregateResult(model.VariantAMC8)
	result.SeedStylesheets([]string{"/wiki/skins/monobook/main.css", "https://example.com/site.css"})

	for _, year := range []int{2004, 2003} {
		group := model.NewYearGroup(year)
		for _, n := range []int{22, 21} {
			group.Add(model.ExtractedProblem{
				Year:     year,
				Number:   n,
				Problem:  `<div class="mw-parser-output"><p>question ` + strconv.Itoa(year) + "-" + strconv.Itoa(n) + `</p></div>`,
				Solution: `<div class="mw-parser-output"><p>answer ` + strconv.Itoa(year) + "-" + strconv.Itoa(n) + `</p></div>`,
			})
		}
		result.AddGroup(*group)
	}

	return result
}

// TestHTMLWriterRepeatedYear tests that a year harvested twice keeps
// every element id unique.
func TestHTMLWriterRepeatedYear(t *testing.T) {
	t.Parallel()

	result := model.NewAggregateResult(model.VariantAMC8)
	for range 3 {
		group := model.NewYearGroup(2003)
		group.Add(model.ExtractedProblem{Year: 2003, Number: 21, Problem: "<p>q</p>", Solution: "<p>a</p>"})
		result.AddGroup(*group)
	}

	var buf bytes.Buffer
	if err := RenderProblems(&buf, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	for _, id := range []string{
		"year-2003", "year-2003-2", "year-2003-3",
		"problem-2003-21", "problem-2003-21-2", "problem-2003-21-3",
	} {
		if got := strings.Count(output, `id="`+id+`"`); got != 1 {
			t.Errorf("expected id %q exactly once, found %d", id, got)
		}
	}
}

// TestHTMLWriter tests rendering of both views.
func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	t.Run("problem view", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := RenderProblems(&buf, createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()

		mustContain := []string{
			"<title>AMC 8 Problems</title>",
			`<link rel="stylesheet" href="/wiki/skins/monobook/main.css">`,
			`<link rel="stylesheet" href="https://example.com/site.css">`,
			`<section class="year" id="year-2004">`,
			`<p>question 2004-21</p>`,
			`https://artofproblemsolving.com/wiki/index.php/2003_AMC_8_Problems/Problem_22`,
		}
		for _, s := range mustContain {
			if !strings.Contains(output, s) {
				t.Errorf("expected output to contain %q", s)
			}
		}
		if strings.Contains(output, "answer") {
			t.Error("problem view should not contain solutions")
		}
	})

	t.Run("solution view", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := RenderSolutions(&buf, createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()

		if !strings.Contains(output, "<title>AMC 8 Solutions</title>") {
			t.Error("expected solutions title")
		}
		if !strings.Contains(output, "<p>answer 2003-22</p>") {
			t.Error("expected solution fragment to be inserted unescaped")
		}
		if strings.Contains(output, "question") {
			t.Error("solution view should not contain problems")
		}
	})

	t.Run("keeps group and problem order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := RenderProblems(&buf, createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()

		order := []string{"question 2004-21", "question 2004-22", "question 2003-21", "question 2003-22"}
		last := -1
		for _, s := range order {
			i := strings.Index(output, s)
			if i <= last {
				t.Fatalf("expected %q after previous entries", s)
			}
			last = i
		}
	})

	t.Run("custom source base", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := RenderProblems(&buf, createTestResult(), WithSourceBaseURL("http://localhost:8080/wiki"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "http://localhost:8080/wiki/2004_AMC_8_Problems/Problem_21") {
			t.Error("expected source links to use the custom base")
		}
	})

	t.Run("does not modify the result mode", func(t *testing.T) {
		t.Parallel()

		result := createTestResult()
		if err := RenderSolutions(&bytes.Buffer{}, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Mode != model.ModeProblem {
			t.Errorf("expected mode to stay problem, got %s", result.Mode)
		}
	})

	t.Run("reports written bytes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewHTMLWriter(&buf).Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}
	})
}

// TestTitle tests document titles.
func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		variant model.Variant
		mode    model.Mode
		want    string
	}{
		{model.VariantAMC8, model.ModeProblem, "AMC 8 Problems"},
		{model.VariantAMC10A, model.ModeSolution, "AMC 10A Solutions"},
		{model.VariantUnknown, model.ModeSolution, "Solutions"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := Title(tt.variant, tt.mode); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestMarkdownWriter tests the Markdown summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()

		mustContain := []string{
			"# Harvest Summary",
			"AMC 8",
			"## Years",
			"2004",
			"21, 22",
			"mermaid",
			"## Stylesheets",
			"/wiki/skins/monobook/main.css",
		}
		for _, s := range mustContain {
			if !strings.Contains(output, s) {
				t.Errorf("expected output to contain %q", s)
			}
		}
		if strings.Contains(output, "question") {
			t.Error("summary should not contain fragments")
		}
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewAggregateResult(model.VariantAMC10B)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()

		if !strings.Contains(output, "No years harvested.") {
			t.Error("expected empty years notice")
		}
		if !strings.Contains(output, "No stylesheets were found") {
			t.Error("expected empty stylesheet note")
		}
	})
}

// TestJSONWriter tests JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("v1.0.0")).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc JSONDocument
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Version != "v1.0.0" {
			t.Errorf("expected version v1.0.0, got %q", doc.Version)
		}
		if doc.ProblemCount != 4 {
			t.Errorf("expected 4 problems, got %d", doc.ProblemCount)
		}
		if doc.Result == nil || len(doc.Result.Groups) != 2 || doc.Result.Groups[0].Year != 2004 {
			t.Fatalf("unexpected result %+v", doc.Result)
		}
		if doc.Result.Groups[1].Problems[0].Solution != `<div class="mw-parser-output"><p>answer 2003-21</p></div>` {
			t.Errorf("unexpected solution %q", doc.Result.Groups[1].Problems[0].Solution)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("compact output should be a single line")
		}
	})

	t.Run("pretty output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"problem_count\": 4") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
		if strings.Contains(buf.String(), `"version"`) {
			t.Error("empty version should be omitted")
		}
	})
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write(*model.AggregateResult) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests composed writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var md, js bytes.Buffer
		n, err := NewMultiWriter(NewMarkdownWriter(&md), NewJSONWriter(&js)).Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if md.Len() == 0 || js.Len() == 0 {
			t.Error("expected output from both writers")
		}
		if n == 0 {
			t.Error("expected non-zero byte count")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var js bytes.Buffer
		_, err := NewMultiWriter(failingWriter{}, NewJSONWriter(&js)).Write(createTestResult())
		if err == nil {
			t.Fatal("expected error")
		}
		if js.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

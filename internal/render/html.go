package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/aopsharvest/internal/fetcher"
	"github.com/nao1215/aopsharvest/internal/model"
)

//go:embed templates/document.html.tmpl
var templateFS embed.FS

// documentTemplate renders one view of a harvest as a standalone page.
var documentTemplate = template.Must(
	template.New("document.html.tmpl").ParseFS(templateFS, "templates/document.html.tmpl"),
)

// titleCaser capitalizes view names in headings.
var titleCaser = cases.Title(language.English)

// HTMLWriter writes one view of a result as an HTML document.
// The view is selected by the result's mode.
//
// Fragments are wiki markup that the extractor already parsed and
// re-serialized, so they are inserted without escaping.
type HTMLWriter struct {
	baseWriter

	// baseURL is used for the source link of each problem.
	baseURL string
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithSourceBaseURL sets the wiki base URL used for source links.
func WithSourceBaseURL(baseURL string) HTMLWriterOption {
	return func(w *HTMLWriter) {
		if baseURL != "" {
			w.baseURL = baseURL
		}
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
		baseURL:    fetcher.DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// document is the template input.
type document struct {
	Title       string
	Stylesheets []string
	Groups      []documentGroup
}

type documentGroup struct {
	ID       string
	Year     int
	Articles []documentArticle
}

type documentArticle struct {
	ID      string
	Heading string
	Source  string
	Content template.HTML
}

// Write renders the view selected by result.Mode.
func (w *HTMLWriter) Write(result *model.AggregateResult) (int, error) {
	doc := document{
		Title:       Title(result.Variant, result.Mode),
		Stylesheets: result.Stylesheets,
		Groups:      make([]documentGroup, 0, len(result.Groups)),
	}

	// A year harvested more than once gets its occurrence appended to
	// every id after the first, keeping ids unique.
	occurrences := make(map[int]int, len(result.Groups))
	for _, group := range result.Groups {
		occurrences[group.Year]++
		suffix := ""
		if n := occurrences[group.Year]; n > 1 {
			suffix = fmt.Sprintf("-%d", n)
		}

		g := documentGroup{
			ID:       fmt.Sprintf("year-%d%s", group.Year, suffix),
			Year:     group.Year,
			Articles: make([]documentArticle, 0, len(group.Problems)),
		}
		for _, p := range group.Problems {
			g.Articles = append(g.Articles, documentArticle{
				ID:      fmt.Sprintf("problem-%d-%d%s", p.Year, p.Number, suffix),
				Heading: fmt.Sprintf("Problem %d", p.Number),
				Source:  fetcher.BuildURLWithBase(w.baseURL, p.Year, p.Number, result.Variant),
				Content: template.HTML(p.Fragment(result.Mode)), //nolint:gosec // fragments are re-serialized wiki markup
			})
		}
		doc.Groups = append(doc.Groups, g)
	}

	cw := &countingWriter{w: w.output}
	if err := documentTemplate.Execute(cw, doc); err != nil {
		return cw.n, fmt.Errorf("failed to render %s document: %w", result.Mode, err)
	}
	return cw.n, nil
}

// Title returns the document title for a variant and view,
// for example "AMC 8 Solutions".
func Title(variant model.Variant, mode model.Mode) string {
	view := titleCaser.String(mode.String() + "s")
	if !variant.IsValid() {
		return view
	}
	return strings.Join([]string{variant.DisplayName(), view}, " ")
}

// RenderProblems writes the problem view of result.
func RenderProblems(output io.Writer, result *model.AggregateResult, opts ...HTMLWriterOption) error {
	_, err := NewHTMLWriter(output, opts...).Write(result.WithMode(model.ModeProblem))
	return err
}

// RenderSolutions writes the solution view of result.
func RenderSolutions(output io.Writer, result *model.AggregateResult, opts ...HTMLWriterOption) error {
	_, err := NewHTMLWriter(output, opts...).Write(result.WithMode(model.ModeSolution))
	return err
}

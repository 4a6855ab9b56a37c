package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/aopsharvest/internal/model"
)

// MarkdownWriter outputs a summary of a harvest in Markdown format.
// It lists what was harvested, not the fragments themselves.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(result *model.AggregateResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeYears(md, result)
	w.writeStylesheets(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.AggregateResult) {
	md.H1("Harvest Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Variant", result.Variant.DisplayName()},
			{"Years", strconv.Itoa(len(result.Groups))},
			{"Problems", strconv.Itoa(result.ProblemCount())},
			{"Stylesheets", strconv.Itoa(len(result.Stylesheets))},
		},
	})
	md.PlainText("")

	if result.ProblemCount() == 0 {
		md.Warningf("No problems were harvested for %s.", result.Variant.DisplayName())
		md.PlainText("")
	}
}

// writeYears writes one row per year group and a distribution chart.
func (w *MarkdownWriter) writeYears(md *markdown.Markdown, result *model.AggregateResult) {
	md.H2("Years")
	md.PlainText("")

	if len(result.Groups) == 0 {
		md.PlainText("No years harvested.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Groups))
	for i, g := range result.Groups {
		numbers := make([]string, len(g.Problems))
		for j, p := range g.Problems {
			numbers[j] = strconv.Itoa(p.Number)
		}
		rows[i] = []string{
			strconv.Itoa(g.Year),
			strconv.Itoa(g.Len()),
			strings.Join(numbers, ", "),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Year", "Problems", "Numbers"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.Groups) > 1 {
		w.writePieChart(md, result)
	}
}

// writePieChart writes a mermaid pie chart of problems per year.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.AggregateResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Problems per Year"),
		piechart.WithShowData(true),
	)

	for _, g := range result.Groups {
		if g.Len() > 0 {
			chart.LabelAndIntValue(strconv.Itoa(g.Year), uint64(g.Len()))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeStylesheets writes the stylesheets carried into the documents.
func (w *MarkdownWriter) writeStylesheets(md *markdown.Markdown, result *model.AggregateResult) {
	md.H2("Stylesheets")
	md.PlainText("")

	if len(result.Stylesheets) == 0 {
		md.Note("No stylesheets were found; documents are rendered unstyled.")
		md.PlainText("")
		return
	}

	md.BulletList(result.Stylesheets...)
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [aopsharvest](https://github.com/nao1215/aopsharvest)*")
}

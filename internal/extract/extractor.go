package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/aopsharvest/internal/model"
)

// Selectors for the page structure.
const (
	// containerSelector matches the main content container.
	containerSelector = "div.mw-parser-output"

	// tocSelector matches the table of contents.
	tocSelector = "div#toc"
)

// Extractor splits problem pages into problem and solution fragments.
// It holds no per-page state and is safe for concurrent use.
type Extractor struct {
	// strategies are tried in order to find the solution anchor.
	strategies []AnchorStrategy

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAnchorStrategies replaces the ranked solution anchor strategies.
func WithAnchorStrategies(strategies ...AnchorStrategy) Option {
	return func(e *Extractor) {
		if len(strategies) > 0 {
			e.strategies = strategies
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Extractor using DefaultAnchorStrategies.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		strategies: DefaultAnchorStrategies(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExtractPage parses a fetched page once and returns both its extracted
// problem and its stylesheet references.
func (e *Extractor) ExtractPage(page model.FetchedPage) (model.ExtractedProblem, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Markup))
	if err != nil {
		return model.ExtractedProblem{}, nil, fmt.Errorf("failed to parse page: %w", err)
	}

	problem, err := e.extract(page.Year, page.Number, doc.Selection)
	if err != nil {
		return model.ExtractedProblem{}, nil, err
	}

	return problem, collectStylesheets(doc.Selection), nil
}

// Extract returns the problem and solution fragments of one page.
// year and number are attached to the result and used for diagnostics.
func (e *Extractor) Extract(year, number int, markup string) (model.ExtractedProblem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return model.ExtractedProblem{}, fmt.Errorf("failed to parse page: %w", err)
	}
	return e.extract(year, number, doc.Selection)
}

func (e *Extractor) extract(year, number int, doc *goquery.Selection) (model.ExtractedProblem, error) {
	fragment, err := prepare(doc)
	if err != nil {
		e.logger.Debug("page preparation failed", "year", year, "number", number, "error", err)
		return model.ExtractedProblem{}, err
	}

	problem, err := e.Partition(fragment, model.ModeProblem)
	if err != nil {
		e.logger.Debug("problem partition failed", "year", year, "number", number, "error", err)
		return model.ExtractedProblem{}, err
	}

	solution, err := e.Partition(fragment, model.ModeSolution)
	if err != nil {
		e.logger.Debug("solution partition failed", "year", year, "number", number, "error", err)
		return model.ExtractedProblem{}, err
	}

	return model.ExtractedProblem{
		Year:     year,
		Number:   number,
		Problem:  problem,
		Solution: solution,
	}, nil
}

// Prepare locates the content container in a full page, detaches it as a
// standalone fragment and removes its table of contents.
func Prepare(markup string) (*Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return prepare(doc.Selection)
}

func prepare(doc *goquery.Selection) (*Fragment, error) {
	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return nil, ErrContainerNotFound
	}

	// Re-parse the serialized container so later edits run on a tree
	// that shares no nodes with the page.
	outer, err := goquery.OuterHtml(container)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize container: %w", err)
	}
	root, err := parseFragment(outer)
	if err != nil {
		return nil, err
	}

	toc := selection(root).Find(tocSelector).First()
	hasTOC := toc.Length() > 0
	if hasTOC {
		toc.Remove()
	}

	return &Fragment{root: root, hasTOC: hasTOC}, nil
}

// Partition returns the inner HTML of the fragment restricted to one view.
//
// The children of the element holding the solution heading are walked in
// order. In the problem view everything from the solution heading onward is
// dropped; in the solution view everything before it is dropped. Both views
// drop the "See also" section and everything after it. The problem view also
// drops the child at the placeholder position (1 after a table of contents,
// 0 otherwise), which holds an empty line left behind by the page layout.
//
// The fragment itself is not modified.
func (e *Extractor) Partition(f *Fragment, mode model.Mode) (string, error) {
	root := cloneTree(f.root)
	sel := selection(root)

	anchor, strategy, ok := locateAnchor(sel, e.strategies)
	if !ok {
		return "", fmt.Errorf("%s view: %w", mode, ErrSolutionAnchorNotFound)
	}
	e.logger.Debug("solution anchor located", "strategy", strategy.Name, "mode", mode.String())

	solutionNode := anchor.Parent
	if solutionNode == nil {
		return "", fmt.Errorf("%s view: solution anchor: %w", mode, ErrNoParent)
	}

	var seeAlsoNode *html.Node
	if seeAlso := sel.Find("#" + seeAlsoID).First(); seeAlso.Length() > 0 {
		seeAlsoNode = seeAlso.Get(0).Parent
	}

	commonParent := solutionNode.Parent
	if commonParent == nil {
		return "", fmt.Errorf("%s view: solution wrapper: %w", mode, ErrNoParent)
	}

	placeholderIndex := 0
	if f.hasTOC {
		placeholderIndex = 1
	}

	toDelete := make([]*html.Node, 0)
	deleting := mode.IsSolution()
	idx := 0
	for child := commonParent.FirstChild; child != nil; child = child.NextSibling {
		marked := false
		if !mode.IsSolution() && idx == placeholderIndex {
			marked = true
		}
		if child == solutionNode {
			deleting = !mode.IsSolution()
		}
		if seeAlsoNode != nil && child == seeAlsoNode {
			deleting = true
		}
		if deleting {
			marked = true
		}
		if marked {
			toDelete = append(toDelete, child)
		}
		idx++
	}

	for _, n := range toDelete {
		n.Parent.RemoveChild(n)
	}

	return renderChildren(root)
}

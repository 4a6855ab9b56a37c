package extract

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// headingMarkerSelector matches the span MediaWiki puts inside every
// section heading.
const headingMarkerSelector = ".mw-headline"

// seeAlsoID is the anchor id of the trailing "See also" section.
const seeAlsoID = "See_Also"

// AnchorStrategy locates a candidate solution anchor.
// It selects every element matching Selector and takes the one at Position
// (0-indexed) in document order.
type AnchorStrategy struct {
	// Name identifies the strategy in logs.
	Name string

	// Selector is a CSS selector evaluated against the fragment.
	Selector string

	// Position is the 0-indexed match to take.
	Position int
}

// IDStrategy returns a strategy matching the element with the given id.
func IDStrategy(id string) AnchorStrategy {
	return AnchorStrategy{
		Name:     "id:" + id,
		Selector: "#" + id,
		Position: 0,
	}
}

// PositionStrategy returns a strategy taking the match at position of selector.
func PositionStrategy(selector string, position int) AnchorStrategy {
	return AnchorStrategy{
		Name:     selector + "[" + strconv.Itoa(position) + "]",
		Selector: selector,
		Position: position,
	}
}

// DefaultAnchorStrategies returns the ranked strategies used for wiki
// problem pages: the "Solution" id, the "Solution_1" id, then the second
// heading marker. The first heading marker is the "Problem" heading.
func DefaultAnchorStrategies() []AnchorStrategy {
	return []AnchorStrategy{
		IDStrategy("Solution"),
		IDStrategy("Solution_1"),
		PositionStrategy(headingMarkerSelector, 1),
	}
}

// Locate returns the node this strategy selects under root, or nil.
func (s AnchorStrategy) Locate(root *goquery.Selection) *html.Node {
	matches := root.Find(s.Selector)
	if s.Position < 0 || s.Position >= matches.Length() {
		return nil
	}
	return matches.Get(s.Position)
}

// locateAnchor tries strategies in order and returns the first match
// together with the strategy that produced it.
func locateAnchor(root *goquery.Selection, strategies []AnchorStrategy) (*html.Node, AnchorStrategy, bool) {
	for _, s := range strategies {
		if node := s.Locate(root); node != nil {
			return node, s, true
		}
	}
	return nil, AnchorStrategy{}, false
}

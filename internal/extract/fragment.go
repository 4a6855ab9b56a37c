package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is the content container of one page, detached from the page and
// with its table of contents removed.
// A Fragment is never modified after Prepare; Partition works on a copy.
type Fragment struct {
	// root is a synthetic <html> element whose children are the fragment.
	root *html.Node

	// hasTOC records whether a table of contents was removed.
	hasTOC bool
}

// HasTOC reports whether a table of contents was removed from the fragment.
func (f *Fragment) HasTOC() bool {
	return f.hasTOC
}

// HTML returns the serialized fragment.
func (f *Fragment) HTML() (string, error) {
	return renderChildren(f.root)
}

// parseFragment parses markup as body content and hangs the resulting
// nodes under a fresh <html> root so they form a self-contained tree.
func parseFragment(markup string) (*html.Node, error) {
	bodyContext := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}

	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "html",
		DataAtom: atom.Html,
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// cloneTree returns a deep copy of n with no parent or siblings.
func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}

// renderChildren serializes the children of n (its inner HTML).
func renderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render fragment: %w", err)
		}
	}
	return buf.String(), nil
}

// selection wraps root in a goquery selection for CSS lookups.
func selection(root *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(root).Selection
}

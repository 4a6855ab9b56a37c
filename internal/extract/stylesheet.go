package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stylesheetSelector matches external stylesheet links.
const stylesheetSelector = "link[rel=stylesheet]"

// CollectStylesheets returns the href of every stylesheet link in markup
// whose reference ends in "css", in document order.
// It never fails; unparsable markup yields an empty list.
func CollectStylesheets(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return make([]string, 0)
	}
	return collectStylesheets(doc.Selection)
}

// collectStylesheets is CollectStylesheets over an already parsed document.
func collectStylesheets(doc *goquery.Selection) []string {
	styles := make([]string, 0)
	doc.Find(stylesheetSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if ok && strings.HasSuffix(href, "css") {
			styles = append(styles, href)
		}
	})
	return styles
}

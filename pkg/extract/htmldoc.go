package extract

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// HTMLDocument is a parsed, static HTML document. It runs no scripts.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseHTML parses r as an HTML document.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// QueryAll implements Document. Invalid selectors are reported as errors
// rather than matching nothing.
func (d *HTMLDocument) QueryAll(selector string) ([]Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector: %w", err)
	}

	matches := d.doc.FindMatcher(sel)
	elements := make([]Element, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, htmlElement{s})
	})
	return elements, nil
}

// Title returns the document title, mainly for logging.
func (d *HTMLDocument) Title() string {
	return d.doc.Find("title").First().Text()
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e htmlElement) HTML() (string, error) {
	return e.sel.Html()
}

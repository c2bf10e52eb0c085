// Package parser turns a product page into a ProductRecord.
//
// Extractors only see the Document and Selection interfaces, so the HTML
// engine behind them can be replaced without touching extraction rules.
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is the query capability extractors need from a parsed page.
type Document interface {
	Find(selector string) Selection
}

// Selection is an ordered set of matched elements.
type Selection interface {
	Len() int
	First() Selection
	Each(fn func(i int, s Selection))
	Text() string
	Attr(name string) (string, bool)
}

type goqueryDocument struct {
	doc *goquery.Document
}

// NewDocument parses html with goquery.
func NewDocument(html string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &goqueryDocument{doc: doc}, nil
}

func (d *goqueryDocument) Find(selector string) Selection {
	return goquerySelection{sel: d.doc.Find(selector)}
}

type goquerySelection struct {
	sel *goquery.Selection
}

func (s goquerySelection) Len() int { return s.sel.Length() }

func (s goquerySelection) First() Selection { return goquerySelection{sel: s.sel.First()} }

func (s goquerySelection) Each(fn func(i int, s Selection)) {
	s.sel.Each(func(i int, item *goquery.Selection) {
		fn(i, goquerySelection{sel: item})
	})
}

func (s goquerySelection) Text() string { return s.sel.Text() }

func (s goquerySelection) Attr(name string) (string, bool) { return s.sel.Attr(name) }

// firstText returns the collapsed text of the first element matching selector.
func firstText(doc Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Len() == 0 {
		return ""
	}
	return CleanText(sel.Text())
}

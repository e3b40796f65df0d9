// Package static implements dom.Document over parsed HTML using goquery.
// It is used for fixtures in tests and for pages fetched over plain HTTP.
package static

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/jonathan/job-extractor/internal/dom"
)

// Document is a parsed HTML page.
type Document struct {
	doc    *goquery.Document
	url    string
	clicks []string
}

// Parse parses HTML content loaded from pageURL.
func Parse(htmlContent string, pageURL string) (*Document, error) {
	return NewDocumentFromReader(strings.NewReader(htmlContent), pageURL)
}

// NewDocumentFromReader parses HTML read from r.
func NewDocumentFromReader(r io.Reader, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc, url: pageURL}, nil
}

// URL returns the address the document was loaded from.
func (d *Document) URL() string {
	return d.url
}

// QueryOne returns the first element matching selector, or nil.
func (d *Document) QueryOne(selector string) (dom.Element, error) {
	return d.queryOne(d.doc.Selection, selector)
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	return d.queryAll(d.doc.Selection, selector)
}

// Clicks returns a description of every element clicked so far, in order.
func (d *Document) Clicks() []string {
	out := make([]string, len(d.clicks))
	copy(out, d.clicks)
	return out
}

// HTML renders the current state of the document.
func (d *Document) HTML() (string, error) {
	return goquery.OuterHtml(d.doc.Selection)
}

func compile(selector string) (cascadia.Selector, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &dom.QueryError{Selector: selector, Cause: err}
	}
	return m, nil
}

func (d *Document) queryOne(scope *goquery.Selection, selector string) (dom.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	found := scope.FindMatcher(m)
	if found.Length() == 0 {
		return nil, nil
	}
	return &Element{sel: found.First(), doc: d}, nil
}

func (d *Document) queryAll(scope *goquery.Selection, selector string) ([]dom.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	found := scope.FindMatcher(m)
	out := make([]dom.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{sel: s, doc: d})
	})
	return out, nil
}

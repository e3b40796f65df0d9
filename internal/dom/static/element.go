package static

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/job-extractor/internal/dom"
)

// Element wraps a single goquery node.
type Element struct {
	sel *goquery.Selection
	doc *Document
}

// QueryOne returns the first descendant matching selector, or nil.
func (e *Element) QueryOne(selector string) (dom.Element, error) {
	if e.detached() {
		return nil, &dom.QueryError{Selector: selector, Cause: errDetached}
	}
	return e.doc.queryOne(e.sel, selector)
}

// QueryAll returns all descendants matching selector.
func (e *Element) QueryAll(selector string) ([]dom.Element, error) {
	if e.detached() {
		return nil, &dom.QueryError{Selector: selector, Cause: errDetached}
	}
	return e.doc.queryAll(e.sel, selector)
}

// Text renders the element roughly the way a browser's innerText would.
func (e *Element) Text() string {
	if e.detached() {
		return ""
	}
	return renderText(e.sel.Get(0))
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Visible reports whether neither the element nor any ancestor is hidden or disabled.
func (e *Element) Visible() bool {
	if e.detached() {
		return false
	}
	if _, disabled := e.sel.Attr("disabled"); disabled {
		return false
	}
	for n := e.sel.Get(0); n != nil; n = n.Parent {
		if n.Type == html.ElementNode && isHidden(n) {
			return false
		}
	}
	return true
}

// Click records the activation and emulates a disclosure widget: the element is marked
// expanded and any element it names in aria-controls is un-hidden.
func (e *Element) Click() error {
	if e.detached() {
		return errDetached
	}
	e.doc.clicks = append(e.doc.clicks, describe(e.sel))
	if _, ok := e.sel.Attr("aria-expanded"); ok {
		e.sel.SetAttr("aria-expanded", "true")
	}
	controls, ok := e.sel.Attr("aria-controls")
	if !ok {
		return nil
	}
	for _, id := range strings.Fields(controls) {
		target := e.doc.doc.Find(fmt.Sprintf("[id=%q]", id))
		target.RemoveAttr("hidden")
		if style, ok := target.Attr("style"); ok && hidesElement(style) {
			target.RemoveAttr("style")
		}
	}
	return nil
}

func (e *Element) detached() bool {
	return e.sel == nil || e.sel.Length() == 0
}

func describe(s *goquery.Selection) string {
	node := s.Get(0)
	var sb strings.Builder
	sb.WriteString(node.Data)
	if id, ok := s.Attr("id"); ok && id != "" {
		sb.WriteString("#" + id)
	}
	if class, ok := s.Attr("class"); ok && class != "" {
		sb.WriteString("." + strings.Join(strings.Fields(class), "."))
	}
	return sb.String()
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case "style":
			if hidesElement(a.Val) {
				return true
			}
		case "type":
			if n.Data == "input" && strings.EqualFold(a.Val, "hidden") {
				return true
			}
		}
	}
	return false
}

func hidesElement(style string) bool {
	compact := strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden")
}

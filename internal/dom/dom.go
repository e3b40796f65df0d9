// Package dom defines the small document capability the extraction engine runs against.
// A host environment (parsed static HTML, a live headless browser tab) implements it once;
// everything above this package is host agnostic.
package dom

import "fmt"

// Querier finds elements by CSS selector.
// QueryOne returns (nil, nil) when nothing matches. An error means the query itself
// failed (malformed selector, detached node, browser failure).
type Querier interface {
	QueryOne(selector string) (Element, error)
	QueryAll(selector string) ([]Element, error)
}

// Element is a single node in the document.
type Element interface {
	Querier

	// Text returns the rendered, human visible text of the element.
	Text() string
	// Attr returns the value of the named attribute and whether it was present.
	Attr(name string) (string, bool)
	// Visible reports whether the element is currently rendered and interactable.
	Visible() bool
	// Click activates the element.
	Click() error
}

// Document is one loaded page.
type Document interface {
	Querier

	// URL is the address of the page currently loaded.
	URL() string
}

// QueryError describes a failed query against a document.
type QueryError struct {
	Selector string
	Cause    error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("query %q failed: %v", e.Selector, e.Cause)
	}
	return fmt.Sprintf("query %q failed", e.Selector)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

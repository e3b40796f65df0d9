package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-extractor/internal/dom"
)

const innerTextJS = `function() { return (this.innerText || this.textContent || "").trim(); }`

const visibleJS = `function() {
	if (this.disabled) { return false; }
	const style = window.getComputedStyle(this);
	if (style.display === "none" || style.visibility === "hidden") { return false; }
	const rect = this.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
}`

// Document is the page currently loaded in a tab.
type Document struct {
	tab *Tab
}

// URL returns the tab's current location.
func (d *Document) URL() string {
	var loc string
	if err := d.tab.run(chromedp.Location(&loc)); err != nil {
		return ""
	}
	return loc
}

// QueryOne returns the first element matching selector, or nil.
func (d *Document) QueryOne(selector string) (dom.Element, error) {
	return d.tab.queryOne(selector)
}

// QueryAll returns every element matching selector.
func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	return d.tab.queryAll(selector)
}

func (t *Tab) queryOne(selector string, opts ...chromedp.QueryOption) (dom.Element, error) {
	var nodes []*cdp.Node
	opts = append([]chromedp.QueryOption{chromedp.ByQuery, chromedp.AtLeast(0)}, opts...)
	if err := t.run(chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, &dom.QueryError{Selector: selector, Cause: err}
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &Element{tab: t, node: nodes[0]}, nil
}

func (t *Tab) queryAll(selector string, opts ...chromedp.QueryOption) ([]dom.Element, error) {
	var nodes []*cdp.Node
	opts = append([]chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}, opts...)
	if err := t.run(chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, &dom.QueryError{Selector: selector, Cause: err}
	}
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{tab: t, node: n})
	}
	return out, nil
}

// Element is a node resolved in the live page.
type Element struct {
	tab  *Tab
	node *cdp.Node
}

// QueryOne returns the first descendant matching selector, or nil.
func (e *Element) QueryOne(selector string) (dom.Element, error) {
	return e.tab.queryOne(selector, chromedp.FromNode(e.node))
}

// QueryAll returns all descendants matching selector.
func (e *Element) QueryAll(selector string) ([]dom.Element, error) {
	return e.tab.queryAll(selector, chromedp.FromNode(e.node))
}

// Text returns the element's innerText, or "" when the node can no longer be resolved.
func (e *Element) Text() string {
	var text string
	err := e.tab.run(chromedp.ActionFunc(func(ctx context.Context) error {
		return callOnNode(ctx, e.node, innerTextJS, &text)
	}))
	if err != nil {
		return ""
	}
	return text
}

// Attr returns the attribute as it was when the node was queried.
func (e *Element) Attr(name string) (string, bool) {
	attrs := e.node.Attributes
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i] == name {
			return attrs[i+1], true
		}
	}
	return "", false
}

// Visible reports whether the element is rendered with a non-empty box and not disabled.
func (e *Element) Visible() bool {
	var visible bool
	err := e.tab.run(chromedp.ActionFunc(func(ctx context.Context) error {
		return callOnNode(ctx, e.node, visibleJS, &visible)
	}))
	return err == nil && visible
}

// Click clicks the element and waits for the page to settle.
func (e *Element) Click() error {
	err := e.tab.run(chromedp.MouseClickNode(e.node))
	if err != nil {
		return &Error{Op: "click", Message: e.node.LocalName, Cause: err}
	}
	if e.tab.opts.SettleDelay > 0 {
		time.Sleep(e.tab.opts.SettleDelay)
	}
	return nil
}

// callOnNode calls a JavaScript function with the node bound to this.
func callOnNode(ctx context.Context, node *cdp.Node, function string, res any) error {
	obj, err := cdpdom.ResolveNode().WithNodeID(node.NodeID).Do(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = runtime.ReleaseObject(obj.ObjectID).Do(ctx) }()

	return chromedp.CallFunctionOn(function, res,
		func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
			return p.WithObjectID(obj.ObjectID)
		},
	).Do(ctx)
}

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/dom/browser"
	"github.com/jonathan/job-extractor/internal/dom/static"
	"github.com/jonathan/job-extractor/internal/fetch"
	"github.com/jonathan/job-extractor/internal/logging"
)

// Page is a loaded document. Close releases whatever keeps it alive.
type Page struct {
	Doc     dom.Document
	release func()
}

// NewPage wraps doc; release may be nil.
func NewPage(doc dom.Document, release func()) *Page {
	return &Page{Doc: doc, release: release}
}

// Close releases the page.
func (p *Page) Close() {
	if p.release != nil {
		p.release()
	}
}

// Loader loads a URL into a queryable document.
type Loader interface {
	Load(ctx context.Context, url string) (*Page, error)
}

// StaticLoader fetches pages over HTTP and parses them without running scripts.
type StaticLoader struct {
	fetcher *fetch.Fetcher
	logger  *zap.Logger
}

// NewStaticLoader creates a loader backed by the rate-limited fetcher.
func NewStaticLoader(fetcher *fetch.Fetcher, logger *zap.Logger) *StaticLoader {
	return &StaticLoader{fetcher: fetcher, logger: logging.OrNop(logger)}
}

// Load fetches url and parses the response body.
func (l *StaticLoader) Load(ctx context.Context, url string) (*Page, error) {
	res, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	finalURL := res.FinalURL
	if finalURL == "" {
		finalURL = url
	}
	doc, err := static.Parse(res.HTML, finalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	if fetch.ShouldUseBrowser(firstText(doc, "body")) && fetch.NeedsBrowser(fetch.DetectPlatform(url)) {
		l.logger.Warn("page looks client-rendered, consider --browser", zap.String(logging.FieldURL, url))
	}
	return NewPage(doc, nil), nil
}

func firstText(q dom.Querier, selector string) string {
	el, err := q.QueryOne(selector)
	if err != nil || el == nil {
		return ""
	}
	return el.Text()
}

// BrowserLoader opens every page in a fresh tab of a shared browser session,
// so one loader can serve several workers.
type BrowserLoader struct {
	session *browser.Session
	logger  *zap.Logger
}

// NewBrowserLoader starts a browser session. Close it when done.
func NewBrowserLoader(ctx context.Context, opts browser.Options) (*BrowserLoader, error) {
	session, err := browser.NewSession(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &BrowserLoader{session: session, logger: logging.OrNop(opts.Logger)}, nil
}

// Load navigates a new tab to url and dismisses any consent banner.
// The tab stays open until the page is closed.
func (l *BrowserLoader) Load(ctx context.Context, url string) (*Page, error) {
	tab, err := l.session.NewTab()
	if err != nil {
		return nil, err
	}
	doc, err := tab.Navigate(ctx, url)
	if err != nil {
		tab.Close()
		return nil, err
	}
	fetch.DismissConsent(doc, l.logger)
	return NewPage(doc, tab.Close), nil
}

// Close shuts the browser down.
func (l *BrowserLoader) Close() {
	l.session.Close()
}

package fetch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/dom"
	"github.com/jonathan/job-extractor/internal/dom/browser"
	"github.com/jonathan/job-extractor/internal/logging"
)

// MinContentLength is the minimum visible text length to consider an HTTP fetch usable.
// Shorter pages are most likely rendered client side and need the browser.
const MinContentLength = 500

// consentSelectors dismiss common cookie banners, including the LinkedIn guest banner.
var consentSelectors = []string{
	`button[action-type="ACCEPT"]`,
	`button[data-tracking-control-name="ga-cookie.consent.accept.v4"]`,
	`button[id*="accept"]`,
	`button[class*="accept"]`,
}

// ShouldUseBrowser returns true if the visible text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(visibleText string) bool {
	return len(strings.TrimSpace(visibleText)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, opts browser.Options) (string, error) {
	logger := logging.OrNop(opts.Logger)
	logger.Debug("starting headless browser", zap.String(logging.FieldURL, url))
	start := time.Now()

	session, err := browser.NewSession(ctx, opts)
	if err != nil {
		return "", err
	}
	defer session.Close()

	tab, err := session.NewTab()
	if err != nil {
		return "", err
	}
	defer tab.Close()

	doc, err := tab.Navigate(ctx, url)
	if err != nil {
		return "", err
	}
	DismissConsent(doc, logger)

	html, err := tab.HTML()
	if err != nil {
		return "", err
	}

	logger.Debug("rendered page",
		zap.String(logging.FieldURL, url),
		zap.Int("bytes", len(html)),
		zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	return html, nil
}

// DismissConsent clicks the first visible cookie consent button and reports whether it did.
func DismissConsent(doc dom.Querier, logger *zap.Logger) bool {
	logger = logging.OrNop(logger)
	for _, sel := range consentSelectors {
		el, err := doc.QueryOne(sel)
		if err != nil || el == nil || !el.Visible() {
			continue
		}
		if err := el.Click(); err != nil {
			logger.Debug("consent click failed", zap.String(logging.FieldSelector, sel), zap.Error(err))
			return false
		}
		logger.Debug("dismissed consent banner", zap.String(logging.FieldSelector, sel))
		return true
	}
	return false
}

// Package browser implements dom.Document on top of a live headless Chrome tab driven by chromedp.
// Requires Chrome/Chromium to be installed on the system.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/logging"
)

// Default timings for browser interaction.
const (
	DefaultNavigateTimeout = 30 * time.Second
	DefaultQueryTimeout    = 3 * time.Second
	DefaultSettleDelay     = 800 * time.Millisecond
)

// Error represents a failure while driving the browser.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("browser %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("browser %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the browser process and tab behaviour.
type Options struct {
	Headless        bool
	ExecPath        string
	UserAgent       string
	NavigateTimeout time.Duration
	QueryTimeout    time.Duration
	SettleDelay     time.Duration
	Logger          *zap.Logger
}

// DefaultOptions returns sensible defaults for a headless session.
func DefaultOptions() Options {
	return Options{
		Headless:        true,
		NavigateTimeout: DefaultNavigateTimeout,
		QueryTimeout:    DefaultQueryTimeout,
		SettleDelay:     DefaultSettleDelay,
	}
}

// Session owns one browser process. Tabs opened from it may be used from different goroutines,
// one goroutine per tab.
type Session struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	opts        Options
	logger      *zap.Logger
}

// NewSession starts a browser process.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = DefaultNavigateTimeout
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	logger := logging.OrNop(opts.Logger)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))

	// Start the browser eagerly so a missing binary surfaces here rather than on first use.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, &Error{Op: "start", Message: "failed to launch browser", Cause: err}
	}

	return &Session{
		ctx:         browserCtx,
		cancelAlloc: cancelAlloc,
		cancelCtx:   cancelCtx,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}

// NewTab opens a fresh tab in the session.
func (s *Session) NewTab() (*Tab, error) {
	tabCtx, cancel := chromedp.NewContext(s.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, &Error{Op: "tab", Message: "failed to open tab", Cause: err}
	}
	return &Tab{ctx: tabCtx, cancel: cancel, opts: s.opts, logger: s.logger}, nil
}

// Tab is a single browser tab.
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
	// page is the caller's context for the page last navigated to.
	// Queries against that page stop when it is done.
	page   context.Context
	opts   Options
	logger *zap.Logger
}

// Close closes the tab.
func (t *Tab) Close() {
	t.cancel()
}

// Navigate loads url and waits until the body is ready.
func (t *Tab) Navigate(ctx context.Context, url string) (*Document, error) {
	navCtx, cancel := context.WithTimeout(t.ctx, t.opts.NavigateTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(t.opts.SettleDelay),
	)
	if err != nil {
		return nil, &Error{Op: "navigate", Message: url, Cause: err}
	}
	t.page = ctx
	t.logger.Debug("page loaded", zap.String(logging.FieldURL, url))
	return &Document{tab: t}, nil
}

// HTML returns the rendered outer HTML of the page.
func (t *Tab) HTML() (string, error) {
	var html string
	if err := t.run(chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &Error{Op: "html", Message: "failed to read page HTML", Cause: err}
	}
	return html, nil
}

// run executes actions bounded by the query timeout and the page context.
func (t *Tab) run(actions ...chromedp.Action) error {
	if t.page != nil {
		if err := t.page.Err(); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(t.ctx, t.opts.QueryTimeout)
	defer cancel()
	if t.page != nil {
		stop := context.AfterFunc(t.page, cancel)
		defer stop()
	}
	return chromedp.Run(ctx, actions...)
}

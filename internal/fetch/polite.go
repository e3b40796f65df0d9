package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jonathan/job-extractor/internal/logging"
)

// Retry policy for throttled or failing hosts.
const (
	DefaultMaxAttempts = 3
	baseBackoff        = 500 * time.Millisecond
)

// Fetcher fetches pages with a per-host rate limit and backs off on 429 and 5xx responses.
// It is safe for concurrent use.
type Fetcher struct {
	opts        *Options
	maxAttempts int
	limit       rate.Limit
	burst       int
	logger      *zap.Logger

	mu    sync.Mutex
	hosts map[string]*hostPolicy
}

type hostPolicy struct {
	limiter *rate.Limiter

	mu          sync.Mutex
	nextAllowed time.Time
}

// NewFetcher creates a Fetcher allowing perSecond requests per host. A non-positive
// rate disables limiting.
func NewFetcher(opts *Options, perSecond float64, logger *zap.Logger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Fetcher{
		opts:        opts,
		maxAttempts: DefaultMaxAttempts,
		limit:       limit,
		burst:       1,
		logger:      logging.OrNop(logger).With(zap.String(logging.FieldComponent, "fetch")),
		hosts:       make(map[string]*hostPolicy),
	}
}

// Fetch retrieves urlStr, waiting for the host's rate limit and retrying throttled responses.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	host := hostKey(urlStr)

	var (
		result  *Result
		lastErr error
	)
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if err := f.waitForHost(ctx, host); err != nil {
			return nil, &Error{URL: urlStr, Message: "rate limit wait aborted", Cause: err}
		}

		result, lastErr = URL(ctx, urlStr, f.opts)
		if lastErr == nil {
			return result, nil
		}

		var fetchErr *Error
		if !errors.As(lastErr, &fetchErr) || !shouldBackoff(fetchErr.StatusCode) {
			return result, lastErr
		}
		f.logger.Debug("backing off",
			zap.String(logging.FieldHost, host),
			zap.Int(logging.FieldStatus, fetchErr.StatusCode),
			zap.Int("attempt", attempt+1))
		f.applyBackoff(host, attempt)
	}
	return result, lastErr
}

func (f *Fetcher) waitForHost(ctx context.Context, host string) error {
	policy := f.hostPolicy(host)
	if err := policy.waitBackoff(ctx); err != nil {
		return err
	}
	return policy.limiter.Wait(ctx)
}

func (f *Fetcher) hostPolicy(host string) *hostPolicy {
	f.mu.Lock()
	defer f.mu.Unlock()
	if policy, ok := f.hosts[host]; ok {
		return policy
	}
	policy := &hostPolicy{limiter: rate.NewLimiter(f.limit, f.burst)}
	f.hosts[host] = policy
	return policy
}

func (f *Fetcher) applyBackoff(host string, attempt int) {
	delay := baseBackoff * time.Duration(1<<attempt)
	policy := f.hostPolicy(host)
	policy.mu.Lock()
	defer policy.mu.Unlock()
	if next := time.Now().Add(delay); next.After(policy.nextAllowed) {
		policy.nextAllowed = next
	}
}

func (p *hostPolicy) waitBackoff(ctx context.Context) error {
	p.mu.Lock()
	next := p.nextAllowed
	p.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "default"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func shouldBackoff(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}

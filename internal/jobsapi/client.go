// Package jobsapi is the client for the external jobs storage REST API.
// Postings are upserted by their site-native external id.
package jobsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-extractor/internal/logging"
	"github.com/jonathan/job-extractor/internal/schemas"
	rootschemas "github.com/jonathan/job-extractor/schemas"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 15 * time.Second

// Outcome is the result of a Submit.
type Outcome string

// Submit outcomes.
const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// APIError is returned for transport failures and non-2xx responses.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("jobs api %s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ErrInvalidPosting wraps schema validation failures of an outbound posting.
var ErrInvalidPosting = errors.New("posting failed schema validation")

// Client talks to the jobs API.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid jobs API base URL %q", baseURL)
	}
	c := &Client{
		baseURL:    u,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger).With(zap.String(logging.FieldComponent, "jobsapi"))
	return c, nil
}

type jobResource struct {
	ID         resourceID `json:"id"`
	ExternalID string     `json:"external_id"`
}

type listResponse struct {
	Data []jobResource `json:"data"`
}

type itemResponse struct {
	Data jobResource `json:"data"`
}

// resourceID accepts numeric or string ids.
type resourceID string

func (r *resourceID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = resourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*r = resourceID(n.String())
	return nil
}

// Find looks a posting up by external id and returns the API's resource id.
func (c *Client) Find(ctx context.Context, externalID string) (string, bool, error) {
	q := url.Values{"external_id": {externalID}}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/jobs?"+q.Encode(), nil, &resp); err != nil {
		return "", false, err
	}
	for _, job := range resp.Data {
		if job.ExternalID == externalID {
			return string(job.ID), true, nil
		}
	}
	// An API that omits external_id from list items can only be trusted with a single match.
	if len(resp.Data) == 1 && resp.Data[0].ExternalID == "" {
		return string(resp.Data[0].ID), true, nil
	}
	return "", false, nil
}

// Submit validates the posting and creates or updates it. It returns the outcome and
// the API's resource id.
func (c *Client) Submit(ctx context.Context, p Posting) (Outcome, string, error) {
	if err := schemas.ValidateValue(rootschemas.JobPosting, p); err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrInvalidPosting, p.ExternalID, err)
	}

	id, found, err := c.Find(ctx, p.ExternalID)
	if err != nil {
		return "", "", fmt.Errorf("existence check failed: %w", err)
	}

	var resp itemResponse
	if found {
		if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(id), p, &resp); err != nil {
			return "", "", err
		}
		c.logger.Debug("posting updated", zap.String(logging.FieldJobID, p.ExternalID))
		return OutcomeUpdated, id, nil
	}

	if err := c.do(ctx, http.MethodPost, "/jobs", p, &resp); err != nil {
		return "", "", err
	}
	c.logger.Debug("posting created", zap.String(logging.FieldJobID, p.ExternalID))
	return OutcomeCreated, string(resp.Data.ID), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	target := c.baseURL.String() + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Method: method, URL: target, Message: "failed to encode body", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &APIError{Method: method, URL: target, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Method: method, URL: target, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api call",
		zap.String(logging.FieldMethod, method),
		zap.String(logging.FieldURL, target),
		zap.Int(logging.FieldStatus, resp.StatusCode),
		zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Message: "invalid JSON response", Cause: err}
	}
	return nil
}

// errorMessage pulls "message" out of a JSON error body, or returns the trimmed body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}

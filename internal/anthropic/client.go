package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production Admin API origin.
	DefaultBaseURL = "https://api.anthropic.com"

	apiVersion        = "2023-06-01"
	defaultTimeout    = 20 * time.Second
	maxErrorBodyBytes = 512
)

// ErrMissingAPIKey is returned before any network activity when the client
// was constructed without a credential.
var ErrMissingAPIKey = errors.New("anthropic: api key is required")

// StatusError reports a non-2xx upstream response. Body carries the full
// response text; Error() truncates it for logging.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("anthropic: status=%d", e.StatusCode)
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes] + "...(truncated)"
	}
	return fmt.Sprintf("anthropic: status=%d body=%s", e.StatusCode, body)
}

// Client calls the organization usage report endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API origin, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient constructs a usage report client. An empty apiKey is accepted
// here and rejected on first use, so callers can surface the configuration
// error at invocation time.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClaudeCodeReport fetches the daily analytics report for the given calendar
// date (YYYY-MM-DD), capped at limit records.
func (c *Client) ClaudeCodeReport(ctx context.Context, startingAt string, limit int) ([]DailyRecord, error) {
	query := url.Values{}
	query.Set("starting_at", startingAt)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var payload struct {
		Data []DailyRecord `json:"data"`
	}
	if errGet := c.get(ctx, "/v1/organizations/usage_report/claude_code", query, &payload); errGet != nil {
		return nil, errGet
	}
	return payload.Data, nil
}

// MessagesReport fetches the billing-style messages report for the given
// range, bucketed daily and grouped by model.
func (c *Client) MessagesReport(ctx context.Context, startingAt, endingAt time.Time) ([]MessagesBucket, error) {
	query := url.Values{}
	query.Set("starting_at", startingAt.UTC().Format(time.RFC3339))
	query.Set("ending_at", endingAt.UTC().Format(time.RFC3339))
	query.Set("bucket_width", "1d")
	query.Add("group_by[]", "model")

	var payload struct {
		Data []MessagesBucket `json:"data"`
	}
	if errGet := c.get(ctx, "/v1/organizations/usage_report/messages", query, &payload); errGet != nil {
		return nil, errGet
	}
	return payload.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if ctx == nil {
		ctx = context.Background()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if errReq != nil {
		return fmt.Errorf("anthropic: create request: %w", errReq)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, errResp := c.httpClient.Do(req)
	if errResp != nil {
		return fmt.Errorf("anthropic: request failed: %w", errResp)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, errRead := io.ReadAll(resp.Body)
	if errRead != nil {
		return fmt.Errorf("anthropic: read response: %w", errRead)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if errUnmarshal := json.Unmarshal(body, out); errUnmarshal != nil {
		return fmt.Errorf("anthropic: decode response: %w", errUnmarshal)
	}
	return nil
}

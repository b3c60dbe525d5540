// Package dispatch sends single logical requests to an external provider
// with failover across an ordered list of candidate base addresses. A
// connectivity failure advances to the next candidate; any HTTP response,
// success or not, ends the search because the endpoint was reachable and the
// error is substantive.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arnshyz/UGC/internal/fault"
)

// Response is the raw application-level outcome of one dispatched request.
// Non-2xx responses are returned to the caller unclassified so the provider
// client can apply its own taxonomy mapping.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client dispatches requests to a provider with endpoint failover.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(dc *Client) {
		dc.httpClient = c
	}
}

// WithHeader adds a header to every dispatched request. Used for the
// provider credential header.
func WithHeader(key, value string) Option {
	return func(dc *Client) {
		dc.headers[key] = value
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(dc *Client) {
		dc.logger = logger
	}
}

// NewClient creates a dispatch client. The default HTTP client timeout is
// generous because image synthesis is a single long round trip.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		headers:    make(map[string]string),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send dispatches one logical request to the target. Candidates are tried in
// target order; a connection-level failure logs a fallback attempt and moves
// on, while any received response is returned immediately and its base
// becomes the target's preferred pointer. If every candidate fails with a
// connectivity error the call fails with a NETWORK_ERROR classification
// naming the tried bases.
func (c *Client) Send(ctx context.Context, method, path string, payload any, target *Target) (*Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("dispatch: marshal payload: %w", err)
		}
	}

	candidates := target.Candidates()
	tried := make([]string, 0, len(candidates))
	var lastErr error

	for _, base := range candidates {
		url := joinURL(base, path)
		tried = append(tried, base)

		resp, err := c.doRequest(ctx, method, url, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("dispatch: context cancelled: %w", ctx.Err())
			}
			lastErr = err
			c.logger.Warn("endpoint unreachable, trying next candidate",
				slog.String("url", url),
				slog.String("error", err.Error()),
			)
			continue
		}

		target.MarkGood(base)
		return resp, nil
	}

	c.logger.Error("exhausted all dispatch candidates",
		slog.String("path", path),
		slog.Int("tried", len(tried)),
	)
	return nil, fault.Network(tried, lastErr)
}

// doRequest performs a single HTTP round trip. Any received response is
// returned as-is; only transport-level failures produce an error.
func (c *Client) doRequest(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func joinURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

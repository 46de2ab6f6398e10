// Package base provides the HTTP transport for the MediaWiki action API.
package base

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
	"github.com/olgasafonova/mediawiki-mcp-server/metrics"
	"github.com/olgasafonova/mediawiki-mcp-server/tracing"
)

const (
	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024

	// maxErrorBody bounds how much of a non-2xx body ends up in an error message.
	maxErrorBody = 200
)

// Client issues GET and POST requests against a single api.php endpoint.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger

	endpoint  string
	userAgent string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.HTTPClient = c
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(client *Client) {
		client.Logger = l
	}
}

// NewClient creates a transport bound to cfg's endpoint.
func NewClient(cfg *Config, opts ...ClientOption) *Client {
	c := &Client{
		HTTPClient: newHTTPClient(cfg.Timeout),
		Logger:     slog.Default(),
		endpoint:   cfg.Endpoint(),
		userAgent:  cfg.UserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the api.php URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Get sends params as a query string and returns the response body.
func (c *Client) Get(ctx context.Context, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, params)
}

// Post sends params as a form-encoded body and returns the response body.
func (c *Client) Post(ctx context.Context, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodPost, params)
}

// BuildURL returns the GET URL for params. format=json is always added.
func (c *Client) BuildURL(params url.Values) string {
	return c.endpoint + "?" + withFormat(params).Encode()
}

func (c *Client) do(ctx context.Context, method string, params url.Values) ([]byte, error) {
	action := params.Get("action")

	ctx, span := tracing.StartAPISpan(ctx, action, method, pageParam(params))
	defer span.End()

	start := time.Now()
	body, err := c.send(ctx, method, params)
	duration := time.Since(start).Seconds()

	metrics.RecordAPICall(action, method, duration, err == nil, apierrors.Code(err))
	tracing.EndAPICall(span, err)
	if err != nil {
		c.Logger.Warn("Wiki API request failed",
			"action", action,
			"method", method,
			"error", err)
		return nil, err
	}

	return body, nil
}

func (c *Client) send(ctx context.Context, method string, params url.Values) ([]byte, error) {
	var (
		req *http.Request
		err error
	)
	switch method {
	case http.MethodPost:
		req, err = http.NewRequestWithContext(ctx, method, c.endpoint, strings.NewReader(withFormat(params).Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		req, err = http.NewRequestWithContext(ctx, method, c.BuildURL(params), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readAndClose(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierrors.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}

	return body, nil
}

// pageParam returns the page title a request targets, if any.
func pageParam(params url.Values) string {
	if t := params.Get("title"); t != "" {
		return t
	}
	return params.Get("titles")
}

// withFormat returns a copy of params with format=json set.
func withFormat(params url.Values) url.Values {
	out := make(url.Values, len(params)+1)
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	out.Set("format", "json")
	return out
}

// readAndClose reads the response body with a size limit and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return body, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// newHTTPClient creates an HTTP client with connection reuse tuned for a single host
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     120 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

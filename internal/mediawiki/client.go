// Package mediawiki adapts MediaWiki action API responses into uniform tool
// results. Read operations issue one query; writes acquire a fresh CSRF
// token and then submit the change.
package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/olgasafonova/mediawiki-mcp-server/internal/base"
	apierrors "github.com/olgasafonova/mediawiki-mcp-server/internal/errors"
	"github.com/olgasafonova/mediawiki-mcp-server/metrics"
)

// Limits applied to caller-supplied result counts.
const (
	DefaultRecentChangesLimit = 10
	MaxRecentChangesLimit     = 100
	DefaultListPagesLimit     = 50
	MaxListPagesLimit         = 500

	// SearchLimit is the fixed number of hits requested per search.
	SearchLimit = 20
)

// Transport is the subset of base.Client the normalizer needs.
type Transport interface {
	Get(ctx context.Context, params url.Values) ([]byte, error)
	Post(ctx context.Context, params url.Values) ([]byte, error)
}

// Client provides access to a single wiki's action API
type Client struct {
	transport Transport
	logger    *slog.Logger
}

// ClientOption configures the underlying transport. Callers configure the
// HTTP client and logger without importing internal/base.
type ClientOption = base.ClientOption

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return base.WithHTTPClient(c)
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return base.WithLogger(l)
}

// NewClient creates a client for the wiki described by cfg
func NewClient(cfg *base.Config, opts ...ClientOption) *Client {
	transport := base.NewClient(cfg, opts...)
	return &Client{
		transport: transport,
		logger:    transport.Logger,
	}
}

// NewClientWithTransport creates a client on top of an existing transport
func NewClientWithTransport(t Transport, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{transport: t, logger: logger}
}

// query issues a GET and decodes the response into out.
func (c *Client) query(ctx context.Context, params url.Values, out any) error {
	body, err := c.transport.Get(ctx, params)
	if err != nil {
		return err
	}
	return c.decode(params, body, out)
}

// submit issues a form POST and decodes the response into out.
func (c *Client) submit(ctx context.Context, params url.Values, out any) error {
	body, err := c.transport.Post(ctx, params)
	if err != nil {
		return err
	}
	return c.decode(params, body, out)
}

// decode wraps decodeResponse, counting upstream error objects per action.
func (c *Client) decode(params url.Values, body []byte, out any) error {
	err := decodeResponse(body, out)
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		metrics.RecordAPIError(params.Get("action"), apiErr.Code)
		c.logger.Warn("Wiki API returned error",
			"action", params.Get("action"),
			"code", apiErr.Code,
			"info", apiErr.Info)
	}
	return err
}

// decodeResponse parses body into out after checking for an api.php error
// object.
func decodeResponse(body []byte, out any) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Error != nil {
		return &apierrors.APIError{Code: envelope.Error.Code, Info: envelope.Error.Info}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// normalizeLimit ensures limit is within bounds
func normalizeLimit(limit, defaultVal, maxVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit > maxVal {
		return maxVal
	}
	return limit
}

func invalidResponse(detail string) error {
	return apierrors.NewResponseError(apierrors.MsgInvalidResponse, detail)
}

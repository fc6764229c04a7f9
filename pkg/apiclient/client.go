package apiclient

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

	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/metrics"
)

const errorBodyReadLimit int64 = 64 * 1024

var errBaseURLRequired = errors.New("inventory api base url is required")

// Client issues JSON requests against the inventory REST backend.
// Failed requests are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *logger.Logger
	metrics    *metrics.ClientMetrics
	timeout    time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logger = logg
		}
	}
}

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTimeout bounds each request. Zero leaves the caller's context in charge.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient builds a client rooted at baseURL, e.g. "http://127.0.0.1:5000".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	client := &Client{
		httpClient: &http.Client{},
		baseURL:    parsed,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends body (when non-nil) as JSON and decodes a successful response into out
// (when non-nil). Non-2xx responses return *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Raw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s %s response", method, path))
	}
	return nil
}

// Raw performs the request and returns the undecoded success body, which is
// empty for 204 responses.
func (c *Client) Raw(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory api client not configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resource := resourceOf(path)
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(method, resource, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(method, resource, 0)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() { _ = resp.Body.Close() }()

	logCtx := c.logger.WithFields(ctx, map[string]any{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncFailure(method, resource, resp.StatusCode)
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		statusErr := newStatusError(resp.StatusCode, payload)
		c.logger.Warn(logCtx, "inventory api request failed")
		return nil, statusErr
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s %s response", method, path))
	}
	c.logger.Debug(logCtx, "inventory api request")

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	return json.RawMessage(payload), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s %s body", method, path))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s %s request", method, path))
	}
	req.Header.Set("Accept", "application/json")
	if id := requestIDFrom(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) buildURL(path string) string {
	target := *c.baseURL
	rel, query, _ := strings.Cut(path, "?")
	target.Path = c.baseURL.Path + "/" + strings.TrimLeft(rel, "/")
	target.RawQuery = query
	return target.String()
}

// resourceOf keeps metric label cardinality bounded to the resource family.
func resourceOf(path string) string {
	trimmed := strings.Trim(path, "/")
	if idx := strings.IndexAny(trimmed, "/?"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

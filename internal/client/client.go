// Package client talks to the storefront API. It implements the catalog
// source and cart store interfaces over HTTP so that the CLI can run the
// same cart service as the server.
package client

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

	"github.com/shopcraft/storefront/internal/domain/shared"
	"github.com/shopcraft/storefront/internal/interfaces/http/dto"
)

const defaultTimeout = 10 * time.Second

// TokenFunc returns the bearer token to send, or "" for anonymous calls.
type TokenFunc func() string

// Client is a JSON client for the /api/v1 endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      TokenFunc
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithToken sets the token source consulted on every request.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) {
		c.token = fn
	}
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/api/v1/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    u,
		token:      func() string { return "" },
		userAgent:  "shopcli/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

// do sends one request and decodes the data member of the response into
// out. Transport failures and 5xx answers are reported as
// shared.ErrBackingStoreUnavailable; other API errors become the matching
// domain error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := c.baseURL.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return shared.ErrBackingStoreUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.ErrBackingStoreUnavailable.Wrap(fmt.Errorf("reading response body: %w", err))
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < http.StatusInternalServerError {
			return fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest || (len(raw) > 0 && !env.Success) {
		return apiError(resp.StatusCode, env.Error)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

// apiError maps an API error back onto the domain sentinels.
func apiError(status int, info *dto.ErrorInfo) error {
	code, message := "", http.StatusText(status)
	if info != nil {
		code = info.Code
		if info.Message != "" {
			message = info.Message
		}
	}

	var base *shared.DomainError
	switch {
	case code == dto.ErrCodeOutOfStock:
		base = shared.ErrOutOfStock
	case code == dto.ErrCodeAlreadyExists || status == http.StatusConflict:
		base = shared.ErrAlreadyExists
	case status == http.StatusNotFound:
		base = shared.ErrNotFound
	case status == http.StatusUnauthorized:
		base = shared.ErrUnauthorized
	case status == http.StatusBadRequest, status == http.StatusRequestEntityTooLarge:
		base = shared.ErrInvalidInput
	case status >= http.StatusInternalServerError, status == http.StatusTooManyRequests:
		return shared.ErrBackingStoreUnavailable.Wrap(fmt.Errorf("server answered %d: %s", status, message))
	default:
		return fmt.Errorf("unexpected response %d: %s", status, message)
	}
	return base.WithMessage(message)
}

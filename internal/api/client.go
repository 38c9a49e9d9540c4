// Package api is the client for the finance backend's REST endpoints.
//
// Every call is a single request: there are no retries here. Failures are
// mapped onto the common error taxonomy so callers can branch on
// common.ErrAuthRequired, *common.NetworkError and *common.ServerError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/service"
	"github.com/google/uuid"
)

// RequestIDHeader carries a fresh id on every request for log correlation.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a single request when no option overrides it.
const DefaultTimeout = 15 * time.Second

const maxErrorBody = 4 << 10

var _ service.Gateway = (*Client)(nil)

// Client talks to the backend over HTTP, keeping the session cookie in a jar.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *cookiejar.Jar
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport replaces the HTTP transport, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid backend URL %q", common.ErrInvalidConfig, baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		jar:     jar,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// do sends one request and decodes a 2xx JSON body into out when out is
// non-nil. It returns the status code alongside any mapped error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	target := c.endpoint(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return 0, &common.NetworkError{Method: method, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serverErr := &common.ServerError{Status: resp.StatusCode, Message: errorMessage(raw)}
		if resp.StatusCode == http.StatusUnauthorized {
			// Keep the server's text: a failed login is a 401 too.
			return resp.StatusCode, fmt.Errorf("%s %s: %w: %w", method, path, common.ErrAuthRequired, serverErr)
		}
		return resp.StatusCode, serverErr
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return resp.StatusCode, &common.ServerError{Status: resp.StatusCode, Message: "empty response body"}
		}
		return resp.StatusCode, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, nil
}

// errorMessage pulls the human message out of an error body. JSON bodies
// carry it in "message" or "detail"; anything else is returned trimmed.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, msg := range []string{body.Message, body.Detail, body.Error} {
			if msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(raw))
}

// Post sends body to path and decodes the JSON reply into out. It serves
// services that share the backend's conventions but not its endpoints.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPost, path, body, out)
	return err
}

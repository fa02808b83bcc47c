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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetries      = 3
	defaultInitialDelay = 250 * time.Millisecond
)

// Client talks to the site API. baseURL is the API root, for example
// "https://example.com/api".
type Client struct {
	baseURL      string
	httpClient   *http.Client
	session      Session
	cache        *Cache
	retries      int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	logger       zerolog.Logger

	// OnUnauthorized runs after a 401 from an admin endpoint has cleared
	// the session
	OnUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries sets how many times a failed GET is retried and the first
// backoff delay, which doubles on every attempt
func WithRetries(retries int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.initialDelay = initialDelay
	}
}

// WithCache caches public reads; every successful write through this client
// invalidates the matching public entries
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) { c.OnUnauthorized = hook }
}

func New(baseURL string, session Session, opts ...Option) *Client {
	if session == nil {
		session = NewMemorySession()
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		session:      session,
		retries:      defaultRetries,
		initialDelay: defaultInitialDelay,
		sleep:        sleepContext,
		logger:       log.With().Str("component", "apiClient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() Session {
	return c.session
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Field   string `json:"field"`
		Details string `json:"details"`
	} `json:"error"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// getJSON performs a GET and decodes the envelope data into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

// sendJSON encodes in as the request body
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	req := request{method: method, path: path}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		req.body = body
		req.contentType = "application/json"
	}
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := c.initialDelay * time.Duration(1<<(attempt-2))
			c.logger.Debug().Str("path", req.path).Int("attempt", attempt).Dur("delay", delay).Msg("Retrying request")
			if err := c.sleep(ctx, delay); err != nil {
				return err
			}
		}

		retry, err := c.attempt(ctx, req, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

// attempt sends one request and reports whether a failure may be retried:
// network errors and 5xx responses are, everything else is not
func (c *Client) attempt(ctx context.Context, req request, out any) (bool, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest || (decodeErr == nil && !env.Success) {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Field = env.Error.Field
			apiErr.Details = env.Error.Details
		}
		if resp.StatusCode == http.StatusUnauthorized && strings.HasPrefix(req.path, "/admin/") {
			c.handleUnauthorized()
		}
		return resp.StatusCode >= http.StatusInternalServerError, apiErr
	}
	if decodeErr != nil {
		return false, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if req.method != http.MethodGet {
		c.invalidate(req.path)
	}
	if out == nil || len(env.Data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("failed to decode response data: %w", err)
	}
	return false, nil
}

func (c *Client) handleUnauthorized() {
	if err := c.session.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear session")
	}
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// invalidate drops cached public reads affected by a write to path
func (c *Client) invalidate(path string) {
	if c.cache == nil {
		return
	}
	for _, prefix := range publicPrefixes(path) {
		c.cache.Invalidate(prefix)
	}
}

// publicPrefixes maps an admin path to the public cache keys it feeds.
// Relations cut across entities, so projects and services also clear blog
// and team entries.
func publicPrefixes(path string) []string {
	rest, ok := strings.CutPrefix(path, "/admin/")
	if !ok {
		return nil
	}
	switch {
	case strings.HasPrefix(rest, "projects"):
		return []string{"/content/projects", "/blog/"}
	case strings.HasPrefix(rest, "services"):
		return []string{"/content/services", "/content/projects", "/blog/", "/team"}
	case strings.HasPrefix(rest, "clients"):
		return []string{"/content/clients"}
	case strings.HasPrefix(rest, "blog/"):
		return []string{"/blog/"}
	case strings.HasPrefix(rest, "team"):
		return []string{"/team"}
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return []string{"/" + rest}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var errNoSession = errors.New("not logged in")

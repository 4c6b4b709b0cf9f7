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
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds every request at the transport level. The session
// layer above has no timeout policy of its own.
const DefaultTimeout = 15 * time.Second

var (
	// ErrNetworkUnavailable wraps transport failures: the request never
	// produced an HTTP response.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrMalformedResponse marks a success response missing required
	// fields. It must never be accepted as a valid session.
	ErrMalformedResponse = errors.New("malformed server response")
	// ErrInvalidCredentials marks an HTTP 401 from the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// APIError is a non-2xx response preserved for callers: status code plus
// the server's error field when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: http %d", e.StatusCode)
	}
	return fmt.Sprintf("api: http %d: %s", e.StatusCode, e.Message)
}

// Config describes the shared client. BaseURL is required.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// InstallID is this device's stable identifier, sent as X-Install-ID
	// on every request. Optional.
	InstallID string
	// HTTPClient overrides the underlying transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the process-wide API client. The header map is the one piece
// of shared mutable state: the session manager is its single writer, every
// request is a reader. A mutex covers the gap the original single-threaded
// runtime never had to close.
type Client struct {
	base      *url.URL
	http      *http.Client
	logger    *slog.Logger
	installID string

	mu      sync.RWMutex
	headers map[string]string
	latency func(route string, d time.Duration)
}

// New builds a Client with the fixed base address.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	if cfg.InstallID != "" {
		headers["X-Install-ID"] = cfg.InstallID
	}

	return &Client{
		base:      base,
		http:      httpClient,
		logger:    logger,
		installID: cfg.InstallID,
		headers:   headers,
	}, nil
}

// SetAuthToken installs "Authorization: Bearer <token>" as a default
// header for all subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers["Authorization"] = "Bearer " + token
}

// ClearAuthToken removes the default Authorization header.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, "Authorization")
}

// AuthToken returns the bearer token currently installed, or "".
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimPrefix(c.headers["Authorization"], "Bearer ")
}

// InstallID returns the device identifier configured at construction.
func (c *Client) InstallID() string {
	return c.installID
}

// SetLatencyObserver registers a callback invoked with the route and wall
// duration of every completed request, successful or not.
func (c *Client) SetLatencyObserver(fn func(route string, d time.Duration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latency = fn
}

// errorBody is the error envelope the backend uses on failed requests.
type errorBody struct {
	Error string `json:"error"`
}

// do performs one JSON request. Failures follow the interceptor contract:
// log, then re-raise unchanged — transport errors wrapped in
// [ErrNetworkUnavailable], HTTP errors as [*APIError] carrying the status
// code and server message.
func (c *Client) do(ctx context.Context, method, route string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.base.JoinPath(route).String()
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	latency := c.latency
	c.mu.RUnlock()

	start := time.Now()
	resp, err := c.http.Do(req)
	if latency != nil {
		latency(route, time.Since(start))
	}
	if err != nil {
		c.logger.Error("api: network failure",
			slog.String("route", route),
			slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("api: reading response failed",
			slog.String("route", route),
			slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		c.logger.Error("api: request failed",
			slog.String("route", route),
			slog.Int("status", resp.StatusCode),
			slog.String("server_error", eb.Error))
		return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.logger.Error("api: undecodable success body",
				slog.String("route", route),
				slog.Any("error", err))
			return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	return nil
}

// Package api is the HTTP client for the BeijShop backend. Each backend
// operation maps to exactly one request; non-2xx responses are normalized
// into *core.APIError carrying the server-supplied message when the error
// body is parseable JSON.
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
	"time"

	"github.com/google/uuid"

	"github.com/beij-labs/beijshop/core"
)

// DefaultBaseURL is used when no backend address is configured.
const DefaultBaseURL = "http://localhost:8000/api/v1"

const defaultTimeout = 30 * time.Second

// RequestObservation captures one backend request outcome.
type RequestObservation struct {
	Operation  string
	Method     string
	Path       string
	Status     int
	DurationMS int64
	Success    bool
}

// Observer receives request-level observability events.
type Observer interface {
	ObserveRequest(observation RequestObservation)
}

type noopObserver struct{}

func (noopObserver) ObserveRequest(RequestObservation) {}

// Config configures a backend client.
type Config struct {
	// BaseURL is the backend base path, e.g. "http://host:8000/api/v1".
	BaseURL string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Observer receives per-request observations. Optional.
	Observer Observer

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Client issues requests against the BeijShop backend.
type Client struct {
	baseURL  string
	client   *http.Client
	observer Observer
	logger   *slog.Logger
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", base, err)
	}
	base = strings.TrimRight(base, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:  base,
		client:   httpClient,
		observer: observer,
		logger:   logger,
	}, nil
}

// BaseURL returns the configured backend base path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call for the do helper.
type request struct {
	operation string // stable name for logs and observations
	method    string
	path      string // joined onto the base URL, must start with "/"
	query     url.Values
	body      any    // JSON-encoded when non-nil
	bearer    string // Authorization: Bearer header when non-empty
	fallback  string // error message when the server supplies none
}

// errorBody is the JSON shape of backend error responses.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// do performs the request and decodes a 2xx response body into out when
// out is non-nil. Non-2xx responses become *core.APIError.
func (c *Client) do(ctx context.Context, req request, out any) error {
	if c == nil || c.client == nil {
		return errors.New("api: client is nil")
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("api: encode %s request: %w", req.operation, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("api: build %s request: %w", req.operation, err)
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())
	if req.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.observe(req, 0, start, false)
		return fmt.Errorf("api: %s: %w", req.operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(req, resp.StatusCode, start, false)
		return fmt.Errorf("api: read %s response: %w", req.operation, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.observe(req, resp.StatusCode, start, false)
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err != nil {
			eb.Message = ""
		}
		apiErr := core.NewAPIError(resp.StatusCode, eb.Message, req.fallback)
		c.logger.Debug("backend request failed",
			"operation", req.operation,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	c.observe(req, resp.StatusCode, start, true)

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("api: decode %s response: %w", req.operation, err)
	}
	return nil
}

func (c *Client) observe(req request, status int, start time.Time, success bool) {
	c.observer.ObserveRequest(RequestObservation{
		Operation:  req.operation,
		Method:     req.method,
		Path:       req.path,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		Success:    success,
	})
}

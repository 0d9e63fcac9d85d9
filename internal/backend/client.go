// Package backend is the JSON client for the planning backend's four capabilities.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/spatialflow/internal/errors"
	"github.com/p-blackswan/spatialflow/internal/requestid"
)

const (
	// DefaultBaseURL is where the local planning server listens.
	DefaultBaseURL = "http://localhost:8765"

	maxResponseBytes = 8 << 20
	userAgent        = "spatialflow-dashboard/1.0"
)

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues single-attempt JSON POSTs to the backend. It never retries.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     zerolog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a backend client for baseURL.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger.With().Str("component", "backend").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ParseSchedule asks the backend to structure raw schedule text into weeks.
func (c *Client) ParseSchedule(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	var out ParseResponse
	if err := c.post(ctx, CapParse, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateLayout requests temporary zone and worker path recommendations.
func (c *Client) GenerateLayout(ctx context.Context, req LayoutRequest) (*LayoutResponse, error) {
	var out LayoutResponse
	if err := c.post(ctx, CapLayout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query asks a freeform logistics question.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var out QueryResponse
	if err := c.post(ctx, CapQuery, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Replan requests a revised schedule for a disruption.
func (c *Client) Replan(ctx context.Context, req ReplanRequest) (*ReplanResponse, error) {
	var out ReplanResponse
	if err := c.post(ctx, CapReplan, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks that the backend answers HTTP at its base address.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return perrors.NewTransportError("ping", 0, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return perrors.NewTransportError("ping", resp.StatusCode, nil)
	}
	return nil
}

// post sends payload to the capability's endpoint and decodes the response into out.
func (c *Client) post(ctx context.Context, capability Capability, payload, out any) error {
	ctx, reqID := requestid.Ensure(ctx)
	name := string(capability)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+capability.Path(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestid.Header, reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("capability", name).
			Str("request_id", reqID).
			Msg("backend request failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return &perrors.APIError{
				Capability: name,
				Message:    "request timed out",
				Err:        fmt.Errorf("%w: %v", perrors.ErrTimeout, err),
			}
		}
		return perrors.NewTransportError(name, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return perrors.NewTransportError(name, resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	c.logger.Debug().
		Str("capability", name).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Int("bytes_out", len(body)).
		Int("bytes_in", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("backend response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			return perrors.NewAPIError(name, resp.StatusCode, eb.Error)
		}
		return perrors.NewTransportError(name, resp.StatusCode, nil)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &perrors.APIError{
			Capability: name,
			StatusCode: resp.StatusCode,
			Message:    "invalid response from server",
			Err:        fmt.Errorf("decoding %s response: %w", name, err),
		}
	}
	return nil
}

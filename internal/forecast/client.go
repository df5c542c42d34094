// Package forecast provides a client for the pollutant forecast
// service (the external ML API).
package forecast

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

	"github.com/delhiair/delhiair/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "forecast"

	// DefaultHours is the forecast horizon used when the caller does
	// not ask for one.
	DefaultHours = 72
)

// ErrUnavailable is returned when the forecast service cannot serve
// the request.
var ErrUnavailable = errors.New("forecast service unavailable")

// ClientConfig holds configuration for the forecast client.
type ClientConfig struct {
	// BaseURL is the forecast service base URL. Required.
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 10s, matching the
	// upstream model's worst-case inference time).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a forecast service client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new forecast client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      1,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

type forecastRequest struct {
	Station string `json:"station"`
	Hours   int    `json:"hours"`
}

// Forecast requests a forecast for a station over the given horizon
// and returns the upstream response document unmodified.
func (c *Client) Forecast(ctx context.Context, station string, hours int) (json.RawMessage, error) {
	if hours <= 0 {
		hours = DefaultHours
	}

	body, err := json.Marshal(forecastRequest{Station: station, Hours: hours})
	if err != nil {
		return nil, fmt.Errorf("encode forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read forecast response: %w", err)
	}
	return json.RawMessage(payload), nil
}

// Package waqi provides a client for the World Air Quality Index
// map-bounds API, which backs the live city map.
package waqi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/delhiair/delhiair/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the WAQI API.
	DefaultBaseURL = "https://api.waqi.info"

	// ProviderName identifies this provider.
	ProviderName = "waqi"

	// DelhiBounds is the lat/lng box covering the Delhi NCR monitoring
	// network, as served to the map frontend.
	DelhiBounds = "28.40,76.84,28.88,77.35"
)

// Client errors.
var (
	ErrTokenMissing = errors.New("waqi token not configured")
	ErrUpstream     = errors.New("waqi request failed")
)

// ClientConfig holds configuration for the WAQI client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// Token is the WAQI API token. Requests fail without one.
	Token string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a WAQI API client.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
}

// NewClient creates a new WAQI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
	}
}

// StationLocation is one live station inside the queried bounds. AQI
// stays a string because the upstream reports "-" for stations without
// a current index.
type StationLocation struct {
	Name string
	Lat  float64
	Lon  float64
	AQI  string
}

// API response types (from the WAQI map-bounds endpoint).

type boundsResponse struct {
	Status string          `json:"status"`
	Data   []boundsStation `json:"data"`
}

type boundsStation struct {
	Lat     float64     `json:"lat"`
	Lon     float64     `json:"lon"`
	AQI     string      `json:"aqi"`
	Station stationInfo `json:"station"`
}

type stationInfo struct {
	Name string `json:"name"`
}

// FetchStations retrieves the live stations inside a lat/lng bounds
// string ("minLat,minLon,maxLat,maxLon").
func (c *Client) FetchStations(ctx context.Context, bounds string) ([]StationLocation, error) {
	if c.token == "" {
		return nil, ErrTokenMissing
	}

	endpoint := fmt.Sprintf("%s/map/bounds/?latlng=%s&token=%s",
		c.baseURL, url.QueryEscape(bounds), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var result boundsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode bounds response: %w", err)
	}

	if result.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrUpstream, result.Status)
	}

	stations := make([]StationLocation, 0, len(result.Data))
	for _, s := range result.Data {
		stations = append(stations, StationLocation{
			Name: s.Station.Name,
			Lat:  s.Lat,
			Lon:  s.Lon,
			AQI:  s.AQI,
		})
	}
	return stations, nil
}

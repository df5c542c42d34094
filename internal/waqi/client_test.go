package waqi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delhiair/delhiair/internal/waqi"
)

func TestClient_FetchStations(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/map/bounds/", r.URL.Path)
		assert.Equal(t, waqi.DelhiBounds, r.URL.Query().Get("latlng"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		response := map[string]interface{}{
			"status": "ok",
			"data": []map[string]interface{}{
				{
					"lat": 28.6286,
					"lon": 77.2411,
					"aqi": "204",
					"station": map[string]interface{}{
						"name": "ITO, Delhi",
					},
				},
				{
					"lat": 28.5672,
					"lon": 77.2500,
					"aqi": "-",
					"station": map[string]interface{}{
						"name": "Nehru Nagar, Delhi",
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: http.DefaultClient,
	})

	stations, err := client.FetchStations(context.Background(), waqi.DelhiBounds)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "ITO, Delhi", stations[0].Name)
	assert.Equal(t, 28.6286, stations[0].Lat)
	assert.Equal(t, 77.2411, stations[0].Lon)
	assert.Equal(t, "204", stations[0].AQI)

	// Stations without a current index report "-"
	assert.Equal(t, "-", stations[1].AQI)
}

func TestClient_FetchStations_NoToken(t *testing.T) {
	client := waqi.NewClient(waqi.ClientConfig{
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchStations(context.Background(), waqi.DelhiBounds)
	assert.ErrorIs(t, err, waqi.ErrTokenMissing)
}

func TestClient_FetchStations_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "error",
			"data":   []map[string]interface{}{},
		})
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchStations(context.Background(), waqi.DelhiBounds)
	assert.ErrorIs(t, err, waqi.ErrUpstream)
}

func TestClient_FetchStations_BadStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchStations(context.Background(), waqi.DelhiBounds)
	assert.ErrorIs(t, err, waqi.ErrUpstream)
}

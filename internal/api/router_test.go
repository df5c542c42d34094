package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delhiair/delhiair/internal/api"
	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/reading"
	"github.com/delhiair/delhiair/internal/station"
	"github.com/delhiair/delhiair/internal/waqi"
)

// stubFetcher serves canned live-map locations.
type stubFetcher struct {
	stations []waqi.StationLocation
	err      error
}

func (s *stubFetcher) FetchStations(_ context.Context, _ string) ([]waqi.StationLocation, error) {
	return s.stations, s.err
}

// stubForecaster echoes a fixed forecast document.
type stubForecaster struct {
	payload json.RawMessage
	err     error
}

func (s *stubForecaster) Forecast(_ context.Context, _ string, _ int) (json.RawMessage, error) {
	return s.payload, s.err
}

func seedRepository() *reading.InMemoryRepository {
	repo := reading.NewInMemoryRepository()
	v := 80.0
	repo.Add(reading.Reading{
		Station:    "Anand Vihar",
		City:       "Delhi",
		Timestamp:  "2023-03-04 12:00:00",
		Pollutants: map[string]*float64{reading.PollutantPM25: &v},
	})
	return repo
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	repo := seedRepository()
	return api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "2024-01-01T00:00:00Z",
		Logger:         logger,
		TrendService:   reading.NewService(repo, logger),
		StationService: station.NewService(repo, logger),
		MapFetcher: &stubFetcher{stations: []waqi.StationLocation{
			{Name: "ITO, Delhi", Lat: 28.6286, Lon: 77.2411, AQI: "204"},
		}},
		Forecaster: &stubForecaster{payload: json.RawMessage(`{"forecast":[]}`)},
		PingStore:  func(context.Context) error { return nil },
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck_StoreDown(t *testing.T) {
	logger := zerolog.New(io.Discard)
	repo := seedRepository()
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		TrendService:   reading.NewService(repo, logger),
		StationService: station.NewService(repo, logger),
		MapFetcher:     &stubFetcher{},
		Forecaster:     &stubForecaster{},
		PingStore:      func(context.Context) error { return errors.New("no reachable servers") },
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_HourlyTrend(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/hourly?station=Anand+Vihar&pollutant=PM25&date=2023-03-04", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HourlyTrendResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, 12, resp.Data[0].Hour)
	assert.Equal(t, 80.0, resp.Data[0].Value)
}

func TestRouter_HourlyTrend_MissingParams(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/trend/hourly?station=Anand+Vihar", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_DailyTrend(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/daily?station=Anand+Vihar&pollutant=PM25&month=2023-03", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.DailyTrendResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Data, 31)
	require.NotNil(t, resp.Data[3].Value)
	assert.Equal(t, 80.0, *resp.Data[3].Value)
	assert.Nil(t, resp.Data[0].Value)
}

func TestRouter_DailyTrend_InvalidMonth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/daily?station=Anand+Vihar&pollutant=PM25&month=March+2023", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ListStations(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/stations", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StationListResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, []string{"Anand Vihar"}, resp.Stations)
}

func TestRouter_GetLocations(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/locations", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var locations []models.StationLocation
	err := json.Unmarshal(w.Body.Bytes(), &locations)
	require.NoError(t, err)

	require.Len(t, locations, 1)
	assert.Equal(t, "ITO, Delhi", locations[0].Name)
	assert.Equal(t, "204", locations[0].AQI)
}

func TestRouter_GetForecast(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.ForecastRequest{Station: "Anand Vihar", Hours: 48})

	req := httptest.NewRequest(http.MethodPost, "/api/forecast", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"forecast":[]}`, w.Body.String())
}

func TestRouter_GetForecast_MissingStation(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/forecast", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
}

func TestRouter_GetForecast_Unavailable(t *testing.T) {
	logger := zerolog.New(io.Discard)
	repo := seedRepository()
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		TrendService:   reading.NewService(repo, logger),
		StationService: station.NewService(repo, logger),
		MapFetcher:     &stubFetcher{},
		Forecaster:     &stubForecaster{err: errors.New("connection refused")},
		PingStore:      func(context.Context) error { return nil },
	})

	body, _ := json.Marshal(models.ForecastRequest{Station: "Anand Vihar"})

	req := httptest.NewRequest(http.MethodPost, "/api/forecast", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handler_test

import (
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

	"github.com/delhiair/delhiair/internal/api/handler"
	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/reading"
)

// brokenRepository fails every call, modelling a store outage.
type brokenRepository struct{}

func (brokenRepository) FindInWindow(context.Context, string, string, reading.Window) ([]reading.Reading, error) {
	return nil, errors.New("connection reset by peer")
}

func (brokenRepository) ListStations(context.Context) ([]string, error) {
	return nil, errors.New("connection reset by peer")
}

func value(v float64) *float64 { return &v }

func newTrendHandler(t *testing.T, repo reading.Repository) *handler.TrendHandler {
	t.Helper()
	return handler.NewTrendHandler(reading.NewService(repo, zerolog.New(io.Discard)))
}

func seededRepository() *reading.InMemoryRepository {
	repo := reading.NewInMemoryRepository()
	repo.Add(
		reading.Reading{
			Station:   "Anand Vihar",
			City:      "Delhi",
			Timestamp: "2023-03-04 00:00:00",
			Pollutants: map[string]*float64{
				reading.PollutantPM25: value(45),
			},
		},
		reading.Reading{
			Station:   "Anand Vihar",
			City:      "Delhi",
			Timestamp: "2023-03-04 12:00:00",
			Pollutants: map[string]*float64{
				reading.PollutantPM25: value(80),
			},
		},
	)
	return repo
}

func TestTrendHandler_Hourly(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/hourly?station=Anand+Vihar&pollutant=PM25&date=2023-03-04", http.NoBody)
	w := httptest.NewRecorder()

	h.GetHourlyTrend(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HourlyTrendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Data, 2)
	assert.Equal(t, 0, resp.Data[0].Hour)
	assert.Equal(t, 45.0, resp.Data[0].Value)
	assert.Equal(t, 12, resp.Data[1].Hour)
	assert.Equal(t, 80.0, resp.Data[1].Value)
}

func TestTrendHandler_Hourly_EmptyDayIsNotNull(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/hourly?station=Anand+Vihar&pollutant=PM25&date=2023-03-05", http.NoBody)
	w := httptest.NewRecorder()

	h.GetHourlyTrend(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestTrendHandler_Hourly_MissingParams(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/trend/hourly", http.NoBody)
	w := httptest.NewRecorder()

	h.GetHourlyTrend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))

	assert.Equal(t, "missing query parameters", problem.Detail)
	assert.Len(t, problem.Errors, 3)
}

func TestTrendHandler_Hourly_InvalidDate(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/hourly?station=Anand+Vihar&pollutant=PM25&date=04-03-2023", http.NoBody)
	w := httptest.NewRecorder()

	h.GetHourlyTrend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "invalid date", problem.Detail)
}

func TestTrendHandler_Hourly_StoreError(t *testing.T) {
	h := newTrendHandler(t, brokenRepository{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/hourly?station=Anand+Vihar&pollutant=PM25&date=2023-03-04", http.NoBody)
	w := httptest.NewRecorder()

	h.GetHourlyTrend(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Store details never leak to the client
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestTrendHandler_Daily(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/daily?station=Anand+Vihar&pollutant=PM25&month=2023-03", http.NoBody)
	w := httptest.NewRecorder()

	h.GetDailyTrend(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.DailyTrendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Data, 31)
	assert.Equal(t, "2023-03-04", resp.Data[3].Date)
	require.NotNil(t, resp.Data[3].Value)
	assert.Equal(t, 62.5, *resp.Data[3].Value)
	assert.Nil(t, resp.Data[4].Value)
}

func TestTrendHandler_Daily_MissingParams(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/trend/daily?station=Anand+Vihar", http.NoBody)
	w := httptest.NewRecorder()

	h.GetDailyTrend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))

	assert.Equal(t, "missing query parameters", problem.Detail)
	assert.Len(t, problem.Errors, 2)
}

func TestTrendHandler_Daily_InvalidMonth(t *testing.T) {
	h := newTrendHandler(t, seededRepository())

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/daily?station=Anand+Vihar&pollutant=PM25&month=2023-3", http.NoBody)
	w := httptest.NewRecorder()

	h.GetDailyTrend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "invalid month", problem.Detail)
}

func TestTrendHandler_Daily_StoreError(t *testing.T) {
	h := newTrendHandler(t, brokenRepository{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/trend/daily?station=Anand+Vihar&pollutant=PM25&month=2023-03", http.NoBody)
	w := httptest.NewRecorder()

	h.GetDailyTrend(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

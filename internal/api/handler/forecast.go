package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/api/response"
)

// Forecaster requests a pollutant forecast from the forecast service.
type Forecaster interface {
	Forecast(ctx context.Context, station string, hours int) (json.RawMessage, error)
}

// ForecastHandler handles the forecast proxy endpoint.
type ForecastHandler struct {
	forecaster Forecaster
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecaster Forecaster) *ForecastHandler {
	return &ForecastHandler{forecaster: forecaster}
}

// GetForecast handles POST /api/forecast - proxy to the forecast
// service, response passed through unmodified.
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	var input models.ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Station == "" {
		response.BadRequest(w, r, "station is required", []models.FieldError{
			{Field: "station", Message: "required"},
		})
		return
	}

	result, err := h.forecaster.Forecast(r.Context(), input.Station, input.Hours)
	if err != nil {
		response.ServiceUnavailable(w, r, "forecast service unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/api/response"
	"github.com/delhiair/delhiair/internal/reading"
)

// TrendHandler handles trend query endpoints.
type TrendHandler struct {
	service *reading.Service
}

// NewTrendHandler creates a new TrendHandler.
func NewTrendHandler(service *reading.Service) *TrendHandler {
	return &TrendHandler{service: service}
}

// GetHourlyTrend handles GET /api/trend/hourly?station=&date=&pollutant=
// - observed values for each hour of one calendar day.
func (h *TrendHandler) GetHourlyTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	station := q.Get("station")
	date := q.Get("date")
	pollutant := q.Get("pollutant")

	var fieldErrors []models.FieldError
	if station == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "station", Message: "required"})
	}
	if date == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "date", Message: "required"})
	}
	if pollutant == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "pollutant", Message: "required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "missing query parameters", fieldErrors)
		return
	}

	points, err := h.service.HourlyTrend(r.Context(), station, date, pollutant)
	if err != nil {
		if errors.Is(err, reading.ErrInvalidDate) {
			response.BadRequest(w, r, "invalid date", []models.FieldError{
				{Field: "date", Message: "expected YYYY-MM-DD"},
			})
			return
		}
		response.InternalError(w, r, "failed to load hourly trend")
		return
	}

	data := make([]models.HourlyPoint, 0, len(points))
	for _, p := range points {
		data = append(data, models.HourlyPoint{Hour: p.Hour, Value: p.Value})
	}
	response.JSON(w, r, http.StatusOK, models.HourlyTrendResponse{Data: data})
}

// GetDailyTrend handles GET /api/trend/daily?station=&month=&pollutant=
// - per-day averages across one calendar month, one entry per day.
func (h *TrendHandler) GetDailyTrend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	station := q.Get("station")
	month := q.Get("month")
	pollutant := q.Get("pollutant")

	var fieldErrors []models.FieldError
	if station == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "station", Message: "required"})
	}
	if month == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "month", Message: "required"})
	}
	if pollutant == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "pollutant", Message: "required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "missing query parameters", fieldErrors)
		return
	}

	points, err := h.service.DailyTrend(r.Context(), station, month, pollutant)
	if err != nil {
		if errors.Is(err, reading.ErrInvalidMonth) {
			response.BadRequest(w, r, "invalid month", []models.FieldError{
				{Field: "month", Message: "expected YYYY-MM"},
			})
			return
		}
		response.InternalError(w, r, "failed to load daily trend")
		return
	}

	data := make([]models.DailyPoint, 0, len(points))
	for _, p := range points {
		data = append(data, models.DailyPoint{Date: p.Date, Value: p.Value})
	}
	response.JSON(w, r, http.StatusOK, models.DailyTrendResponse{Data: data})
}

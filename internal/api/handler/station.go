package handler

import (
	"net/http"

	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/api/response"
	"github.com/delhiair/delhiair/internal/station"
)

// StationHandler handles station directory endpoints.
type StationHandler struct {
	service *station.Service
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(service *station.Service) *StationHandler {
	return &StationHandler{service: service}
}

// ListStations handles GET /api/stations - distinct station names with
// stored readings.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load stations")
		return
	}
	response.JSON(w, r, http.StatusOK, models.StationListResponse{Stations: stations})
}

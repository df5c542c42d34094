package handler

import (
	"context"
	"net/http"

	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/api/response"
	"github.com/delhiair/delhiair/internal/waqi"
)

// LocationsFetcher retrieves live station locations inside a lat/lng
// bounds box.
type LocationsFetcher interface {
	FetchStations(ctx context.Context, bounds string) ([]waqi.StationLocation, error)
}

// MapHandler handles the live city map endpoint.
type MapHandler struct {
	fetcher LocationsFetcher
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(fetcher LocationsFetcher) *MapHandler {
	return &MapHandler{fetcher: fetcher}
}

// GetLocations handles GET /api/locations - real-time AQI for every
// station on the Delhi map, proxied from the upstream provider.
func (h *MapHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.fetcher.FetchStations(r.Context(), waqi.DelhiBounds)
	if err != nil {
		response.InternalError(w, r, "failed to fetch live station data")
		return
	}

	locations := make([]models.StationLocation, 0, len(stations))
	for _, s := range stations {
		locations = append(locations, models.StationLocation{
			Name:      s.Name,
			Latitude:  s.Lat,
			Longitude: s.Lon,
			AQI:       s.AQI,
		})
	}
	response.JSON(w, r, http.StatusOK, locations)
}

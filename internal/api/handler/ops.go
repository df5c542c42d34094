// Package handler provides HTTP handlers for the Delhi air quality API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/delhiair/delhiair/internal/api/models"
	"github.com/delhiair/delhiair/internal/api/response"
)

// storePinger adapts the mongo client's Ping to something the handler
// can hold without importing the driver.
type storePinger func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	pingStore storePinger
}

// NewOpsHandler creates a new OpsHandler. pingStore may be nil, in
// which case readiness only reports process liveness.
func NewOpsHandler(version, buildTime string, pingStore func(ctx context.Context) error) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pingStore: pingStore,
	}
}

// HealthCheck handles GET /health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /ready - readiness check including the
// document store.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	}

	if h.pingStore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pingStore(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"store": "unreachable"}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

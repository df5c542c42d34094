// Package api provides the HTTP API for the Delhi air quality dashboard.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/delhiair/delhiair/internal/api/handler"
	"github.com/delhiair/delhiair/internal/api/middleware"
	"github.com/delhiair/delhiair/internal/reading"
	"github.com/delhiair/delhiair/internal/station"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	TrendService   *reading.Service
	StationService *station.Service
	MapFetcher     handler.LocationsFetcher
	Forecaster     handler.Forecaster
	PingStore      func(ctx context.Context) error
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "delhiair-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.PingStore)
	trendHandler := handler.NewTrendHandler(cfg.TrendService)
	stationHandler := handler.NewStationHandler(cfg.StationService)
	mapHandler := handler.NewMapHandler(cfg.MapFetcher)
	forecastHandler := handler.NewForecastHandler(cfg.Forecaster)

	// Rate limit middleware per endpoint category
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 120 req/min
	proxyRateLimit := middleware.RateLimitByIP(middleware.ProxyRateLimit)       // 30 req/min

	// Ops endpoints (public, no rate limiting)
	r.Get("/health", opsHandler.HealthCheck)
	r.Get("/ready", opsHandler.ReadinessCheck)

	r.Route("/api", func(r chi.Router) {
		// Trend endpoints hit the readings store directly
		r.Route("/trend", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/hourly", trendHandler.GetHourlyTrend)
			r.Get("/daily", trendHandler.GetDailyTrend)
		})

		// Station directory
		r.With(standardRateLimit).Get("/stations", stationHandler.ListStations)

		// Endpoints that fan out to upstream providers get the
		// stricter limit
		r.With(proxyRateLimit).Get("/locations", mapHandler.GetLocations)
		r.With(proxyRateLimit).Post("/forecast", forecastHandler.GetForecast)
	})

	return r
}

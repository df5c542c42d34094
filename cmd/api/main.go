// Package main provides the entrypoint for the Delhi air quality API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/delhiair/delhiair/internal/api"
	"github.com/delhiair/delhiair/internal/api/middleware"
	"github.com/delhiair/delhiair/internal/database"
	"github.com/delhiair/delhiair/internal/forecast"
	"github.com/delhiair/delhiair/internal/reading"
	"github.com/delhiair/delhiair/internal/station"
	"github.com/delhiair/delhiair/internal/telemetry"
	"github.com/delhiair/delhiair/internal/waqi"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "delhiair-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Delhi air quality API")

	// Get configuration from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to MongoDB
	dbConfig := database.ConfigFromEnv()
	client, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if disconnectErr := client.Disconnect(disconnectCtx); disconnectErr != nil {
			log.Error().Err(disconnectErr).Msg("failed to disconnect from database")
		}
	}()
	log.Info().
		Str("database", dbConfig.Database).
		Str("collection", dbConfig.Collection).
		Msg("database connected")

	// Initialize readings repository and services
	readingRepo := reading.NewMongoRepository(database.ReadingsCollection(client, dbConfig))
	trendService := reading.NewService(readingRepo, log)
	stationService := station.NewService(readingRepo, log)
	log.Info().Msg("trend service initialized")

	// Initialize WAQI client for the live city map
	waqiToken := os.Getenv("WAQI_TOKEN")
	if waqiToken == "" {
		log.Warn().Msg("WAQI_TOKEN not configured - the locations endpoint will fail")
	}
	waqiClient := waqi.NewClient(waqi.ClientConfig{
		BaseURL: os.Getenv("WAQI_BASE_URL"),
		Token:   waqiToken,
	})

	// Initialize forecast service client
	mlAPIURL := os.Getenv("ML_API_URL")
	if mlAPIURL == "" {
		mlAPIURL = "http://localhost:8000"
	}
	forecastClient := forecast.NewClient(forecast.ClientConfig{
		BaseURL: mlAPIURL,
	})
	log.Info().Str("ml_api_url", mlAPIURL).Msg("forecast client initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		TrendService:   trendService,
		StationService: stationService,
		MapFetcher:     waqiClient,
		Forecaster:     forecastClient,
		PingStore: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

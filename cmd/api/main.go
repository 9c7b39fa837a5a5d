// Package main provides the entrypoint for the SafeRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/api"
	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/database"
	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/geocoding/nominatim"
	"github.com/saferoute/saferoute/internal/preference"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/routing/openrouteservice"
	"github.com/saferoute/saferoute/internal/session"
	"github.com/saferoute/saferoute/internal/telemetry"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "saferoute-api"

	// Load .env for local development; ignored when absent.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SafeRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
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

	sampleRatio := 0.0
	if raw := os.Getenv("OTEL_TRACE_SAMPLE_RATIO"); raw != "" {
		parsed, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			log.Fatal().Err(parseErr).Str("value", raw).Msg("invalid OTEL_TRACE_SAMPLE_RATIO")
		}
		sampleRatio = parsed
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
		SampleRatio:    sampleRatio,
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

	// Initialize routing: provider when a key is present, straight-line
	// fallback otherwise. The server always starts.
	var routingProvider routing.Provider
	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		routingProvider = openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey: orsKey,
			Logger: log,
		})
		log.Info().Msg("openrouteservice routing provider initialized")
	} else {
		log.Warn().Msg("ORS_API_KEY not set - routes degrade to straight-line fallback")
	}

	routingService := routing.NewService(routing.ServiceConfig{
		Provider: routingProvider,
		Logger:   log,
	})

	// Initialize weather the same way: no key means mock conditions.
	var weatherProvider weather.Provider
	if owmKey := os.Getenv("OWM_API_KEY"); owmKey != "" {
		weatherProvider = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: owmKey,
			Logger: log,
		})
		log.Info().Msg("openweathermap weather provider initialized")
	} else {
		log.Warn().Msg("OWM_API_KEY not set - weather serves the mock snapshot")
	}

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: weatherProvider,
		Logger:   log,
	})

	// Geocoding via Nominatim; no key required.
	geocodingService := geocoding.NewService(geocoding.ServiceConfig{
		Provider: nominatim.NewClient(nominatim.ClientConfig{
			BaseURL:   os.Getenv("NOMINATIM_BASE_URL"),
			UserAgent: os.Getenv("NOMINATIM_USER_AGENT"),
			Logger:    log,
		}),
		Logger: log,
	})
	log.Info().Msg("geocoding service initialized")

	// Preference storage: Postgres when reachable, in-memory otherwise.
	// Preferences are advisory, so a missing database is not fatal.
	var preferenceRepo preference.Repository = preference.NewInMemoryRepository()
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable - preferences held in memory")
	} else {
		defer pool.Close()
		preferenceRepo = preference.NewPostgresRepository(pool)
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}

	preferenceService := preference.NewService(preference.ServiceConfig{
		Repository: preferenceRepo,
		Logger:     log,
	})

	// Per-session route selection state, with a periodic time context
	// refresh shared by all sessions.
	sessionManager := session.NewManager()
	sessionManager.Start(ctx)
	defer sessionManager.Stop()

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		RoutingService:    routingService,
		WeatherService:    weatherService,
		GeocodingService:  geocodingService,
		PreferenceService: preferenceService,
		SessionManager:    sessionManager,
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

// Package main provides the entrypoint for the SafeRoute background worker.
//
// The worker re-warms provider caches for the configured hub regions so the
// API serves fresh data without waiting on upstream calls. It consumes
// refresh jobs from a Pub/Sub subscription when one is configured and falls
// back to a local interval timer otherwise.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/geocoding/nominatim"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/routing/openrouteservice"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/internal/weather/openweathermap"
	"github.com/saferoute/saferoute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "saferoute-worker"

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
		Msg("starting SafeRoute worker")

	port := os.Getenv("WORKER_PORT")
	if port == "" {
		port = "8081"
	}

	// Services share the API's provider gating: a missing credential means
	// the fallback path, never a failed start.
	var routingProvider routing.Provider
	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		routingProvider = openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey: orsKey,
			Logger: log,
		})
	} else {
		log.Warn().Msg("ORS_API_KEY not set - route warmup uses the straight-line fallback")
	}

	routingService := routing.NewService(routing.ServiceConfig{
		Provider: routingProvider,
		Logger:   log,
	})

	var weatherProvider weather.Provider
	if owmKey := os.Getenv("OWM_API_KEY"); owmKey != "" {
		weatherProvider = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: owmKey,
			Logger: log,
		})
	} else {
		log.Warn().Msg("OWM_API_KEY not set - weather warmup uses the mock snapshot")
	}

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: weatherProvider,
		Logger:   log,
	})

	geocodingService := geocoding.NewService(geocoding.ServiceConfig{
		Provider: nominatim.NewClient(nominatim.ClientConfig{
			BaseURL:   os.Getenv("NOMINATIM_BASE_URL"),
			UserAgent: os.Getenv("NOMINATIM_USER_AGENT"),
			Logger:    log,
		}),
		Logger: log,
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:           worker.DefaultRefreshConfig(),
		Logger:           log,
		WeatherService:   weatherService,
		GeocodingService: geocodingService,
		RoutingService:   routingService,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Health endpoint for container probes, with a metrics snapshot for
	// quick inspection.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"service": serviceName,
			"version": Version,
			"metrics": refreshJob.MetricsSnapshot(),
		})
	})

	healthServer := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", healthServer.Addr).Msg("health endpoint listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	errCh := make(chan error, 1)

	if projectID != "" && subscription != "" {
		// Pub/Sub mode: Cloud Scheduler publishes refresh jobs.
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if closeErr := handler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub handler")
			}
		}()

		go func() {
			errCh <- handler.Start(ctx)
		}()
	} else {
		// Interval mode: run the refresh locally on a timer.
		interval := 10 * time.Minute
		if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatal().Err(err).Str("value", raw).Msg("invalid REFRESH_INTERVAL")
			}
			interval = parsed
		}

		log.Info().
			Dur("interval", interval).
			Msg("pubsub not configured - running on interval timer")

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			// First refresh immediately so caches are warm before the
			// first tick.
			runRefresh(ctx, refreshJob, log)

			for {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case <-ticker.C:
					runRefresh(ctx, refreshJob, log)
				}
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down worker")
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("worker stopped with error")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func runRefresh(ctx context.Context, job *worker.RefreshJob, log zerolog.Logger) {
	result := job.Run(ctx)

	log.Info().
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("refresh run complete")

	if err := job.RefreshRoutes(ctx); err != nil {
		log.Warn().Err(err).Msg("route warmup completed with errors")
	}
}

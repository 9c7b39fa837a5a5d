// Package api provides the HTTP API for SafeRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/api/handler"
	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/preference"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/session"
	"github.com/saferoute/saferoute/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	RoutingService    *routing.Service
	WeatherService    *weather.Service
	GeocodingService  *geocoding.Service
	PreferenceService *preference.Service
	SessionManager    *session.Manager
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "saferoute-api"
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
	r.Use(middleware.RequireJSON)          // Reject non-JSON bodies early

	sessions := cfg.SessionManager
	if sessions == nil {
		sessions = session.NewManager()
	}

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.RoutingService, cfg.WeatherService, cfg.GeocodingService)
	routeHandler := handler.NewRouteHandler(cfg.RoutingService, cfg.WeatherService, cfg.PreferenceService, sessions, cfg.Metrics)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodingService)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService)
	preferenceHandler := handler.NewPreferenceHandler(cfg.PreferenceService)
	sessionHandler := handler.NewSessionHandler(sessions)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// Probe endpoints live outside /v1 so load balancers can reach them
	// without versioned paths.
	r.Get("/healthz", opsHandler.HealthCheck)
	r.Get("/readyz", opsHandler.ReadinessCheck)
	r.Get("/version", opsHandler.Version)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Route computation - expensive, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:compute", routeHandler.ComputeRoutes)
		r.With(standardRateLimit).Post("/routes:recommend", routeHandler.RecommendRoutes)

		// Geocoding - called on every keystroke by typeahead clients
		r.Route("/geocode", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", geocodeHandler.Search)
			r.Get("/reverse", geocodeHandler.Reverse)
		})

		// Conditions snapshot
		r.With(standardRateLimit).Get("/weather", weatherHandler.GetConditions)

		// Session preference
		r.Route("/preference", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", preferenceHandler.GetPreference)
			r.Put("/", preferenceHandler.SetPreference)
		})

		// Route selection state
		r.Route("/session", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", sessionHandler.GetState)
			r.Put("/selection", sessionHandler.SetSelection)
			r.Delete("/", sessionHandler.ClearSession)
		})

		// Ops
		r.Get("/ops/cache-stats", opsHandler.CacheStats)
	})

	return r
}

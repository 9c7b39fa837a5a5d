// Package handler provides HTTP handlers for the SafeRoute API.
package handler

import (
	"net/http"
	"time"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/weather"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	routes    *routing.Service
	weather   *weather.Service
	geocoder  *geocoding.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, routes *routing.Service, wx *weather.Service, geocoder *geocoding.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		routes:    routes,
		weather:   wx,
		geocoder:  geocoder,
	}
}

// HealthCheck handles GET /healthz - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /readyz - readiness check.
// The route, weather, and geocoding services all degrade to local fallbacks,
// so readiness only requires the process to be serving.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// Version handles GET /version.
func (h *OpsHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.VersionInfo{
		Version:   h.version,
		BuildTime: h.buildTime,
	})
}

// CacheStats handles GET /v1/ops/cache-stats - per-service cache counters.
func (h *OpsHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	routeStats := h.routes.CacheStats()
	weatherStats := h.weather.CacheStats()
	geocodeStats := h.geocoder.CacheStats()

	response.JSON(w, r, http.StatusOK, models.CacheStatsResponse{
		Routing: models.CacheStats{
			Provider:     routeStats.Provider,
			TotalEntries: routeStats.TotalEntries,
			FreshEntries: routeStats.FreshEntries,
		},
		Weather: models.CacheStats{
			Provider:     weatherStats.Provider,
			TotalEntries: weatherStats.TotalEntries,
			FreshEntries: weatherStats.FreshEntries,
		},
		Geocoding: models.GeocodingCacheStats{
			Provider:            geocodeStats.Provider,
			SearchEntries:       geocodeStats.SearchEntries,
			SearchFreshEntries:  geocodeStats.SearchFreshEntries,
			ReverseEntries:      geocodeStats.ReverseEntries,
			ReverseFreshEntries: geocodeStats.ReverseFreshEntries,
		},
	})
}

package routing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/pkg/geo"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider. May be nil, in which case
	// every request resolves to the straight-line fallback.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache route responses (default: 5 minutes).
	CacheTTL time.Duration

	// CacheGridSize quantizes endpoints into grid cells for cache keys
	// (default: 0.001 degrees, ~110m). Walking routes are endpoint
	// sensitive, so the grid is much finer than for weather.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale routes on provider errors
	// (default: 15 minutes).
	StaleIfErrorTTL time.Duration
}

// Service provides walking routes with caching and a guaranteed fallback.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedRoutes
	lastCleanup time.Time
}

type cachedRoutes struct {
	response  *RoutesResponse
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.001
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 15 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedRoutes),
	}
}

// GetRoutes returns walking route alternatives between two points.
// It never returns an empty result without an error: when the provider
// fails (or none is configured) the response carries the straight-line
// fallback path with Fallback set, so route characterization always has
// something to work with.
func (s *Service) GetRoutes(ctx context.Context, req RoutesRequest) (*RoutesResponse, error) {
	if err := validatePoint(req.Origin); err != nil {
		return nil, &Error{
			Provider: s.providerName(),
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}
	if err := validatePoint(req.Destination); err != nil {
		return nil, &Error{
			Provider: s.providerName(),
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      ErrInvalidCoordinates,
		}
	}

	if s.provider == nil {
		s.logger.Debug().Msg("no routing provider configured, using fallback path")
		return s.fallbackResponse(req), nil
	}

	cacheKey := s.cacheKey(req)

	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.response, nil
	}
	s.mu.RUnlock()

	return s.fetchRoutes(ctx, req, cacheKey)
}

// fetchRoutes fetches routes from the provider and updates the cache.
// Provider failure degrades to stale data, then to the fallback path.
func (s *Service) fetchRoutes(ctx context.Context, req RoutesRequest, cacheKey string) (*RoutesResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.response, nil
	}

	s.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Str("provider", s.provider.Name()).
		Msg("fetching walking routes from provider")

	resp, err := s.provider.GetRoutes(ctx, req)
	if err != nil || len(resp.Paths) == 0 {
		s.logger.Warn().Err(err).
			Float64("origin_lat", req.Origin.Lat).
			Float64("origin_lon", req.Origin.Lon).
			Msg("routing provider failed, degrading")

		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale routes due to provider error")
				return cached.response, nil
			}
		}

		return s.fallbackResponse(req), nil
	}

	now := time.Now()
	s.cache[cacheKey] = &cachedRoutes{
		response:  resp,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", cacheKey).
		Int("path_count", len(resp.Paths)).
		Msg("cached routing response")

	s.cleanupIfNeeded()

	return resp, nil
}

// fallbackResponse builds the straight-line fallback: a constant-bearing
// segment between origin and destination with great-circle distance and a
// duration assuming average walking speed.
func (s *Service) fallbackResponse(req RoutesRequest) *RoutesResponse {
	return &RoutesResponse{
		Paths:     []Path{FallbackPath(req.Origin, req.Destination)},
		Provider:  "fallback",
		Fallback:  true,
		FetchedAt: time.Now(),
	}
}

// FallbackPath builds a single straight-line walking path between two points.
func FallbackPath(origin, destination geo.Point) Path {
	distance := geo.HaversineM(origin, destination)
	duration := distance / geo.WalkingSpeedMps

	// One geometry point roughly every 200m keeps the drawn line smooth
	// without inventing fake detail.
	segments := int(distance/200) + 2
	if segments > 64 {
		segments = 64
	}

	return Path{
		Geometry:        geo.Interpolate(origin, destination, segments),
		DistanceMeters:  distance,
		DurationSeconds: duration,
		Steps: []Step{
			{
				Instruction:     fmt.Sprintf("Head %s toward your destination", compassDirection(geo.InitialBearing(origin, destination))),
				DistanceMeters:  distance,
				DurationSeconds: duration,
				Maneuver:        Maneuver{Kind: ManeuverDepart, Location: origin},
			},
			{
				Instruction: "Arrive at your destination",
				Maneuver:    Maneuver{Kind: ManeuverArrive, Location: destination},
			},
		},
	}
}

// compassDirection maps a bearing in degrees to one of the 8 compass points.
func compassDirection(bearing float64) string {
	directions := []string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}
	idx := int(math.Mod(bearing+22.5, 360) / 45)
	return directions[idx]
}

// cacheKey quantizes both endpoints onto the cache grid.
func (s *Service) cacheKey(req RoutesRequest) string {
	oLat := math.Floor(req.Origin.Lat/s.cacheGridSize) * s.cacheGridSize
	oLon := math.Floor(req.Origin.Lon/s.cacheGridSize) * s.cacheGridSize
	dLat := math.Floor(req.Destination.Lat/s.cacheGridSize) * s.cacheGridSize
	dLon := math.Floor(req.Destination.Lon/s.cacheGridSize) * s.cacheGridSize

	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f", oLat, oLon, dLat, dLon)
}

// cleanupIfNeeded removes entries that are past the stale window.
// Caller must hold the write lock.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cacheTTL {
		return
	}
	s.lastCleanup = now

	expired := 0
	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired routing cache entries")
	}
}

// InvalidateCache clears all cached routes.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedRoutes)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		Provider:     s.providerName(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	Provider     string
}

func (s *Service) providerName() string {
	if s.provider == nil {
		return "fallback"
	}
	return s.provider.Name()
}

// validatePoint checks coordinate ranges.
func validatePoint(p geo.Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Lon)
	}
	return nil
}

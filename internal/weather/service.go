package weather

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetSnapshot fetches current conditions and hourly forecast for a location.
	GetSnapshot(ctx context.Context, lat, lon float64) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider. May be nil when no credential
	// is configured; the service then always serves the mock snapshot.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache weather data (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Points within the same grid cell share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration
}

// Service provides weather snapshots with caching. Weather is advisory:
// provider failures degrade to a fixed clear-sky snapshot, never an error.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	cache           map[string]*cachedSnapshot
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedSnapshot),
		cleanupInterval: 5 * time.Minute,
	}
}

// MockSnapshot returns the fixed clear-weather fallback: 72°F, clear sky,
// 45% humidity, 5 mph wind, UV 5, 10km visibility, no forecast or sun times.
func MockSnapshot() *Snapshot {
	return &Snapshot{
		TemperatureF: 72,
		FeelsLikeF:   72,
		Condition:    ConditionClear,
		Description:  "clear sky",
		HumidityPct:  45,
		WindMph:      5,
		UVIndex:      5,
		VisibilityM:  10000,
		Forecast:     []ForecastPoint{},
		Mock:         true,
		FetchedAt:    time.Now(),
	}
}

// GetSnapshot returns the weather snapshot for a location. Only invalid
// coordinates produce an error; provider outages fall back to stale cache
// and finally to the mock snapshot.
func (s *Service) GetSnapshot(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	if s.provider == nil {
		return MockSnapshot(), nil
	}

	cacheKey := s.cacheKey(lat, lon)

	// Check cache
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.snapshot, nil
	}
	s.mu.RUnlock()

	return s.fetchSnapshot(ctx, lat, lon, cacheKey)
}

func (s *Service) fetchSnapshot(ctx context.Context, lat, lon float64, cacheKey string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.snapshot, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching weather from provider")

	snapshot, err := s.provider.GetSnapshot(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("weather fetch failed")

		// Check for stale data
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale weather data due to provider error")
				return cached.snapshot, nil
			}
		}

		return MockSnapshot(), nil
	}

	// Update cache
	now := time.Now()
	s.cache[cacheKey] = &cachedSnapshot{
		snapshot:  snapshot,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return snapshot, nil
}

// cacheKey generates a cache key for a location.
// Groups nearby points into grid cells to reduce API calls.
func (s *Service) cacheKey(lat, lon float64) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f:%.2f", gridLat, gridLon)
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
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
			Msg("cleaned up expired weather cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSnapshot)
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

	providerName := "none"
	if s.provider != nil {
		providerName = s.provider.Name()
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		Provider:     providerName,
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	Provider     string
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

package geocoding

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/pkg/geo"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache search results (default: 10 minutes).
	CacheTTL time.Duration

	// MaxResults caps the number of locations returned per search (default: 5).
	MaxResults int

	// StaleIfErrorTTL allows serving stale results on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration
}

// Service provides geocoding with caching. Provider failures degrade to
// empty results rather than errors, so callers can always render something.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	maxResults      int
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	searchCache     map[string]*cachedSearch
	reverseCache    map[string]*cachedReverse
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedSearch struct {
	locations []Location
	fetchedAt time.Time
	expiresAt time.Time
}

type cachedReverse struct {
	location  *Location
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	maxResults := cfg.MaxResults
	if maxResults == 0 {
		maxResults = 5
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		maxResults:      maxResults,
		staleIfErrorTTL: staleIfErrorTTL,
		searchCache:     make(map[string]*cachedSearch),
		reverseCache:    make(map[string]*cachedReverse),
		cleanupInterval: 5 * time.Minute,
	}
}

// Search resolves a free-text query to a ranked list of locations.
// An empty or whitespace-only query returns an empty list without calling
// the provider. Provider failures also yield an empty list, never an error.
func (s *Service) Search(ctx context.Context, query string, near *geo.Point) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Location{}, nil
	}

	cacheKey := s.searchKey(query, near)

	s.mu.RLock()
	if cached, ok := s.searchCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.locations, nil
	}
	s.mu.RUnlock()

	return s.fetchSearch(ctx, query, near, cacheKey)
}

// Reverse resolves a coordinate to the nearest named location. When the
// provider fails, a synthetic location named after the coordinate is
// returned so the caller still has something to display.
func (s *Service) Reverse(ctx context.Context, p geo.Point) (*Location, error) {
	if err := validatePoint(p); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%.4f:%.4f", p.Lat, p.Lon)

	s.mu.RLock()
	if cached, ok := s.reverseCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.location, nil
	}
	s.mu.RUnlock()

	return s.fetchReverse(ctx, p, cacheKey)
}

func (s *Service) fetchSearch(ctx context.Context, query string, near *geo.Point, cacheKey string) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.searchCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.locations, nil
	}

	s.logger.Debug().
		Str("query", query).
		Str("provider", s.provider.Name()).
		Msg("searching locations")

	locations, err := s.provider.Search(ctx, query, near, s.maxResults)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("query", query).
			Msg("geocoding search failed")

		// Check for stale data
		if cached, ok := s.searchCache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				return cached.locations, nil
			}
		}

		return []Location{}, nil
	}

	if locations == nil {
		locations = []Location{}
	}
	if len(locations) > s.maxResults {
		locations = locations[:s.maxResults]
	}

	now := time.Now()
	s.searchCache[cacheKey] = &cachedSearch{
		locations: locations,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return locations, nil
}

func (s *Service) fetchReverse(ctx context.Context, p geo.Point, cacheKey string) (*Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.reverseCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.location, nil
	}

	loc, err := s.provider.Reverse(ctx, p)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", p.Lat).
			Float64("lon", p.Lon).
			Msg("reverse geocoding failed")

		if cached, ok := s.reverseCache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				return cached.location, nil
			}
		}

		return coordinateLocation(p), nil
	}

	if loc == nil {
		loc = coordinateLocation(p)
	}

	now := time.Now()
	s.reverseCache[cacheKey] = &cachedReverse{
		location:  loc,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return loc, nil
}

// coordinateLocation builds a display-only location from a raw coordinate.
func coordinateLocation(p geo.Point) *Location {
	name := fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lon)
	return &Location{
		Name:     name,
		Address:  name,
		Position: p,
	}
}

// searchKey normalizes a query into a cache key. The proximity hint is
// quantized so nearby callers share entries.
func (s *Service) searchKey(query string, near *geo.Point) string {
	normalized := strings.ToLower(query)
	if near == nil {
		return normalized
	}
	return fmt.Sprintf("%s@%.1f:%.1f", normalized, near.Lat, near.Lon)
}

func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.searchCache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.searchCache, key)
			expired++
		}
	}

	for key, cached := range s.reverseCache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.reverseCache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired geocoding cache entries")
	}
}

// InvalidateCache clears all cached results.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCache = make(map[string]*cachedSearch)
	s.reverseCache = make(map[string]*cachedReverse)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	searchFresh := 0
	reverseFresh := 0

	for _, c := range s.searchCache {
		if now.Before(c.expiresAt) {
			searchFresh++
		}
	}
	for _, c := range s.reverseCache {
		if now.Before(c.expiresAt) {
			reverseFresh++
		}
	}

	return CacheStats{
		SearchEntries:       len(s.searchCache),
		SearchFreshEntries:  searchFresh,
		ReverseEntries:      len(s.reverseCache),
		ReverseFreshEntries: reverseFresh,
		Provider:            s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	SearchEntries       int
	SearchFreshEntries  int
	ReverseEntries      int
	ReverseFreshEntries int
	Provider            string
}

func validatePoint(p geo.Point) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/geo"
)

// RefreshJob re-warms service caches so interactive requests hit fresh data.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	weatherService   *weather.Service
	geocodingService *geocoding.Service
	routingService   *routing.Service

	// Metrics
	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	WeatherRefresh    int64
	GeocodingRefresh  int64
	RouteRefresh      int64

	// Timings
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config           RefreshConfig
	Logger           zerolog.Logger
	WeatherService   *weather.Service
	GeocodingService *geocoding.Service
	RoutingService   *routing.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultRefreshConfig()
	}

	return &RefreshJob{
		config:           config,
		logger:           cfg.Logger,
		weatherService:   cfg.WeatherService,
		geocodingService: cfg.GeocodingService,
		routingService:   cfg.RoutingService,
		metrics:          &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPoints int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Provider string
	Point    Point
	Error    string
}

// Run executes the refresh job for all configured targets.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:   startTime,
		TotalPoints: j.config.TotalPoints(),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting provider refresh job")

	// Get all points to refresh
	points := j.config.AllPoints()

	// Create work channels
	pointsChan := make(chan Point, len(points))
	resultsChan := make(chan pointResult, len(points))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			j.refreshWorker(ctx, workerID, pointsChan, resultsChan)
		}(i)
	}

	// Send points to workers
	for _, p := range points {
		pointsChan <- p
	}
	close(pointsChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for pr := range resultsChan {
		if pr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, pr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// Update metrics
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("provider refresh job completed")

	return result
}

type pointResult struct {
	point   Point
	success bool
	errors  []RefreshError
}

func (j *RefreshJob) refreshWorker(ctx context.Context, _ int, points <-chan Point, results chan<- pointResult) {
	for point := range points {
		select {
		case <-ctx.Done():
			return
		default:
			result := j.refreshPoint(ctx, point)
			results <- result
		}
	}
}

func (j *RefreshJob) refreshPoint(ctx context.Context, point Point) pointResult {
	result := pointResult{
		point:   point,
		success: true,
	}

	// Create timeout context for this point
	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	// Refresh weather
	if j.config.RefreshWeather && j.weatherService != nil {
		if err := j.refreshWeather(pointCtx, point); err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "weather",
				Point:    point,
				Error:    err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.WeatherRefresh, 1)
		}
	}

	// Refresh reverse geocoding
	if j.config.RefreshGeocoding && j.geocodingService != nil {
		if err := j.refreshReverseGeocode(pointCtx, point); err != nil {
			result.errors = append(result.errors, RefreshError{
				Provider: "geocoding",
				Point:    point,
				Error:    err.Error(),
			})
			// Geocoding warm-up errors are non-fatal; the service degrades
			// to coordinate names anyway.
		} else {
			atomic.AddInt64(&j.metrics.GeocodingRefresh, 1)
		}
	}

	return result
}

func (j *RefreshJob) refreshWeather(ctx context.Context, point Point) error {
	_, err := j.weatherService.GetSnapshot(ctx, point.Lat, point.Lon)
	return err
}

func (j *RefreshJob) refreshReverseGeocode(ctx context.Context, point Point) error {
	_, err := j.geocodingService.Reverse(ctx, geo.Point{Lat: point.Lat, Lon: point.Lon})
	return err
}

// RefreshRoutes re-warms the route cache between consecutive hub points
// within each target, so common hub-to-hub walks serve from cache.
func (j *RefreshJob) RefreshRoutes(ctx context.Context) error {
	if !j.config.RefreshRoutes || j.routingService == nil {
		return nil
	}

	j.logger.Debug().Msg("refreshing hub-to-hub routes")

	var lastErr error
	for _, target := range j.config.Targets {
		for i := 0; i+1 < len(target.Points); i++ {
			a, b := target.Points[i], target.Points[i+1]
			_, err := j.routingService.GetRoutes(ctx, routing.RoutesRequest{
				Origin:      geo.Point{Lat: a.Lat, Lon: a.Lon},
				Destination: geo.Point{Lat: b.Lat, Lon: b.Lon},
			})
			if err != nil {
				j.logger.Error().Err(err).
					Str("target", target.Name).
					Msg("failed to refresh hub route")
				lastErr = err
				continue
			}
			atomic.AddInt64(&j.metrics.RouteRefresh, 1)
		}
	}
	return lastErr
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		WeatherRefresh:      j.metrics.WeatherRefresh,
		GeocodingRefresh:    j.metrics.GeocodingRefresh,
		RouteRefresh:        j.metrics.RouteRefresh,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"weather_refreshes":     m.WeatherRefresh,
		"geocoding_refreshes":   m.GeocodingRefresh,
		"route_refreshes":       m.RouteRefresh,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}

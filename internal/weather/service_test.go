package weather_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/weather"
)

type mockProvider struct {
	mu        sync.Mutex
	callCount int
	snapshot  *weather.Snapshot
	err       error
}

func (m *mockProvider) GetSnapshot(_ context.Context, lat, lon float64) (*weather.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	s := *m.snapshot
	s.Lat = lat
	s.Lon = lon
	return &s, nil
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func liveSnapshot() *weather.Snapshot {
	return &weather.Snapshot{
		TemperatureF: 55,
		FeelsLikeF:   52,
		Condition:    weather.ConditionRain,
		Description:  "light rain",
		HumidityPct:  80,
		WindMph:      12,
		VisibilityM:  8000,
		FetchedAt:    time.Now(),
	}
}

func TestService_GetSnapshot(t *testing.T) {
	provider := &mockProvider{snapshot: liveSnapshot()}
	svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	s, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.Equal(t, weather.ConditionRain, s.Condition)
	assert.False(t, s.Mock)
}

func TestService_GetSnapshot_Caching(t *testing.T) {
	provider := &mockProvider{snapshot: liveSnapshot()}
	svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	for i := 0; i < 3; i++ {
		_, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, provider.calls(), "nearby requests should share the cache")
}

func TestService_GetSnapshot_InvalidCoordinates(t *testing.T) {
	svc := weather.NewService(weather.ServiceConfig{Provider: &mockProvider{}, Logger: zerolog.Nop()})

	_, err := svc.GetSnapshot(context.Background(), 95, 0)
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinates)
}

func TestService_GetSnapshot_NilProviderServesMock(t *testing.T) {
	svc := weather.NewService(weather.ServiceConfig{Logger: zerolog.Nop()})

	s, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.True(t, s.Mock)
	assert.Equal(t, weather.ConditionClear, s.Condition)
	assert.Equal(t, 72, s.DisplayTemperature())
}

func TestService_GetSnapshot_ProviderErrorServesMock(t *testing.T) {
	provider := &mockProvider{err: errors.New("upstream down")}
	svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	s, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.True(t, s.Mock)
	assert.InDelta(t, 72.0, s.TemperatureF, 0.001)
	assert.InDelta(t, 45.0, s.HumidityPct, 0.001)
	assert.InDelta(t, 5.0, s.WindMph, 0.001)
	assert.InDelta(t, 5.0, s.UVIndex, 0.001)
	assert.InDelta(t, 10000.0, s.VisibilityM, 0.001)
	assert.Nil(t, s.Sunrise)
	assert.Nil(t, s.Sunset)
	assert.Empty(t, s.Forecast)
}

func TestService_GetSnapshot_StaleBeatsMock(t *testing.T) {
	provider := &mockProvider{snapshot: liveSnapshot()}
	svc := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Nanosecond,
	})

	_, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	provider.setError(errors.New("upstream down"))
	time.Sleep(time.Millisecond)

	s, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.False(t, s.Mock, "stale live data should win over the mock snapshot")
	assert.Equal(t, weather.ConditionRain, s.Condition)
}

func TestService_CacheStats(t *testing.T) {
	provider := &mockProvider{snapshot: liveSnapshot()}
	svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	_, err = svc.GetSnapshot(context.Background(), 48.85, 2.35)
	require.NoError(t, err)

	stats := svc.CacheStats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 2, stats.FreshEntries)
	assert.Equal(t, "mock", stats.Provider)
}

func TestService_InvalidateCache(t *testing.T) {
	provider := &mockProvider{snapshot: liveSnapshot()}
	svc := weather.NewService(weather.ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	svc.InvalidateCache()

	_, err = svc.GetSnapshot(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls())
}

func TestMockSnapshot(t *testing.T) {
	s := weather.MockSnapshot()
	assert.True(t, s.Mock)
	assert.Equal(t, 72, s.DisplayTemperature())
	assert.Equal(t, 72, s.DisplayFeelsLike())
	assert.Equal(t, 5, s.DisplayWind())
	assert.Equal(t, weather.ConditionClear, s.Condition)
	assert.Empty(t, weather.BuildAlerts(s))
}

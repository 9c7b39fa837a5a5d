package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/api"
	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/preference"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/geo"
)

// stubGeocoder returns a single fixed match for any query.
type stubGeocoder struct{}

func (s *stubGeocoder) Search(_ context.Context, query string, _ *geo.Point, _ int) ([]geocoding.Location, error) {
	return []geocoding.Location{
		{Name: "Central Station", Address: "Central Station, Testville", Position: geo.Point{Lat: 52.379, Lon: 4.9}},
	}, nil
}

func (s *stubGeocoder) Reverse(_ context.Context, p geo.Point) (*geocoding.Location, error) {
	return &geocoding.Location{Name: "Somewhere", Address: "Somewhere, Testville", Position: p}, nil
}

func (s *stubGeocoder) Name() string { return "stub" }

// newTestRouter wires the router with nil routing/weather providers (fallback
// path and mock conditions) and in-memory preference storage.
func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	return api.NewRouter(api.RouterConfig{
		Version:   "test",
		BuildTime: "2026-01-01T00:00:00Z",
		Logger:    logger,
		RoutingService: routing.NewService(routing.ServiceConfig{
			Logger: logger,
		}),
		WeatherService: weather.NewService(weather.ServiceConfig{
			Logger: logger,
		}),
		GeocodingService: geocoding.NewService(geocoding.ServiceConfig{
			Provider: &stubGeocoder{},
			Logger:   logger,
		}),
		PreferenceService: preference.NewService(preference.ServiceConfig{
			Repository: preference.NewInMemoryRepository(),
			Logger:     logger,
		}),
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_Version(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/version", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var info models.VersionInfo
	err := json.Unmarshal(w.Body.Bytes(), &info)
	require.NoError(t, err)

	assert.Equal(t, "test", info.Version)
	assert.Equal(t, "2026-01-01T00:00:00Z", info.BuildTime)
}

func TestRouter_ComputeRoutes(t *testing.T) {
	router := newTestRouter()

	input := models.RouteComputeRequest{
		Origin:      &models.Point{Lat: 52.37, Lon: 4.89},
		Destination: &models.Point{Lat: 52.31, Lon: 4.76},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RouteComputeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	// No routing provider: the straight-line fallback still yields a full
	// route set plus a recommendation.
	assert.True(t, resp.Fallback)
	assert.GreaterOrEqual(t, len(resp.Routes), 3)
	require.NotNil(t, resp.Recommendation)
	assert.NotEmpty(t, resp.Recommendation.Reason)

	// No weather provider: the snapshot is the mock.
	require.NotNil(t, resp.Context.Weather)
	assert.True(t, resp.Context.Weather.Mock)
	assert.Equal(t, 72.0, resp.Context.Weather.TemperatureF)
}

func TestRouter_ComputeRoutes_ValidationError(t *testing.T) {
	router := newTestRouter()

	input := models.RouteComputeRequest{
		Origin: &models.Point{Lat: 52.37, Lon: 4.89},
		// Destination missing
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_ComputeRoutes_InvalidCoordinates(t *testing.T) {
	router := newTestRouter()

	input := models.RouteComputeRequest{
		Origin:      &models.Point{Lat: 91.0, Lon: 4.89},
		Destination: &models.Point{Lat: 52.31, Lon: 4.76},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RecommendRoutes(t *testing.T) {
	router := newTestRouter()

	// Compute first, then feed the route set back for re-ranking.
	computeInput := models.RouteComputeRequest{
		Origin:      &models.Point{Lat: 52.37, Lon: 4.89},
		Destination: &models.Point{Lat: 52.31, Lon: 4.76},
	}
	body, _ := json.Marshal(computeInput)
	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var computed models.RouteComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &computed))

	recommendInput := models.RouteRecommendRequest{
		Routes:     computed.Routes,
		Preference: "comfy",
	}
	body, _ = json.Marshal(recommendInput)
	req = httptest.NewRequest(http.MethodPost, "/v1/routes:recommend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RouteRecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Ranked, len(computed.Routes))
	require.NotNil(t, resp.Recommendation)
	assert.Equal(t, resp.Ranked[0].Route.ID, resp.Recommendation.RouteID)
}

func TestRouter_RecommendRoutes_EmptySet(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.RouteRecommendRequest{})
	req := httptest.NewRequest(http.MethodPost, "/v1/routes:recommend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_GeocodeSearch(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/geocode?q=central", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.GeocodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Central Station", resp.Results[0].Name)
}

func TestRouter_GeocodeSearch_EmptyQuery(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/geocode?q=", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.GeocodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestRouter_GeocodeReverse(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/geocode/reverse?lat=52.37&lon=4.89", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.GeocodeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Somewhere", result.Name)
}

func TestRouter_GeocodeReverse_MissingCoordinates(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/geocode/reverse", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Weather(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/weather?lat=52.37&lon=4.89", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshot models.ContextSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))

	require.NotNil(t, snapshot.Weather)
	assert.True(t, snapshot.Weather.Mock)
	assert.Equal(t, "clear", snapshot.Weather.Condition)
	assert.NotEmpty(t, snapshot.Daypart.Band)
}

func TestRouter_Weather_InvalidCoordinates(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/weather?lat=200&lon=4.89", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Preference_DefaultsToSafe(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/preference", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_router_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var pref models.PreferenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pref))
	assert.Equal(t, "safe", pref.Preference)
}

func TestRouter_Preference_PutThenGet(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.PreferenceUpdateRequest{Preference: "comfy"})
	req := httptest.NewRequest(http.MethodPut, "/v1/preference", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess_router_2")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/preference", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_router_2")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var pref models.PreferenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pref))
	assert.Equal(t, "comfy", pref.Preference)
}

func TestRouter_Preference_InvalidValue(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.PreferenceUpdateRequest{Preference: "scenic"})
	req := httptest.NewRequest(http.MethodPut, "/v1/preference", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess_router_3")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CacheStats(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/cache-stats", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats models.CacheStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))

	assert.Equal(t, "fallback", stats.Routing.Provider)
	assert.Equal(t, "none", stats.Weather.Provider)
	assert.Equal(t, "stub", stats.Geocoding.Provider)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Session_Lifecycle(t *testing.T) {
	router := newTestRouter()

	// Compute routes under a session; the result is installed as that
	// session's selection state.
	body, _ := json.Marshal(models.RouteComputeRequest{
		Origin:      &models.Point{Lat: 52.37, Lon: 4.89},
		Destination: &models.Point{Lat: 52.38, Lon: 4.9},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess_state_1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var computed models.RouteComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &computed))
	require.NotNil(t, computed.Recommendation)

	// The session snapshot holds the computed set with the recommendation
	// as the active selection.
	req = httptest.NewRequest(http.MethodGet, "/v1/session", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_state_1")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var state models.SessionStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Len(t, state.Routes, len(computed.Routes))
	assert.Equal(t, computed.Recommendation.RouteID, state.ActiveRouteID)
	assert.NotEmpty(t, state.Daypart.Band)

	// Select a different route from the set.
	var otherID string
	for _, rt := range state.Routes {
		if rt.ID != state.ActiveRouteID {
			otherID = rt.ID
			break
		}
	}
	require.NotEmpty(t, otherID)

	body, _ = json.Marshal(models.SessionSelectionRequest{RouteID: otherID})
	req = httptest.NewRequest(http.MethodPut, "/v1/session/selection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess_state_1")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/session", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_state_1")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, otherID, state.ActiveRouteID)

	// Clearing the session drops everything.
	req = httptest.NewRequest(http.MethodDelete, "/v1/session", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_state_1")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/session", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_state_1")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	state = models.SessionStateResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.Routes)
	assert.Empty(t, state.ActiveRouteID)
}

func TestRouter_Session_RecomputeReplacesState(t *testing.T) {
	router := newTestRouter()

	compute := func(destLat float64) models.RouteComputeResponse {
		body, _ := json.Marshal(models.RouteComputeRequest{
			Origin:      &models.Point{Lat: 52.37, Lon: 4.89},
			Destination: &models.Point{Lat: destLat, Lon: 4.9},
		})
		req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-Id", "sess_state_2")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.RouteComputeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	compute(52.38)
	second := compute(52.42)

	// The session holds only the most recent route set.
	req := httptest.NewRequest(http.MethodGet, "/v1/session", http.NoBody)
	req.Header.Set("X-Session-Id", "sess_state_2")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var state models.SessionStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Len(t, state.Routes, len(second.Routes))
	ids := make(map[string]bool, len(second.Routes))
	for _, rt := range second.Routes {
		ids[rt.ID] = true
	}
	for _, rt := range state.Routes {
		assert.True(t, ids[rt.ID])
	}
}

func TestRouter_Session_MissingHeader(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/session", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SessionSelection_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.SessionSelectionRequest{RouteID: "no-such-route"})
	req := httptest.NewRequest(http.MethodPut, "/v1/session/selection", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "sess_state_3")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

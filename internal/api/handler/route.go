package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/preference"
	"github.com/saferoute/saferoute/internal/recommend"
	"github.com/saferoute/saferoute/internal/route"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/session"
	"github.com/saferoute/saferoute/internal/weather"
)

// RouteHandler handles route computation and recommendation endpoints.
type RouteHandler struct {
	routes   *routing.Service
	weather  *weather.Service
	prefs    *preference.Service
	sessions *session.Manager
	metrics  *middleware.Metrics
}

// NewRouteHandler creates a new RouteHandler. Metrics may be nil.
func NewRouteHandler(routes *routing.Service, wx *weather.Service, prefs *preference.Service, sessions *session.Manager, metrics *middleware.Metrics) *RouteHandler {
	return &RouteHandler{
		routes:   routes,
		weather:  wx,
		prefs:    prefs,
		sessions: sessions,
		metrics:  metrics,
	}
}

// ComputeRoutes handles POST /v1/routes:compute - fetch, characterize, and
// rank walking routes. Provider outages never fail the request; the response
// degrades to the straight-line fallback and mock conditions instead.
func (h *RouteHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Origin == nil || input.Destination == nil {
		response.BadRequest(w, r, "origin and destination are required", []models.FieldError{
			{Field: "origin", Message: "required"},
			{Field: "destination", Message: "required"},
		})
		return
	}

	origin := fromPointModel(*input.Origin)
	destination := fromPointModel(*input.Destination)

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = r.Header.Get(sessionHeader)
	}

	// Register the fetch before touching the provider: a newer compute for
	// the same session supersedes this one, and our result is dropped on
	// arrival no matter which request finishes first.
	var coord *session.Coordinator
	var fetchToken uint64
	if sessionID != "" && h.sessions != nil {
		coord = h.sessions.Get(sessionID)
		fetchToken = coord.BeginFetch()
	}

	routesResp, err := h.routes.GetRoutes(r.Context(), routing.RoutesRequest{
		Origin:      origin,
		Destination: destination,
	})
	if err != nil {
		var routingErr *routing.Error
		if errors.As(err, &routingErr) && errors.Is(err, routing.ErrInvalidCoordinates) {
			response.BadRequest(w, r, routingErr.Message, nil)
			return
		}
		response.InternalError(w, r, "route computation failed")
		return
	}

	routeSet := route.BuildRouteSet(routesResp.Paths, origin, destination)

	snapshot, err := h.weather.GetSnapshot(r.Context(), origin.Lat, origin.Lon)
	if err != nil {
		snapshot = weather.MockSnapshot()
	}
	alerts := weather.BuildAlerts(snapshot)
	tc := buildDaypart(time.Now(), snapshot)

	pref := recommend.DefaultPreference
	if sessionID != "" {
		pref = h.prefs.Get(r.Context(), sessionID)
	}

	rec := recommend.Recommend(routeSet, pref, snapshot, tc)

	if coord != nil {
		coord.CompleteFetch(fetchToken, routeSet, rec)
	}

	if h.metrics != nil {
		if rec != nil {
			h.metrics.RecordRecommendation(r.Context(), string(rec.RouteType), string(pref))
		}
		if routesResp.Fallback {
			h.metrics.RecordFallbackRoute(r.Context())
		}
	}

	options := make([]models.RouteOption, len(routeSet))
	for i, rt := range routeSet {
		options[i] = toRouteOption(rt)
	}

	resp := models.RouteComputeResponse{
		GeneratedAt: models.Timestamp(time.Now()),
		Provider:    routesResp.Provider,
		Fallback:    routesResp.Fallback,
		Routes:      options,
		Context: models.ContextSnapshot{
			Weather: toWeatherModel(snapshot),
			Daypart: toDaypartModel(tc),
			Alerts:  toAlertModels(alerts),
		},
		Recommendation: toRecommendationModel(rec),
	}

	response.JSONCached(w, r, http.StatusOK, 60, resp)
}

// RecommendRoutes handles POST /v1/routes:recommend - re-rank a posted route
// set. Clients that keep routes locally use this to refresh the pick when
// conditions change.
func (h *RouteHandler) RecommendRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if len(input.Routes) == 0 {
		response.BadRequest(w, r, "at least one route is required", []models.FieldError{
			{Field: "routes", Message: "must not be empty"},
		})
		return
	}

	pref := recommend.Preference(input.Preference)
	if !pref.Valid() {
		if input.Preference != "" {
			response.BadRequest(w, r, "invalid preference", []models.FieldError{
				{Field: "preference", Message: "must be one of: safe, fast, comfy"},
			})
			return
		}
		pref = recommend.DefaultPreference
	}

	snapshot := fromWeatherModel(input.Weather)
	if snapshot == nil {
		snapshot = weather.MockSnapshot()
	}

	at := time.Now()
	if input.At != nil {
		at = input.At.Time()
	}
	tc := buildDaypart(at, snapshot)

	routeSet := make([]route.Route, len(input.Routes))
	for i, m := range input.Routes {
		routeSet[i] = fromRouteOption(m)
	}

	ranked := recommend.Rank(routeSet, pref, snapshot, tc)
	rec := recommend.Recommend(routeSet, pref, snapshot, tc)

	response.JSON(w, r, http.StatusOK, models.RouteRecommendResponse{
		Ranked:         toScoredRouteModels(ranked),
		Recommendation: toRecommendationModel(rec),
	})
}

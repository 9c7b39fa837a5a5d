package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/weather"
)

// WeatherHandler handles the conditions snapshot endpoint.
type WeatherHandler struct {
	weather *weather.Service
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(wx *weather.Service) *WeatherHandler {
	return &WeatherHandler{weather: wx}
}

// GetConditions handles GET /v1/weather?lat=&lon= - the full conditions
// snapshot: weather, time-of-day context, and derived alerts.
func (h *WeatherHandler) GetConditions(w http.ResponseWriter, r *http.Request) {
	p, fieldErrors := parsePointParams(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	snapshot, err := h.weather.GetSnapshot(r.Context(), p.Lat, p.Lon)
	if err != nil {
		if errors.Is(err, weather.ErrInvalidCoordinates) {
			response.BadRequest(w, r, "coordinates out of range", nil)
			return
		}
		response.InternalError(w, r, "weather lookup failed")
		return
	}

	alerts := weather.BuildAlerts(snapshot)
	tc := buildDaypart(time.Now(), snapshot)

	response.JSONCached(w, r, http.StatusOK, 60, models.ContextSnapshot{
		Weather: toWeatherModel(snapshot),
		Daypart: toDaypartModel(tc),
		Alerts:  toAlertModels(alerts),
	})
}

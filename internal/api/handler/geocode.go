package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/pkg/geo"
)

// GeocodeHandler handles place search and reverse geocoding.
type GeocodeHandler struct {
	geocoder *geocoding.Service
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder *geocoding.Service) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// Search handles GET /v1/geocode?q=&lat=&lon= - place search. The lat/lon
// pair is an optional proximity hint. An empty query returns an empty result
// list without touching the provider.
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var near *geo.Point
	latStr, lonStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lon")
	if latStr != "" || lonStr != "" {
		p, fieldErrors := parsePointParams(latStr, lonStr)
		if fieldErrors != nil {
			response.BadRequest(w, r, "invalid proximity hint", fieldErrors)
			return
		}
		near = &p
	}

	locations, err := h.geocoder.Search(r.Context(), query, near)
	if err != nil {
		response.InternalError(w, r, "search failed")
		return
	}

	results := make([]models.GeocodeResult, len(locations))
	for i, loc := range locations {
		results[i] = models.GeocodeResult{
			Name:    loc.Name,
			Address: loc.Address,
			Point:   toPointModel(loc.Position),
		}
	}

	response.JSONCached(w, r, http.StatusOK, 300, models.GeocodeResponse{Results: results})
}

// Reverse handles GET /v1/geocode/reverse?lat=&lon= - coordinate to place
// name. Provider failures still return a result named after the coordinate.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	p, fieldErrors := parsePointParams(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	loc, err := h.geocoder.Reverse(r.Context(), p)
	if err != nil {
		if errors.Is(err, geocoding.ErrInvalidCoordinates) {
			response.BadRequest(w, r, "coordinates out of range", nil)
			return
		}
		response.InternalError(w, r, "reverse geocoding failed")
		return
	}

	response.JSONCached(w, r, http.StatusOK, 300, models.GeocodeResult{
		Name:    loc.Name,
		Address: loc.Address,
		Point:   toPointModel(loc.Position),
	})
}

// parsePointParams parses required lat/lon query parameters, returning field
// errors for anything missing or malformed.
func parsePointParams(latStr, lonStr string) (geo.Point, []models.FieldError) {
	var fieldErrors []models.FieldError

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be a number"})
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be a number"})
	}
	if fieldErrors != nil {
		return geo.Point{}, fieldErrors
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

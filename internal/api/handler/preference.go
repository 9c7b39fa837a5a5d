package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/preference"
	"github.com/saferoute/saferoute/internal/recommend"
)

// sessionHeader carries the client session identifier that scopes stored
// preferences.
const sessionHeader = "X-Session-Id"

// PreferenceHandler handles the session preference endpoints.
type PreferenceHandler struct {
	prefs *preference.Service
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(prefs *preference.Service) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// GetPreference handles GET /v1/preference. A session with no stored
// preference reads as the default.
func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		response.JSON(w, r, http.StatusOK, models.PreferenceResponse{
			Preference: string(recommend.DefaultPreference),
		})
		return
	}

	pref := h.prefs.Get(r.Context(), sessionID)
	response.JSON(w, r, http.StatusOK, models.PreferenceResponse{
		SessionID:  sessionID,
		Preference: string(pref),
	})
}

// SetPreference handles PUT /v1/preference.
func (h *PreferenceHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		response.BadRequest(w, r, "missing "+sessionHeader+" header", nil)
		return
	}

	var input models.PreferenceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := h.prefs.Set(r.Context(), sessionID, recommend.Preference(input.Preference)); err != nil {
		if errors.Is(err, preference.ErrInvalidPreference) {
			response.BadRequest(w, r, "invalid preference", []models.FieldError{
				{Field: "preference", Message: "must be one of: safe, fast, comfy"},
			})
			return
		}
		response.InternalError(w, r, "failed to store preference")
		return
	}

	response.NoContent(w, r)
}

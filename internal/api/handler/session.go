package handler

import (
	"encoding/json"
	"net/http"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/session"
)

// SessionHandler exposes the per-session route selection state.
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GetState handles GET /v1/session - the current route set, active
// selection, and recommendation for the caller's session. A session that
// never computed routes reads as empty.
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		response.BadRequest(w, r, "missing "+sessionHeader+" header", nil)
		return
	}

	snap := h.sessions.Get(sessionID).State()

	options := make([]models.RouteOption, len(snap.Routes))
	for i, rt := range snap.Routes {
		options[i] = toRouteOption(rt)
	}

	response.JSON(w, r, http.StatusOK, models.SessionStateResponse{
		SessionID:      sessionID,
		Routes:         options,
		ActiveRouteID:  snap.ActiveRouteID,
		Recommendation: toRecommendationModel(snap.Recommendation),
		Daypart:        toDaypartModel(h.sessions.TimeContext()),
	})
}

// SetSelection handles PUT /v1/session/selection - change the active route.
// The route must belong to the session's current set.
func (h *SessionHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		response.BadRequest(w, r, "missing "+sessionHeader+" header", nil)
		return
	}

	var input models.SessionSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.RouteID == "" {
		response.BadRequest(w, r, "routeId is required", []models.FieldError{
			{Field: "routeId", Message: "required"},
		})
		return
	}

	if !h.sessions.Get(sessionID).SetActive(input.RouteID) {
		response.NotFound(w, r, "route not in the current route set")
		return
	}

	response.NoContent(w, r)
}

// ClearSession handles DELETE /v1/session - drop all selection state for
// the session. In-flight route computations for it become stale.
func (h *SessionHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		response.BadRequest(w, r, "missing "+sessionHeader+" header", nil)
		return
	}

	h.sessions.Drop(sessionID)
	response.NoContent(w, r)
}

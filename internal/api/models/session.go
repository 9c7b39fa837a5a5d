package models

// SessionStateResponse is a consistent snapshot of one session's route
// selection state, plus the current time-of-day context.
type SessionStateResponse struct {
	SessionID      string          `json:"sessionId"`
	Routes         []RouteOption   `json:"routes"`
	ActiveRouteID  string          `json:"activeRouteId,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Daypart        Daypart         `json:"daypart"`
}

// SessionSelectionRequest changes the active route within the session's
// current route set.
type SessionSelectionRequest struct {
	RouteID string `json:"routeId" validate:"required"`
}

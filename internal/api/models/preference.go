package models

// PreferenceResponse is the stored route preference for a session.
type PreferenceResponse struct {
	SessionID  string `json:"sessionId"`
	Preference string `json:"preference"`
}

// PreferenceUpdateRequest sets the route preference for a session.
type PreferenceUpdateRequest struct {
	Preference string `json:"preference" validate:"required,oneof=safe fast comfy"`
}

package models

// RouteComputeRequest asks for walking route options between two points.
type RouteComputeRequest struct {
	Origin      *Point `json:"origin" validate:"required"`
	Destination *Point `json:"destination" validate:"required"`
	// SessionID scopes the stored preference used for the recommendation.
	SessionID string `json:"sessionId,omitempty"`
}

// RouteComputeResponse is the full result of a compute request: the
// characterized route set, the conditions snapshot it was ranked under, and
// the winning recommendation.
type RouteComputeResponse struct {
	GeneratedAt    Timestamp        `json:"generatedAt"`
	Provider       string           `json:"provider"`
	Fallback       bool             `json:"fallback"`
	Routes         []RouteOption    `json:"routes"`
	Context        ContextSnapshot  `json:"context"`
	Recommendation *Recommendation  `json:"recommendation,omitempty"`
}

// RouteRecommendRequest re-ranks a previously computed route set. Weather and
// time are optional; when omitted the ranking uses mock conditions and the
// server clock.
type RouteRecommendRequest struct {
	Routes     []RouteOption    `json:"routes" validate:"required,min=1"`
	Preference string           `json:"preference,omitempty"`
	Weather    *WeatherSnapshot `json:"weather,omitempty"`
	At         *Timestamp       `json:"at,omitempty"`
}

// RouteRecommendResponse carries the ranked routes and the recommendation.
type RouteRecommendResponse struct {
	Ranked         []ScoredRoute   `json:"ranked"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// RouteOption is a fully characterized walking route candidate.
type RouteOption struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	DistanceMeters  float64        `json:"distanceMeters"`
	DurationSeconds float64        `json:"durationSeconds"`
	Geometry        []Point        `json:"geometry,omitempty"`
	Steps           []RouteStep    `json:"steps,omitempty"`
	Tags            []string       `json:"tags"`
	NightFriendly   bool           `json:"nightFriendly"`
	Safety          SafetyProfile  `json:"safety"`
	Comfort         ComfortProfile `json:"comfort"`
}

// RouteStep is one instruction of a route.
type RouteStep struct {
	Instruction     string      `json:"instruction"`
	DistanceMeters  float64     `json:"distanceMeters"`
	DurationSeconds float64     `json:"durationSeconds"`
	Maneuver        Maneuver    `json:"maneuver"`
	Comfort         StepComfort `json:"comfort"`
}

// Maneuver describes the action taken at a step.
type Maneuver struct {
	Kind     string `json:"kind"`
	Modifier string `json:"modifier,omitempty"`
	Location Point  `json:"location"`
}

// StepComfort is a per-step comfort descriptor.
type StepComfort struct {
	Lighting string `json:"lighting"`
	Terrain  string `json:"terrain"`
	Shaded   bool   `json:"shaded"`
}

// SafetyProfile summarizes route safety.
type SafetyProfile struct {
	Lighting         string `json:"lighting"`
	LightingNote     string `json:"lightingNote"`
	CrossingCount    int    `json:"crossingCount"`
	CrossingNote     string `json:"crossingNote"`
	SidewalkCoverage string `json:"sidewalkCoverage"`
	SidewalkNote     string `json:"sidewalkNote"`
	BusyRoadCount    int    `json:"busyRoadCount"`
	BusyRoadNote     string `json:"busyRoadNote"`
}

// ComfortProfile summarizes route comfort.
type ComfortProfile struct {
	HillLevel     string   `json:"hillLevel"`
	HillNote      string   `json:"hillNote"`
	ShadePercent  int      `json:"shadePercent"`
	ShadeNote     string   `json:"shadeNote"`
	RestSpotCount int      `json:"restSpotCount"`
	RestSpotKinds []string `json:"restSpotKinds,omitempty"`
	RestSpotNote  string   `json:"restSpotNote"`
}

// ScoredRoute pairs a route with its ranking score and the tags that
// contributed to it.
type ScoredRoute struct {
	Route RouteOption `json:"route"`
	Score float64     `json:"score"`
	Tags  []string    `json:"tags,omitempty"`
}

// Recommendation is the engine's pick with a human-readable reason.
type Recommendation struct {
	RouteID   string   `json:"routeId"`
	RouteType string   `json:"routeType"`
	Tags      []string `json:"tags,omitempty"`
	Reason    string   `json:"reason"`
	Score     float64  `json:"score"`
}

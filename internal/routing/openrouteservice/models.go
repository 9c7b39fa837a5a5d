package openrouteservice

// Request/response shapes for the ORS directions API (v2, JSON format).

type orsRequest struct {
	Coordinates       [][]float64            `json:"coordinates"`
	AlternativeRoutes *alternativeRoutesOpts `json:"alternative_routes,omitempty"`
	Instructions      bool                   `json:"instructions"`
	Maneuvers         bool                   `json:"maneuvers"`
	Geometry          bool                   `json:"geometry"`
	Units             string                 `json:"units"`
	Language          string                 `json:"language"`
}

type alternativeRoutesOpts struct {
	TargetCount int `json:"target_count"`
}

type orsResponse struct {
	Routes []orsRoute `json:"routes"`
}

type orsRoute struct {
	Summary  orsSummary   `json:"summary"`
	Segments []orsSegment `json:"segments"`
	Geometry string       `json:"geometry"`
	BBox     []float64    `json:"bbox"`
}

type orsSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type orsSegment struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Steps    []orsStep `json:"steps"`
}

type orsStep struct {
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
	Type        int     `json:"type"`
	Instruction string  `json:"instruction"`
	WayPoints   []int   `json:"way_points"`
}

type orsErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ORS instruction type codes for the directions API.
const (
	orsTypeTurnLeft        = 0
	orsTypeTurnRight       = 1
	orsTypeSharpLeft       = 2
	orsTypeSharpRight      = 3
	orsTypeSlightLeft      = 4
	orsTypeSlightRight     = 5
	orsTypeStraight        = 6
	orsTypeEnterRoundabout = 7
	orsTypeExitRoundabout  = 8
	orsTypeUTurn           = 9
	orsTypeGoal            = 10
	orsTypeDepart          = 11
	orsTypeKeepLeft        = 12
	orsTypeKeepRight       = 13
)

// orsErrorCodeNotFound is the ORS routability error for unreachable points.
const orsErrorCodeNotFound = 2009

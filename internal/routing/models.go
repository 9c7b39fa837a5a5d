// Package routing provides pedestrian route retrieval with caching and a
// straight-line fallback so callers always get at least one usable path.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/saferoute/saferoute/pkg/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no walking route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoutes retrieves walking route alternatives between two points.
	GetRoutes(ctx context.Context, req RoutesRequest) (*RoutesResponse, error)
	// Name returns the provider identifier for logging.
	Name() string
}

// RoutesRequest is the request for computing walking routes.
type RoutesRequest struct {
	Origin          geo.Point
	Destination     geo.Point
	MaxAlternatives int // additional alternatives beyond the first route (default: 3)
}

// RoutesResponse is the response containing raw path alternatives.
type RoutesResponse struct {
	Paths     []Path
	Provider  string
	Fallback  bool // true when paths were synthesized locally, not fetched
	FetchedAt time.Time
}

// Path is a single raw walking path as returned by the provider.
type Path struct {
	Geometry        []geo.Point
	DistanceMeters  float64
	DurationSeconds float64
	Steps           []Step
}

// Step is one maneuver instruction along a path.
type Step struct {
	Instruction     string
	DistanceMeters  float64
	DurationSeconds float64
	Maneuver        Maneuver
}

// Maneuver describes the action taken at a step.
type Maneuver struct {
	Kind     ManeuverKind
	Modifier string // e.g. "left", "slight right"; empty when not applicable
	Location geo.Point
}

// ManeuverKind is the closed set of maneuver categories this system
// understands. Provider-specific codes are mapped into it by the clients.
type ManeuverKind string

const (
	ManeuverDepart    ManeuverKind = "depart"
	ManeuverTurn      ManeuverKind = "turn"
	ManeuverContinue  ManeuverKind = "continue"
	ManeuverEndOfRoad ManeuverKind = "end of road"
	ManeuverArrive    ManeuverKind = "arrive"
)

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the request can be retried later.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}

package geocoding

import (
	"context"
	"errors"

	"github.com/saferoute/saferoute/pkg/geo"
)

// Geocoding errors.
var (
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Location is a named place resolved from a search query or a coordinate.
type Location struct {
	// Name is the short display name ("Central Station").
	Name string

	// Address is the full formatted address.
	Address string

	// Position is the location's coordinate.
	Position geo.Point
}

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Search resolves a free-text query to a ranked list of locations.
	// near, when non-nil, biases results toward that point.
	Search(ctx context.Context, query string, near *geo.Point, limit int) ([]Location, error)

	// Reverse resolves a coordinate to the nearest named location.
	Reverse(ctx context.Context, p geo.Point) (*Location, error)

	// Name returns the provider name for logging.
	Name() string
}

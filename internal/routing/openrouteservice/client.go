// Package openrouteservice provides a client for the OpenRouteService
// foot-walking directions API.
package openrouteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/pkg/geo"
	"github.com/saferoute/saferoute/pkg/polyline"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// walkingProfile is the ORS pedestrian routing profile.
	walkingProfile = "foot-walking"
)

// ClientConfig holds configuration for the OpenRouteService client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the ORS API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouteService API client for walking directions.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new OpenRouteService client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetRoutes retrieves walking route alternatives between two points.
func (c *Client) GetRoutes(ctx context.Context, req routing.RoutesRequest) (*routing.RoutesResponse, error) {
	maxAlts := req.MaxAlternatives
	if maxAlts <= 0 {
		maxAlts = 3
	}

	orsReq := orsRequest{
		// ORS takes [lon, lat] pairs (GeoJSON order).
		Coordinates: [][]float64{
			{req.Origin.Lon, req.Origin.Lat},
			{req.Destination.Lon, req.Destination.Lat},
		},
		AlternativeRoutes: &alternativeRoutesOpts{TargetCount: maxAlts},
		Instructions:      true,
		Maneuvers:         true,
		Geometry:          true,
		Units:             "m",
		Language:          "en",
	}

	body, err := json.Marshal(orsReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, walkingProfile)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json, application/geo+json")

	c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Msg("requesting walking directions from ORS")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var orsResp orsResponse
	if err := json.Unmarshal(respBody, &orsResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result := c.toRoutesResponse(&orsResp)

	c.logger.Debug().
		Int("path_count", len(result.Paths)).
		Msg("received walking directions from ORS")

	return result, nil
}

// handleErrorResponse maps ORS error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var orsErr orsErrorResponse
	_ = json.Unmarshal(body, &orsErr)

	switch statusCode {
	case http.StatusTooManyRequests:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case http.StatusForbidden:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "API access denied - check API key configuration",
			Err:      routing.ErrProviderUnavailable,
		}
	case http.StatusNotFound:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case http.StatusBadRequest:
		if orsErr.Error.Code == orsErrorCodeNotFound {
			return &routing.Error{
				Provider: ProviderName,
				Code:     "NO_ROUTE",
				Message:  orsErr.Error.Message,
				Err:      routing.ErrNoRouteFound,
			}
		}
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  orsErr.Error.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toRoutesResponse converts an ORS response to the domain model.
func (c *Client) toRoutesResponse(resp *orsResponse) *routing.RoutesResponse {
	paths := make([]routing.Path, 0, len(resp.Routes))

	for i := range resp.Routes {
		orsRoute := &resp.Routes[i]
		geometry := polyline.Decode(orsRoute.Geometry)

		path := routing.Path{
			Geometry:        geometry,
			DistanceMeters:  orsRoute.Summary.Distance,
			DurationSeconds: orsRoute.Summary.Duration,
		}

		for j := range orsRoute.Segments {
			for k := range orsRoute.Segments[j].Steps {
				step := &orsRoute.Segments[j].Steps[k]
				path.Steps = append(path.Steps, routing.Step{
					Instruction:     step.Instruction,
					DistanceMeters:  step.Distance,
					DurationSeconds: step.Duration,
					Maneuver: routing.Maneuver{
						Kind:     maneuverKind(step.Type),
						Modifier: maneuverModifier(step.Type),
						Location: stepLocation(geometry, step.WayPoints),
					},
				})
			}
		}

		paths = append(paths, path)
	}

	return &routing.RoutesResponse{
		Paths:     paths,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
}

// maneuverKind maps ORS instruction type codes onto the domain maneuver set.
// Roundabout entries/exits are treated as end-of-road junctions since the
// walked road terminates there.
func maneuverKind(orsType int) routing.ManeuverKind {
	switch orsType {
	case orsTypeDepart:
		return routing.ManeuverDepart
	case orsTypeGoal:
		return routing.ManeuverArrive
	case orsTypeStraight:
		return routing.ManeuverContinue
	case orsTypeEnterRoundabout, orsTypeExitRoundabout:
		return routing.ManeuverEndOfRoad
	default:
		return routing.ManeuverTurn
	}
}

// maneuverModifier returns the direction qualifier for turn-like steps.
func maneuverModifier(orsType int) string {
	switch orsType {
	case orsTypeTurnLeft:
		return "left"
	case orsTypeTurnRight:
		return "right"
	case orsTypeSharpLeft:
		return "sharp left"
	case orsTypeSharpRight:
		return "sharp right"
	case orsTypeSlightLeft, orsTypeKeepLeft:
		return "slight left"
	case orsTypeSlightRight, orsTypeKeepRight:
		return "slight right"
	case orsTypeUTurn:
		return "u-turn"
	default:
		return ""
	}
}

// stepLocation resolves the step's maneuver point from its way_points
// index into the decoded geometry.
func stepLocation(geometry []geo.Point, wayPoints []int) geo.Point {
	if len(wayPoints) == 0 || len(geometry) == 0 {
		return geo.Point{}
	}
	idx := wayPoints[0]
	if idx < 0 || idx >= len(geometry) {
		return geo.Point{}
	}
	return geometry[idx]
}

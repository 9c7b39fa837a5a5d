package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geocoding"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/pkg/geo"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// Nominatim's usage policy requires an identifying User-Agent.
	defaultUserAgent = "saferoute/1.0"

	// viewboxRadiusDeg is the half-size of the proximity bias box in degrees.
	viewboxRadiusDeg = 0.25
)

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public instance).
	BaseURL string

	// UserAgent overrides the User-Agent header (optional).
	UserAgent string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("nominatim"))
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search resolves a free-text query to a ranked list of locations.
func (c *Client) Search(ctx context.Context, query string, near *geo.Point, limit int) ([]geocoding.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))

	if near != nil {
		// Bias, but do not restrict, results toward the hint.
		params.Set("viewbox", fmt.Sprintf("%.4f,%.4f,%.4f,%.4f",
			near.Lon-viewboxRadiusDeg, near.Lat+viewboxRadiusDeg,
			near.Lon+viewboxRadiusDeg, near.Lat-viewboxRadiusDeg))
		params.Set("bounded", "0")
	}

	var places []nominatimPlace
	if err := c.get(ctx, c.baseURL+"/search?"+params.Encode(), &places); err != nil {
		return nil, err
	}

	locations := make([]geocoding.Location, 0, len(places))
	for _, p := range places {
		loc, err := toLocation(&p)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("display_name", p.DisplayName).
				Msg("skipping unparseable search result")
			continue
		}
		locations = append(locations, *loc)
	}

	return locations, nil
}

// Reverse resolves a coordinate to the nearest named location.
func (c *Client) Reverse(ctx context.Context, p geo.Point) (*geocoding.Location, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", p.Lat))
	params.Set("lon", fmt.Sprintf("%.6f", p.Lon))
	params.Set("format", "jsonv2")

	var place nominatimPlace
	if err := c.get(ctx, c.baseURL+"/reverse?"+params.Encode(), &place); err != nil {
		return nil, err
	}

	if place.DisplayName == "" {
		return nil, nil
	}

	return toLocation(&place)
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status code %d", geocoding.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// toLocation converts a Nominatim place to the domain model.
// Nominatim encodes coordinates as decimal strings.
func toLocation(p *nominatimPlace) (*geocoding.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", p.Lon, err)
	}

	name := p.Name
	if name == "" {
		name = p.DisplayName
		if idx := strings.Index(name, ","); idx > 0 {
			name = name[:idx]
		}
	}

	return &geocoding.Location{
		Name:     name,
		Address:  p.DisplayName,
		Position: geo.Point{Lat: lat, Lon: lon},
	}, nil
}

// Nominatim API response structure.

type nominatimPlace struct {
	PlaceID     int64  `json:"place_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultOneCallURL is the OpenWeatherMap OneCall API 3.0 base URL.
	DefaultOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"

	// maxForecastPoints caps the hourly forecast carried in a snapshot.
	maxForecastPoints = 12
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// OneCallURL is the OneCall API URL (optional, defaults to OneCall 3.0).
	OneCallURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient resilience.Doer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	oneCallURL string
	httpClient resilience.Doer
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	oneCallURL := cfg.OneCallURL
	if oneCallURL == "" {
		oneCallURL = DefaultOneCallURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("openweathermap"))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		oneCallURL: oneCallURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetSnapshot fetches current conditions plus the hourly forecast.
// The forecast call is best-effort: when it fails the snapshot is returned
// without forecast points or UV index.
func (c *Client) GetSnapshot(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	current, err := c.getCurrent(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	snapshot := c.toSnapshot(current)

	oneCall, err := c.getOneCall(ctx, lat, lon)
	if err != nil {
		c.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("hourly forecast fetch failed, serving current conditions only")
		return snapshot, nil
	}

	snapshot.UVIndex = oneCall.Current.UVI
	snapshot.Forecast = toForecast(oneCall, snapshot.FetchedAt)

	return snapshot, nil
}

func (c *Client) getCurrent(ctx context.Context, lat, lon float64) (*currentWeatherResponse, error) {
	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s",
		c.baseURL, lat, lon, c.apiKey)

	var resp currentWeatherResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) getOneCall(ctx context.Context, lat, lon float64) (*oneCallResponse, error) {
	url := fmt.Sprintf("%s?lat=%.6f&lon=%.6f&appid=%s&exclude=minutely,daily,alerts",
		c.oneCallURL, lat, lon, c.apiKey)

	var resp oneCallResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status code %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// toSnapshot converts the current-weather response to the domain model.
// OpenWeatherMap reports Kelvin and m/s when no units parameter is sent.
func (c *Client) toSnapshot(resp *currentWeatherResponse) *weather.Snapshot {
	snapshot := &weather.Snapshot{
		Lat:          resp.Coord.Lat,
		Lon:          resp.Coord.Lon,
		TemperatureF: weather.KelvinToFahrenheit(resp.Main.Temp),
		FeelsLikeF:   weather.KelvinToFahrenheit(resp.Main.FeelsLike),
		HumidityPct:  resp.Main.Humidity,
		WindMph:      weather.MpsToMph(resp.Wind.Speed),
		VisibilityM:  float64(resp.Visibility),
		Forecast:     []weather.ForecastPoint{},
		FetchedAt:    time.Now(),
	}

	if len(resp.Weather) > 0 {
		snapshot.Condition = weather.MapConditionCode(resp.Weather[0].ID)
		snapshot.Description = resp.Weather[0].Description
	} else {
		snapshot.Condition = weather.ConditionClouds
	}

	if resp.Sys.Sunrise > 0 {
		sunrise := time.Unix(resp.Sys.Sunrise, 0)
		snapshot.Sunrise = &sunrise
	}
	if resp.Sys.Sunset > 0 {
		sunset := time.Unix(resp.Sys.Sunset, 0)
		snapshot.Sunset = &sunset
	}

	return snapshot
}

// toForecast converts OneCall hourly entries to forecast points, keeping
// only future hours, soonest first, capped at maxForecastPoints.
func toForecast(resp *oneCallResponse, now time.Time) []weather.ForecastPoint {
	points := make([]weather.ForecastPoint, 0, maxForecastPoints)

	for _, h := range resp.Hourly {
		at := time.Unix(h.Dt, 0)
		if !at.After(now) {
			continue
		}

		point := weather.ForecastPoint{
			Time:            at,
			TemperatureF:    weather.KelvinToFahrenheit(h.Temp),
			PrecipChancePct: h.Pop * 100,
			PrecipAmountMM:  h.Rain.OneHour + h.Snow.OneHour,
		}
		if len(h.Weather) > 0 {
			point.Condition = weather.MapConditionCode(h.Weather[0].ID)
		} else {
			point.Condition = weather.ConditionClouds
		}

		points = append(points, point)
		if len(points) == maxForecastPoints {
			break
		}
	}

	return points
}

// OpenWeatherMap API response structures.

type currentWeatherResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Name string `json:"name"`
}

type oneCallResponse struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Current struct {
		Dt  int64   `json:"dt"`
		UVI float64 `json:"uvi"`
	} `json:"current"`
	Hourly []struct {
		Dt       int64   `json:"dt"`
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pop      float64 `json:"pop"` // Probability of precipitation, 0-1
		Rain     struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
		Snow struct {
			OneHour float64 `json:"1h"`
		} `json:"snow"`
		Weather []struct {
			ID          int    `json:"id"`
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"hourly"`
}

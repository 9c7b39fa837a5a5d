package openweathermap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/weather"
)

func currentBody() string {
	return `{
		"coord": {"lat": 52.37, "lon": 4.89},
		"weather": [{"id": 500, "main": "Rain", "description": "light rain"}],
		"main": {"temp": 284.15, "feels_like": 282.0, "pressure": 1012, "humidity": 81},
		"visibility": 8000,
		"wind": {"speed": 5.2, "deg": 220},
		"clouds": {"all": 90},
		"dt": 1700000000,
		"sys": {"sunrise": 1699942800, "sunset": 1699974000},
		"name": "Amsterdam"
	}`
}

func oneCallBody(start time.Time) string {
	var hours []string
	for i := 1; i <= 15; i++ {
		hours = append(hours, fmt.Sprintf(
			`{"dt": %d, "temp": 283.15, "pop": 0.6, "rain": {"1h": 0.4}, "weather": [{"id": 501, "main": "Rain", "description": "moderate rain"}]}`,
			start.Add(time.Duration(i)*time.Hour).Unix()))
	}
	return fmt.Sprintf(`{"lat": 52.37, "lon": 4.89, "current": {"dt": %d, "uvi": 2.5}, "hourly": [%s]}`,
		start.Unix(), strings.Join(hours, ","))
}

func newTestClient(t *testing.T) (*Client, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "mock123" {
			t.Errorf("missing api key, got %q", r.URL.Query().Get("appid"))
		}
		if r.URL.Query().Get("units") != "" {
			t.Error("expected default Kelvin units, got units parameter")
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/weather"):
			_, _ = w.Write([]byte(currentBody()))
		case strings.HasPrefix(r.URL.Path, "/onecall"):
			_, _ = w.Write([]byte(oneCallBody(time.Now())))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		OneCallURL: server.URL + "/onecall",
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	return client, server.Close
}

func TestClient_GetSnapshot(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()

	s, err := client.GetSnapshot(context.Background(), 52.37, 4.89)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 284.15K = 51.8°F
	if s.DisplayTemperature() != 52 {
		t.Errorf("expected 52°F, got %d", s.DisplayTemperature())
	}
	if s.Condition != weather.ConditionRain {
		t.Errorf("expected rain condition, got %s", s.Condition)
	}
	// 5.2 m/s = 11.63 mph
	if s.DisplayWind() != 12 {
		t.Errorf("expected 12 mph, got %d", s.DisplayWind())
	}
	if s.HumidityPct != 81 {
		t.Errorf("expected humidity 81, got %f", s.HumidityPct)
	}
	if s.UVIndex != 2.5 {
		t.Errorf("expected uv 2.5, got %f", s.UVIndex)
	}
	if s.Sunrise == nil || s.Sunset == nil {
		t.Fatal("expected sunrise and sunset")
	}
	if s.Mock {
		t.Error("live snapshot should not be marked mock")
	}
}

func TestClient_GetSnapshot_ForecastCappedAtTwelve(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()

	s, err := client.GetSnapshot(context.Background(), 52.37, 4.89)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Forecast) != 12 {
		t.Fatalf("expected 12 forecast points, got %d", len(s.Forecast))
	}
	if s.Forecast[0].PrecipChancePct != 60 {
		t.Errorf("expected precip chance 60, got %f", s.Forecast[0].PrecipChancePct)
	}
	if s.Forecast[0].Condition != weather.ConditionRain {
		t.Errorf("expected rain forecast, got %s", s.Forecast[0].Condition)
	}
	if !s.Forecast[0].Time.Before(s.Forecast[1].Time) {
		t.Error("forecast points should be ordered soonest first")
	}
}

func TestClient_GetSnapshot_ForecastFailureIsNonFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/weather") {
			_, _ = w.Write([]byte(currentBody()))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		OneCallURL: server.URL + "/onecall",
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	s, err := client.GetSnapshot(context.Background(), 52.37, 4.89)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Forecast) != 0 {
		t.Errorf("expected no forecast, got %d points", len(s.Forecast))
	}
	if s.Condition != weather.ConditionRain {
		t.Errorf("expected current conditions preserved, got %s", s.Condition)
	}
}

func TestClient_GetSnapshot_CurrentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:     "bad",
		BaseURL:    server.URL,
		OneCallURL: server.URL + "/onecall",
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetSnapshot(context.Background(), 52.37, 4.89)
	if err == nil {
		t.Fatal("expected error when current weather fetch fails")
	}
}

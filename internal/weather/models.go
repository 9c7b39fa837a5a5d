package weather

import (
	"errors"
	"math"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Condition is the normalized weather condition.
type Condition string

const (
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionFog          Condition = "fog"
	ConditionClear        Condition = "clear"
	ConditionClouds       Condition = "clouds"
)

// MapConditionCode maps a numeric provider condition code to the normalized
// condition. Codes follow the OpenWeatherMap numbering: 2xx storms,
// 3xx drizzle, 5xx rain, 6xx snow, 7xx atmospheric, 800 clear, 80x clouds.
func MapConditionCode(code int) Condition {
	switch {
	case code >= 200 && code <= 299:
		return ConditionThunderstorm
	case code >= 300 && code <= 399:
		return ConditionDrizzle
	case code >= 500 && code <= 599:
		return ConditionRain
	case code >= 600 && code <= 699:
		return ConditionSnow
	case code >= 700 && code <= 799:
		return ConditionFog
	case code == 800:
		return ConditionClear
	default:
		return ConditionClouds
	}
}

// KelvinToFahrenheit converts a Kelvin temperature to Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return k*9/5 - 459.67
}

// MpsToMph converts meters per second to miles per hour.
func MpsToMph(mps float64) float64 {
	return mps * 2.23694
}

// Snapshot is the normalized weather state at a location. Temperatures are
// Fahrenheit and wind is mph; values stay unrounded internally and are
// rounded only for display.
type Snapshot struct {
	Lat float64
	Lon float64

	TemperatureF float64
	FeelsLikeF   float64
	Condition    Condition
	Description  string
	HumidityPct  float64
	WindMph      float64
	UVIndex      float64

	// VisibilityM is visibility in meters.
	VisibilityM float64

	// Forecast holds up to 12 future hourly points, soonest first.
	Forecast []ForecastPoint

	// Sunrise and Sunset are nil when the provider did not report them.
	Sunrise *time.Time
	Sunset  *time.Time

	// Mock is true when this snapshot is the fixed fallback rather than
	// live provider data.
	Mock bool

	FetchedAt time.Time
}

// ForecastPoint is a single hourly forecast entry.
type ForecastPoint struct {
	Time         time.Time
	TemperatureF float64
	Condition    Condition

	// PrecipChancePct is the probability of precipitation, 0-100.
	PrecipChancePct float64

	// PrecipAmountMM is the expected precipitation amount in millimeters.
	PrecipAmountMM float64
}

// DisplayTemperature returns the temperature rounded to the nearest degree.
func (s *Snapshot) DisplayTemperature() int {
	return int(math.Round(s.TemperatureF))
}

// DisplayFeelsLike returns the feels-like temperature rounded to the nearest degree.
func (s *Snapshot) DisplayFeelsLike() int {
	return int(math.Round(s.FeelsLikeF))
}

// DisplayWind returns the wind speed rounded to the nearest mph.
func (s *Snapshot) DisplayWind() int {
	return int(math.Round(s.WindMph))
}

// IsPrecipitating reports whether rain or drizzle is currently active.
func (s *Snapshot) IsPrecipitating() bool {
	return s.Condition == ConditionRain || s.Condition == ConditionDrizzle
}

package models

// WeatherSnapshot is the current conditions at a point. Mock is true when the
// snapshot was synthesized because no live data was available.
type WeatherSnapshot struct {
	Lat          float64         `json:"lat"`
	Lon          float64         `json:"lon"`
	TemperatureF float64         `json:"temperatureF"`
	FeelsLikeF   float64         `json:"feelsLikeF"`
	Condition    string          `json:"condition"`
	Description  string          `json:"description"`
	HumidityPct  float64         `json:"humidityPct"`
	WindMph      float64         `json:"windMph"`
	UVIndex      float64         `json:"uvIndex"`
	VisibilityM  float64         `json:"visibilityM"`
	Forecast     []ForecastPoint `json:"forecast,omitempty"`
	Sunrise      *Timestamp      `json:"sunrise,omitempty"`
	Sunset       *Timestamp      `json:"sunset,omitempty"`
	Mock         bool            `json:"mock"`
	FetchedAt    Timestamp       `json:"fetchedAt"`
}

// ForecastPoint is one hourly forecast entry.
type ForecastPoint struct {
	Time            Timestamp `json:"time"`
	TemperatureF    float64   `json:"temperatureF"`
	Condition       string    `json:"condition"`
	PrecipChancePct int       `json:"precipChancePct"`
	PrecipAmountMM  float64   `json:"precipAmountMm"`
}

// WeatherAlert is a derived advisory for the current conditions.
type WeatherAlert struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Daypart describes where the current moment falls in the day.
type Daypart struct {
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	Band       string `json:"band"`
	IsDark     bool   `json:"isDark"`
	IsRushHour bool   `json:"isRushHour"`
	IsWeekend  bool   `json:"isWeekend"`
}

// ContextSnapshot bundles everything the recommendation engine ranks under.
type ContextSnapshot struct {
	Weather *WeatherSnapshot `json:"weather,omitempty"`
	Daypart Daypart          `json:"daypart"`
	Alerts  []WeatherAlert   `json:"alerts,omitempty"`
}

package handler

import (
	"time"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/daypart"
	"github.com/saferoute/saferoute/internal/recommend"
	"github.com/saferoute/saferoute/internal/route"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/weather"
	"github.com/saferoute/saferoute/pkg/geo"
)

// Converters between domain types and wire models. The wire layer is flat
// strings and camelCase; the domain layer keeps its typed enums.

func toPointModel(p geo.Point) models.Point {
	return models.Point{Lat: p.Lat, Lon: p.Lon}
}

func fromPointModel(p models.Point) geo.Point {
	return geo.Point{Lat: p.Lat, Lon: p.Lon}
}

func toRouteOption(r route.Route) models.RouteOption {
	geometry := make([]models.Point, len(r.Geometry))
	for i, p := range r.Geometry {
		geometry[i] = toPointModel(p)
	}

	steps := make([]models.RouteStep, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = models.RouteStep{
			Instruction:     s.Instruction,
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			Maneuver: models.Maneuver{
				Kind:     string(s.Maneuver.Kind),
				Modifier: s.Maneuver.Modifier,
				Location: toPointModel(s.Maneuver.Location),
			},
			Comfort: models.StepComfort{
				Lighting: string(s.Comfort.Lighting),
				Terrain:  string(s.Comfort.Terrain),
				Shaded:   s.Comfort.Shaded,
			},
		}
	}

	kinds := make([]string, len(r.Comfort.RestSpotKinds))
	for i, k := range r.Comfort.RestSpotKinds {
		kinds[i] = string(k)
	}

	return models.RouteOption{
		ID:              r.ID,
		Type:            string(r.Type),
		Title:           r.Title,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Geometry:        geometry,
		Steps:           steps,
		Tags:            r.Tags,
		NightFriendly:   r.NightFriendly,
		Safety: models.SafetyProfile{
			Lighting:         string(r.Safety.Lighting),
			LightingNote:     r.Safety.LightingNote,
			CrossingCount:    r.Safety.CrossingCount,
			CrossingNote:     r.Safety.CrossingNote,
			SidewalkCoverage: string(r.Safety.SidewalkCoverage),
			SidewalkNote:     r.Safety.SidewalkNote,
			BusyRoadCount:    r.Safety.BusyRoadCount,
			BusyRoadNote:     r.Safety.BusyRoadNote,
		},
		Comfort: models.ComfortProfile{
			HillLevel:     string(r.Comfort.HillLevel),
			HillNote:      r.Comfort.HillNote,
			ShadePercent:  r.Comfort.ShadePercent,
			ShadeNote:     r.Comfort.ShadeNote,
			RestSpotCount: r.Comfort.RestSpotCount,
			RestSpotKinds: kinds,
			RestSpotNote:  r.Comfort.RestSpotNote,
		},
	}
}

func fromRouteOption(m models.RouteOption) route.Route {
	geometry := make([]geo.Point, len(m.Geometry))
	for i, p := range m.Geometry {
		geometry[i] = fromPointModel(p)
	}

	steps := make([]route.Step, len(m.Steps))
	for i, s := range m.Steps {
		steps[i] = route.Step{
			Instruction:     s.Instruction,
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			Maneuver: routing.Maneuver{
				Kind:     routing.ManeuverKind(s.Maneuver.Kind),
				Modifier: s.Maneuver.Modifier,
				Location: fromPointModel(s.Maneuver.Location),
			},
			Comfort: route.StepComfort{
				Lighting: route.Lighting(s.Comfort.Lighting),
				Terrain:  route.Terrain(s.Comfort.Terrain),
				Shaded:   s.Comfort.Shaded,
			},
		}
	}

	kinds := make([]route.RestSpotKind, len(m.Comfort.RestSpotKinds))
	for i, k := range m.Comfort.RestSpotKinds {
		kinds[i] = route.RestSpotKind(k)
	}

	return route.Route{
		ID:              m.ID,
		Type:            route.Type(m.Type),
		Title:           m.Title,
		DistanceMeters:  m.DistanceMeters,
		DurationSeconds: m.DurationSeconds,
		Geometry:        geometry,
		Steps:           steps,
		Tags:            m.Tags,
		NightFriendly:   m.NightFriendly,
		Safety: route.SafetyProfile{
			Lighting:         route.Lighting(m.Safety.Lighting),
			LightingNote:     m.Safety.LightingNote,
			CrossingCount:    m.Safety.CrossingCount,
			CrossingNote:     m.Safety.CrossingNote,
			SidewalkCoverage: route.SidewalkCoverage(m.Safety.SidewalkCoverage),
			SidewalkNote:     m.Safety.SidewalkNote,
			BusyRoadCount:    m.Safety.BusyRoadCount,
			BusyRoadNote:     m.Safety.BusyRoadNote,
		},
		Comfort: route.ComfortProfile{
			HillLevel:     route.HillLevel(m.Comfort.HillLevel),
			HillNote:      m.Comfort.HillNote,
			ShadePercent:  m.Comfort.ShadePercent,
			ShadeNote:     m.Comfort.ShadeNote,
			RestSpotCount: m.Comfort.RestSpotCount,
			RestSpotKinds: kinds,
			RestSpotNote:  m.Comfort.RestSpotNote,
		},
	}
}

func toWeatherModel(s *weather.Snapshot) *models.WeatherSnapshot {
	if s == nil {
		return nil
	}

	forecast := make([]models.ForecastPoint, len(s.Forecast))
	for i, f := range s.Forecast {
		forecast[i] = models.ForecastPoint{
			Time:            models.Timestamp(f.Time),
			TemperatureF:    f.TemperatureF,
			Condition:       string(f.Condition),
			PrecipChancePct: int(f.PrecipChancePct),
			PrecipAmountMM:  f.PrecipAmountMM,
		}
	}

	m := &models.WeatherSnapshot{
		Lat:          s.Lat,
		Lon:          s.Lon,
		TemperatureF: s.TemperatureF,
		FeelsLikeF:   s.FeelsLikeF,
		Condition:    string(s.Condition),
		Description:  s.Description,
		HumidityPct:  s.HumidityPct,
		WindMph:      s.WindMph,
		UVIndex:      s.UVIndex,
		VisibilityM:  s.VisibilityM,
		Forecast:     forecast,
		Mock:         s.Mock,
		FetchedAt:    models.Timestamp(s.FetchedAt),
	}
	if s.Sunrise != nil {
		sunrise := models.Timestamp(*s.Sunrise)
		m.Sunrise = &sunrise
	}
	if s.Sunset != nil {
		sunset := models.Timestamp(*s.Sunset)
		m.Sunset = &sunset
	}
	return m
}

func fromWeatherModel(m *models.WeatherSnapshot) *weather.Snapshot {
	if m == nil {
		return nil
	}

	forecast := make([]weather.ForecastPoint, len(m.Forecast))
	for i, f := range m.Forecast {
		forecast[i] = weather.ForecastPoint{
			Time:            f.Time.Time(),
			TemperatureF:    f.TemperatureF,
			Condition:       weather.Condition(f.Condition),
			PrecipChancePct: float64(f.PrecipChancePct),
			PrecipAmountMM:  f.PrecipAmountMM,
		}
	}

	s := &weather.Snapshot{
		Lat:          m.Lat,
		Lon:          m.Lon,
		TemperatureF: m.TemperatureF,
		FeelsLikeF:   m.FeelsLikeF,
		Condition:    weather.Condition(m.Condition),
		Description:  m.Description,
		HumidityPct:  m.HumidityPct,
		WindMph:      m.WindMph,
		UVIndex:      m.UVIndex,
		VisibilityM:  m.VisibilityM,
		Forecast:     forecast,
		Mock:         m.Mock,
		FetchedAt:    m.FetchedAt.Time(),
	}
	if m.Sunrise != nil {
		sunrise := m.Sunrise.Time()
		s.Sunrise = &sunrise
	}
	if m.Sunset != nil {
		sunset := m.Sunset.Time()
		s.Sunset = &sunset
	}
	return s
}

func toDaypartModel(tc daypart.Context) models.Daypart {
	return models.Daypart{
		Hour:       tc.Hour,
		Minute:     tc.Minute,
		Band:       string(tc.Band),
		IsDark:     tc.IsDark,
		IsRushHour: tc.IsRushHour,
		IsWeekend:  tc.IsWeekend,
	}
}

func toAlertModels(alerts []weather.Alert) []models.WeatherAlert {
	if len(alerts) == 0 {
		return nil
	}
	out := make([]models.WeatherAlert, len(alerts))
	for i, a := range alerts {
		out[i] = models.WeatherAlert{Kind: string(a.Kind), Message: a.Message}
	}
	return out
}

func toRecommendationModel(rec *recommend.Recommendation) *models.Recommendation {
	if rec == nil {
		return nil
	}
	return &models.Recommendation{
		RouteID:   rec.RouteID,
		RouteType: string(rec.RouteType),
		Tags:      tagStrings(rec.Tags),
		Reason:    rec.Reason,
		Score:     rec.Score,
	}
}

func toScoredRouteModels(ranked []recommend.ScoredRoute) []models.ScoredRoute {
	out := make([]models.ScoredRoute, len(ranked))
	for i, sr := range ranked {
		out[i] = models.ScoredRoute{
			Route: toRouteOption(sr.Route),
			Score: sr.Score,
			Tags:  tagStrings(sr.Tags),
		}
	}
	return out
}

func tagStrings(tags []recommend.ReasonTag) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// buildDaypart derives the time context from the snapshot's sun times when
// available, otherwise from the seasonal fallback.
func buildDaypart(now time.Time, s *weather.Snapshot) daypart.Context {
	if s == nil {
		return daypart.Build(now, nil, nil)
	}
	return daypart.Build(now, s.Sunrise, s.Sunset)
}

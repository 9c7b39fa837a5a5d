package weather

// AlertKind identifies a derived weather alert.
type AlertKind string

const (
	AlertImminentRain  AlertKind = "imminent_rain"
	AlertThunderstorm  AlertKind = "thunderstorm"
	AlertHeat          AlertKind = "heat"
	AlertCold          AlertKind = "cold"
	AlertHighWind      AlertKind = "high_wind"
	AlertLowVisibility AlertKind = "low_visibility"
	AlertRain          AlertKind = "rain"
	AlertSnow          AlertKind = "snow"
)

// Alert is a derived advisory for the current conditions.
type Alert struct {
	Kind    AlertKind
	Message string
}

// alertRule pairs a predicate with the alert it emits. Rules are evaluated
// in declaration order and are independent: several may fire at once, and
// the first one that fires is the top alert. The order is load-bearing and
// must not be rearranged.
type alertRule struct {
	matches func(*Snapshot) bool
	alert   Alert
}

var alertRules = []alertRule{
	{
		matches: rainImminent,
		alert:   Alert{Kind: AlertImminentRain, Message: "Rain expected soon, consider bringing an umbrella"},
	},
	{
		matches: func(s *Snapshot) bool { return s.Condition == ConditionThunderstorm },
		alert:   Alert{Kind: AlertThunderstorm, Message: "Thunderstorm in the area, avoid open spaces"},
	},
	{
		matches: func(s *Snapshot) bool { return s.TemperatureF > 90 || s.FeelsLikeF > 95 },
		alert:   Alert{Kind: AlertHeat, Message: "High heat, stay hydrated and prefer shaded routes"},
	},
	{
		matches: func(s *Snapshot) bool { return s.TemperatureF < 32 || s.FeelsLikeF < 25 },
		alert:   Alert{Kind: AlertCold, Message: "Freezing conditions, watch for icy pavement"},
	},
	{
		matches: func(s *Snapshot) bool { return s.WindMph > 20 },
		alert:   Alert{Kind: AlertHighWind, Message: "Strong winds, take care near open areas"},
	},
	{
		matches: func(s *Snapshot) bool { return s.VisibilityM < 1000 },
		alert:   Alert{Kind: AlertLowVisibility, Message: "Low visibility, stay on well-marked paths"},
	},
	{
		matches: func(s *Snapshot) bool { return s.IsPrecipitating() },
		alert:   Alert{Kind: AlertRain, Message: "Currently raining, sheltered routes recommended"},
	},
	{
		matches: func(s *Snapshot) bool { return s.Condition == ConditionSnow },
		alert:   Alert{Kind: AlertSnow, Message: "Snow falling, allow extra time and watch your step"},
	},
}

// BuildAlerts evaluates the alert rules against a snapshot. The returned
// slice preserves rule order; index 0 is the top alert.
func BuildAlerts(s *Snapshot) []Alert {
	alerts := make([]Alert, 0, 2)
	for _, rule := range alertRules {
		if rule.matches(s) {
			alerts = append(alerts, rule.alert)
		}
	}
	return alerts
}

// rainImminent reports whether rain is likely within the next two forecast
// points: precipitation probability above 50% or a rain/drizzle condition.
func rainImminent(s *Snapshot) bool {
	n := len(s.Forecast)
	if n > 2 {
		n = 2
	}
	for _, point := range s.Forecast[:n] {
		if point.PrecipChancePct > 50 {
			return true
		}
		if point.Condition == ConditionRain || point.Condition == ConditionDrizzle {
			return true
		}
	}
	return false
}

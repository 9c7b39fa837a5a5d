// Package recommend ranks a characterized route set against the current
// weather and time context. The engine is a pure function: identical inputs
// produce an identical ranking and reason string.
package recommend

import (
	"sort"

	"github.com/saferoute/saferoute/internal/daypart"
	"github.com/saferoute/saferoute/internal/route"
	"github.com/saferoute/saferoute/internal/weather"
)

// Weather thresholds, in display units (°F, mph).
const (
	hotTempF      = 85
	coldTempF     = 40
	windyMph      = 15
	middayWarmF   = 75
	longRouteFrac = 1.3
)

// Recommend ranks routes and returns the winner with its explanation.
// It returns nil only for an empty route set. snapshot may be nil; the
// weather-conditioned rules are simply skipped then.
func Recommend(routes []route.Route, pref Preference, snapshot *weather.Snapshot, tc daypart.Context) *Recommendation {
	ranked := Rank(routes, pref, snapshot, tc)
	if len(ranked) == 0 {
		return nil
	}

	winner := ranked[0]
	return &Recommendation{
		RouteID:   winner.Route.ID,
		RouteType: winner.Route.Type,
		Tags:      winner.Tags,
		Reason:    buildReason(&winner, pref, snapshot, tc),
		Score:     winner.Score,
	}
}

// Rank scores every route and sorts descending. Ties keep input order.
func Rank(routes []route.Route, pref Preference, snapshot *weather.Snapshot, tc daypart.Context) []ScoredRoute {
	if len(routes) == 0 {
		return nil
	}

	meanDuration := 0.0
	for i := range routes {
		meanDuration += routes[i].DurationSeconds
	}
	meanDuration /= float64(len(routes))

	scored := make([]ScoredRoute, len(routes))
	for i := range routes {
		scored[i] = scoreRoute(routes[i], pref, snapshot, tc, meanDuration)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// scoreRoute applies the additive rule list. Each rule contributes
// independently; positive contributions record a tag so the reason cascade
// can verify what actually fired.
func scoreRoute(r route.Route, pref Preference, snapshot *weather.Snapshot, tc daypart.Context, meanDuration float64) ScoredRoute {
	s := ScoredRoute{Route: r}

	add := func(points float64, tag ReasonTag) {
		s.Score += points
		if points > 0 && tag != "" && !s.HasTag(tag) {
			s.Tags = append(s.Tags, tag)
		}
	}

	// 1. Base preference match.
	if r.Type == pref.PreferredType() {
		add(30, TagPreferenceMatch)
	}

	// 2. Weather-conditioned rules.
	if snapshot != nil {
		if snapshot.IsPrecipitating() || snapshot.Condition == weather.ConditionSnow {
			add(10*float64(r.Comfort.RestSpotCount), TagWetWeather)
			if r.Safety.SidewalkCoverage == route.SidewalkContinuous {
				add(20, TagWetWeather)
			}
			if r.Type == route.TypeFastest {
				add(-15, "")
			}
		}

		if snapshot.TemperatureF > hotTempF {
			add(0.4*float64(r.Comfort.ShadePercent), TagHeatShade)
			if r.Comfort.RestSpotCount >= 2 {
				add(20, TagHeatRest)
			}
		}

		if snapshot.TemperatureF < coldTempF {
			if r.Type == route.TypeFastest {
				add(25, TagColdFast)
			}
			if r.Type == route.TypeScenic {
				add(-10, "")
			}
		}

		if snapshot.WindMph > windyMph {
			if r.Type == route.TypeComfortable {
				add(15, TagWindShelter)
			}
			if r.Type == route.TypeScenic {
				add(-10, "")
			}
		}
	}

	// 3. Time-conditioned rules.
	if tc.IsDark {
		switch r.Safety.Lighting {
		case route.LightingWellLit:
			add(45, TagLighting)
		case route.LightingMixed:
			add(10, TagLighting)
		case route.LightingDark:
			add(-20, "")
		}
		if r.NightFriendly {
			add(30, TagNightFriendly)
		}
	}

	if tc.Band == daypart.BandLateNight {
		if r.Type == route.TypeSafest {
			add(35, TagLateNightSafe)
		}
		if r.Type == route.TypeScenic {
			add(-25, "")
		}
	}

	if tc.IsRushHour {
		if r.Safety.SidewalkCoverage == route.SidewalkContinuous {
			add(20, TagRushSidewalks)
		}
		if r.Safety.CrossingCount > 4 {
			add(-10, "")
		}
	}

	if tc.Band == daypart.BandMidday && snapshot != nil && snapshot.TemperatureF > middayWarmF {
		add(0.3*float64(r.Comfort.ShadePercent), TagMiddayShade)
	}

	if tc.IsWeekend && weekendStrollConditions(snapshot, tc) {
		if r.Type == route.TypeScenic || r.Type == route.TypeComfortable {
			add(15, TagWeekendStroll)
		}
	}

	// 4. Context-free bonuses.
	if r.Safety.SidewalkCoverage == route.SidewalkContinuous {
		add(15, TagSidewalks)
	}
	if r.Safety.CrossingCount <= 3 {
		add(10, TagFewCrossings)
	}

	// 5. Length penalty.
	if r.DurationSeconds > longRouteFrac*meanDuration {
		add(-10, "")
	}

	return s
}

// weekendStrollConditions holds when the weather invites a longer walk:
// not dark, not raining or snowing, not cold.
func weekendStrollConditions(snapshot *weather.Snapshot, tc daypart.Context) bool {
	if tc.IsDark {
		return false
	}
	if snapshot == nil {
		return true
	}
	if snapshot.IsPrecipitating() || snapshot.Condition == weather.ConditionSnow {
		return false
	}
	return snapshot.TemperatureF >= coldTempF
}

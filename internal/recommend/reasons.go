package recommend

import (
	"github.com/saferoute/saferoute/internal/daypart"
	"github.com/saferoute/saferoute/internal/weather"
)

// reasonBranch is one step of the explanation cascade. A branch claims the
// reason only when its context condition holds AND, if it names a tag, the
// winning route actually earned that tag. This keeps the explanation honest:
// a route that won on unrelated grounds under rain falls through to a more
// generic branch instead of claiming shelter it never scored for.
type reasonBranch struct {
	condition func(snapshot *weather.Snapshot, tc daypart.Context) bool
	tag       ReasonTag
	message   string
}

// reasonCascade is evaluated top-down; the first matching branch wins.
// The order is fixed and mirrors the alert tie-break policy.
var reasonCascade = []reasonBranch{
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && s.IsPrecipitating()
		},
		tag:     TagWetWeather,
		message: "It's raining, so this route offers the most shelter and places to duck inside.",
	},
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && s.Condition == weather.ConditionSnow
		},
		tag:     TagWetWeather,
		message: "With snow falling, this route keeps you on continuous sidewalks with spots to warm up.",
	},
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && s.TemperatureF > hotTempF
		},
		tag:     TagHeatShade,
		message: "It's hot out, and this route has the most shade along the way.",
	},
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && s.TemperatureF < coldTempF
		},
		tag:     TagColdFast,
		message: "It's cold, so the quickest way there keeps your time outside short.",
	},
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && s.WindMph > windyMph
		},
		tag:     TagWindShelter,
		message: "It's windy, and this route is the most sheltered option.",
	},
	{
		condition: func(_ *weather.Snapshot, tc daypart.Context) bool {
			return tc.IsDark
		},
		tag:     TagLighting,
		message: "It's dark out, and this route sticks to well-lit streets.",
	},
	{
		condition: func(_ *weather.Snapshot, tc daypart.Context) bool {
			return tc.Band == daypart.BandLateNight
		},
		tag:     TagLateNightSafe,
		message: "At this hour, the safest route is the sensible choice.",
	},
	{
		condition: func(_ *weather.Snapshot, tc daypart.Context) bool {
			return tc.IsRushHour
		},
		tag:     TagRushSidewalks,
		message: "During rush hour, this route keeps you on continuous sidewalks away from traffic.",
	},
	{
		condition: func(_ *weather.Snapshot, tc daypart.Context) bool {
			return tc.IsWeekend
		},
		tag:     TagWeekendStroll,
		message: "Nice weekend conditions for a relaxed walk on this route.",
	},
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && len(weather.BuildAlerts(s)) > 0
		},
		message: "Given the current weather advisory, this route is the most practical choice.",
	},
	{
		condition: func(_ *weather.Snapshot, _ daypart.Context) bool { return true },
		tag:       TagPreferenceMatch,
		message:   "This route best matches your preference.",
	},
	{
		condition: func(s *weather.Snapshot, _ daypart.Context) bool {
			return s != nil && s.Condition == weather.ConditionClear && len(weather.BuildAlerts(s)) == 0
		},
		message: "Clear conditions, so this route is great all around.",
	},
	{
		condition: func(_ *weather.Snapshot, _ daypart.Context) bool { return true },
		message:   "Best overall option for this trip.",
	},
}

// buildReason walks the cascade and returns the first honest explanation.
func buildReason(winner *ScoredRoute, _ Preference, snapshot *weather.Snapshot, tc daypart.Context) string {
	for _, branch := range reasonCascade {
		if !branch.condition(snapshot, tc) {
			continue
		}
		if branch.tag != "" && !winner.HasTag(branch.tag) {
			continue
		}
		return branch.message
	}
	return "Best overall option for this trip."
}

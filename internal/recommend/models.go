package recommend

import "github.com/saferoute/saferoute/internal/route"

// Preference is the user's persisted route priority.
type Preference string

const (
	PreferenceSafe  Preference = "safe"
	PreferenceFast  Preference = "fast"
	PreferenceComfy Preference = "comfy"
)

// DefaultPreference applies when nothing has been persisted.
const DefaultPreference = PreferenceSafe

// Valid reports whether p is one of the known preference values.
func (p Preference) Valid() bool {
	switch p {
	case PreferenceSafe, PreferenceFast, PreferenceComfy:
		return true
	}
	return false
}

// PreferredType maps the preference to the route type it favors.
func (p Preference) PreferredType() route.Type {
	switch p {
	case PreferenceFast:
		return route.TypeFastest
	case PreferenceComfy:
		return route.TypeComfortable
	default:
		return route.TypeSafest
	}
}

// ReasonTag marks which scoring rule contributed to a route's total. The
// reason cascade gates its branches on these, so a winning route never
// claims credit for a rule that did not actually fire for it.
type ReasonTag string

const (
	TagPreferenceMatch ReasonTag = "preference-match"
	TagWetWeather      ReasonTag = "wet-weather"
	TagHeatShade       ReasonTag = "heat-shade"
	TagHeatRest        ReasonTag = "heat-rest"
	TagColdFast        ReasonTag = "cold-fast"
	TagWindShelter     ReasonTag = "wind-shelter"
	TagLighting        ReasonTag = "lighting"
	TagNightFriendly   ReasonTag = "night-friendly"
	TagLateNightSafe   ReasonTag = "late-night-safe"
	TagRushSidewalks   ReasonTag = "rush-sidewalks"
	TagMiddayShade     ReasonTag = "midday-shade"
	TagWeekendStroll   ReasonTag = "weekend-stroll"
	TagSidewalks       ReasonTag = "sidewalks"
	TagFewCrossings    ReasonTag = "few-crossings"
)

// ScoredRoute pairs a candidate with its total score and the tags of the
// rules that contributed positively.
type ScoredRoute struct {
	Route route.Route
	Score float64
	Tags  []ReasonTag
}

// HasTag reports whether the given rule contributed to this route's score.
func (s *ScoredRoute) HasTag(tag ReasonTag) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Recommendation is the engine's output: the winning route plus the
// explanation of why it won. Scores order candidates within a single call
// and are not comparable across calls.
type Recommendation struct {
	RouteID   string
	RouteType route.Type
	Tags      []ReasonTag
	Reason    string
	Score     float64
}

package route

import (
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/pkg/geo"
)

// Type tags a route with the role it plays in a candidate set.
// A type appears at most once per set.
type Type string

const (
	TypeFastest     Type = "fastest"
	TypeSafest      Type = "safest"
	TypeComfortable Type = "comfortable"
	TypeScenic      Type = "scenic"
)

// typeOrder is the round-robin assignment order over candidate paths.
var typeOrder = [4]Type{TypeFastest, TypeSafest, TypeComfortable, TypeScenic}

// Lighting describes the lighting level along a route or step.
type Lighting string

const (
	LightingWellLit Lighting = "well-lit"
	LightingMixed   Lighting = "mixed"
	LightingDark    Lighting = "dark"
)

// SidewalkCoverage describes how much of a route has sidewalks.
type SidewalkCoverage string

const (
	SidewalkContinuous SidewalkCoverage = "continuous"
	SidewalkPartial    SidewalkCoverage = "partial"
	SidewalkNone       SidewalkCoverage = "none"
)

// HillLevel describes the overall grade of a route.
type HillLevel string

const (
	HillFlat  HillLevel = "flat"
	HillSome  HillLevel = "some-hills"
	HillSteep HillLevel = "steep"
)

// Terrain describes the grade of a single step.
type Terrain string

const (
	TerrainFlat          Terrain = "flat"
	TerrainSlightIncline Terrain = "slight-incline"
	TerrainSteep         Terrain = "steep"
)

// RestSpotKind names a kind of rest spot along a route.
type RestSpotKind string

const (
	RestSpotBench RestSpotKind = "bench"
	RestSpotCafe  RestSpotKind = "cafe"
	RestSpotPark  RestSpotKind = "park"
)

// SafetyProfile summarizes route safety. Each field carries a display phrase
// alongside its value.
type SafetyProfile struct {
	Lighting     Lighting
	LightingNote string

	// CrossingCount is derived from the path's maneuvers; everything else
	// in the profile comes from the per-type fingerprint.
	CrossingCount int
	CrossingNote  string

	SidewalkCoverage SidewalkCoverage
	SidewalkNote     string

	BusyRoadCount int
	BusyRoadNote  string
}

// ComfortProfile summarizes route comfort.
type ComfortProfile struct {
	HillLevel HillLevel
	HillNote  string

	// ShadePercent is 0-100.
	ShadePercent int
	ShadeNote    string

	RestSpotCount int
	RestSpotKinds []RestSpotKind
	RestSpotNote  string
}

// StepComfort is a per-step comfort descriptor.
type StepComfort struct {
	Lighting Lighting
	Terrain  Terrain
	Shaded   bool
}

// Step is one instruction of a characterized route.
type Step struct {
	Instruction     string
	DistanceMeters  float64
	DurationSeconds float64
	Maneuver        routing.Maneuver
	Comfort         StepComfort
}

// Route is a fully characterized candidate. Instances are built fresh on
// every fetch and replaced wholesale, never mutated.
type Route struct {
	ID              string
	Type            Type
	Title           string
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []geo.Point
	Steps           []Step
	Tags            []string
	NightFriendly   bool
	Safety          SafetyProfile
	Comfort         ComfortProfile
}

// HasTag reports whether the route carries the given tag.
func (r *Route) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

package route

import (
	"fmt"

	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/pkg/geo"
)

// stepLightingCycle and stepTerrainCycle drive the per-step comfort
// placeholder: descriptors cycle by step index, they are not sensed.
var (
	stepLightingCycle = [3]Lighting{LightingWellLit, LightingMixed, LightingDark}
	stepTerrainCycle  = [3]Terrain{TerrainFlat, TerrainSlightIncline, TerrainSteep}
)

// Characterize turns a raw path into a typed route. The type is assigned
// round-robin over the candidate list: fastest, safest, comfortable, scenic.
func Characterize(path routing.Path, index int) Route {
	t := typeOrder[index%len(typeOrder)]
	return characterizeAs(path, t, index)
}

// BuildRouteSet characterizes a full candidate set. It never returns fewer
// than three routes: missing types among {fastest, safest, comfortable} are
// synthesized from the first path, and an empty input degrades to a
// straight-line path between origin and destination. It never fails.
func BuildRouteSet(paths []routing.Path, origin, destination geo.Point) []Route {
	if len(paths) == 0 {
		paths = []routing.Path{routing.FallbackPath(origin, destination)}
	}
	if len(paths) > len(typeOrder) {
		paths = paths[:len(typeOrder)]
	}

	routes := make([]Route, 0, 3)
	present := make(map[Type]bool, len(paths))
	for i, p := range paths {
		r := Characterize(p, i)
		present[r.Type] = true
		routes = append(routes, r)
	}

	for _, t := range []Type{TypeFastest, TypeSafest, TypeComfortable} {
		if !present[t] {
			routes = append(routes, synthesize(paths[0], t, len(routes)))
		}
	}

	return routes
}

// synthesize derives a route of the given type from a base path, scaling
// distance and duration by the type's fixed multiplier.
func synthesize(base routing.Path, t Type, index int) Route {
	r := characterizeAs(base, t, index)
	mult := fingerprints[t].synthMultiplier
	r.DistanceMeters *= mult
	r.DurationSeconds *= mult
	for i := range r.Steps {
		r.Steps[i].DistanceMeters *= mult
		r.Steps[i].DurationSeconds *= mult
	}
	return r
}

func characterizeAs(path routing.Path, t Type, index int) Route {
	fp := fingerprints[t]
	crossings := countCrossings(path.Steps)

	return Route{
		ID:              fmt.Sprintf("route-%d-%s", index+1, t),
		Type:            t,
		Title:           fp.title,
		DistanceMeters:  path.DistanceMeters,
		DurationSeconds: path.DurationSeconds,
		Geometry:        path.Geometry,
		Steps:           buildSteps(path.Steps),
		Tags:            append([]string(nil), fp.tags...),
		NightFriendly:   fp.nightFriendly,
		Safety: SafetyProfile{
			Lighting:         fp.lighting,
			LightingNote:     lightingNotes[fp.lighting],
			CrossingCount:    crossings,
			CrossingNote:     countNote(crossings, "street crossing"),
			SidewalkCoverage: fp.sidewalks,
			SidewalkNote:     sidewalkNotes[fp.sidewalks],
			BusyRoadCount:    fp.busyRoads,
			BusyRoadNote:     countNote(fp.busyRoads, "busy road"),
		},
		Comfort: ComfortProfile{
			HillLevel:     fp.hillLevel,
			HillNote:      hillNotes[fp.hillLevel],
			ShadePercent:  fp.shadePercent,
			ShadeNote:     fmt.Sprintf("About %d%% of the route is shaded", fp.shadePercent),
			RestSpotCount: len(fp.restSpots),
			RestSpotKinds: restSpotKinds(fp.restSpots),
			RestSpotNote:  countNote(len(fp.restSpots), "place to rest"),
		},
	}
}

// countCrossings counts turn and end-of-road maneuvers. This is the only
// profile value computed from the path itself.
func countCrossings(steps []routing.Step) int {
	n := 0
	for _, s := range steps {
		if s.Maneuver.Kind == routing.ManeuverTurn || s.Maneuver.Kind == routing.ManeuverEndOfRoad {
			n++
		}
	}
	return n
}

func buildSteps(steps []routing.Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{
			Instruction:     s.Instruction,
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			Maneuver:        s.Maneuver,
			Comfort: StepComfort{
				Lighting: stepLightingCycle[i%3],
				Terrain:  stepTerrainCycle[i%3],
				Shaded:   i%2 == 0,
			},
		}
	}
	return out
}

// restSpotKinds deduplicates the fingerprint's rest spot list into the set
// of kinds present, first appearance order.
func restSpotKinds(spots []RestSpotKind) []RestSpotKind {
	seen := make(map[RestSpotKind]bool, len(spots))
	kinds := make([]RestSpotKind, 0, 3)
	for _, s := range spots {
		if !seen[s] {
			seen[s] = true
			kinds = append(kinds, s)
		}
	}
	return kinds
}

func countNote(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

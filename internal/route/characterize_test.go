package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/route"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/pkg/geo"
)

func pathWithSteps(kinds ...routing.ManeuverKind) routing.Path {
	steps := make([]routing.Step, len(kinds))
	for i, k := range kinds {
		steps[i] = routing.Step{
			Instruction:     "step",
			DistanceMeters:  100,
			DurationSeconds: 72,
			Maneuver:        routing.Maneuver{Kind: k},
		}
	}
	return routing.Path{
		Geometry:        []geo.Point{{Lat: 52.37, Lon: 4.89}, {Lat: 52.38, Lon: 4.90}},
		DistanceMeters:  float64(len(kinds)) * 100,
		DurationSeconds: float64(len(kinds)) * 72,
		Steps:           steps,
	}
}

func basicPath() routing.Path {
	return pathWithSteps(
		routing.ManeuverDepart,
		routing.ManeuverTurn,
		routing.ManeuverContinue,
		routing.ManeuverEndOfRoad,
		routing.ManeuverTurn,
		routing.ManeuverArrive,
	)
}

func TestCharacterize_RoundRobinTypeAssignment(t *testing.T) {
	wants := []route.Type{
		route.TypeFastest,
		route.TypeSafest,
		route.TypeComfortable,
		route.TypeScenic,
		route.TypeFastest, // wraps around
	}

	for i, want := range wants {
		r := route.Characterize(basicPath(), i)
		assert.Equal(t, want, r.Type, "index %d", i)
	}
}

func TestCharacterize_CrossingCount(t *testing.T) {
	// Turns and end-of-road maneuvers count; depart/continue/arrive do not.
	r := route.Characterize(basicPath(), 0)
	assert.Equal(t, 3, r.Safety.CrossingCount)

	straight := route.Characterize(pathWithSteps(routing.ManeuverDepart, routing.ManeuverArrive), 0)
	assert.Equal(t, 0, straight.Safety.CrossingCount)
}

func TestCharacterize_Fingerprints(t *testing.T) {
	tests := []struct {
		index         int
		wantType      route.Type
		lighting      route.Lighting
		sidewalks     route.SidewalkCoverage
		shade         int
		restSpots     int
		nightFriendly bool
	}{
		{0, route.TypeFastest, route.LightingMixed, route.SidewalkPartial, 30, 1, false},
		{1, route.TypeSafest, route.LightingWellLit, route.SidewalkContinuous, 60, 3, true},
		{2, route.TypeComfortable, route.LightingWellLit, route.SidewalkContinuous, 75, 5, true},
		{3, route.TypeScenic, route.LightingMixed, route.SidewalkContinuous, 80, 6, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantType), func(t *testing.T) {
			r := route.Characterize(basicPath(), tt.index)
			assert.Equal(t, tt.wantType, r.Type)
			assert.Equal(t, tt.lighting, r.Safety.Lighting)
			assert.Equal(t, tt.sidewalks, r.Safety.SidewalkCoverage)
			assert.Equal(t, tt.shade, r.Comfort.ShadePercent)
			assert.Equal(t, tt.restSpots, r.Comfort.RestSpotCount)
			assert.Equal(t, tt.nightFriendly, r.NightFriendly)
			assert.NotEmpty(t, r.Safety.LightingNote)
			assert.NotEmpty(t, r.Comfort.ShadeNote)
		})
	}
}

func TestCharacterize_StepComfortIsCyclicPlaceholder(t *testing.T) {
	// Per-step descriptors cycle by index; they are a fixed placeholder
	// policy, not derived from terrain data.
	r := route.Characterize(basicPath(), 0)
	require.Len(t, r.Steps, 6)

	assert.Equal(t, route.LightingWellLit, r.Steps[0].Comfort.Lighting)
	assert.Equal(t, route.LightingMixed, r.Steps[1].Comfort.Lighting)
	assert.Equal(t, route.LightingDark, r.Steps[2].Comfort.Lighting)
	assert.Equal(t, route.LightingWellLit, r.Steps[3].Comfort.Lighting)

	assert.Equal(t, route.TerrainFlat, r.Steps[0].Comfort.Terrain)
	assert.Equal(t, route.TerrainSlightIncline, r.Steps[1].Comfort.Terrain)
	assert.Equal(t, route.TerrainSteep, r.Steps[2].Comfort.Terrain)

	assert.True(t, r.Steps[0].Comfort.Shaded)
	assert.False(t, r.Steps[1].Comfort.Shaded)
	assert.True(t, r.Steps[2].Comfort.Shaded)
}

func TestBuildRouteSet_SynthesizesMissingTypes(t *testing.T) {
	routes := route.BuildRouteSet([]routing.Path{basicPath()}, geo.Point{}, geo.Point{})

	require.Len(t, routes, 3)
	assert.Equal(t, route.TypeFastest, routes[0].Type)
	assert.Equal(t, route.TypeSafest, routes[1].Type)
	assert.Equal(t, route.TypeComfortable, routes[2].Type)

	base := routes[0].DurationSeconds
	assert.InDelta(t, base*1.10, routes[1].DurationSeconds, 0.001)
	assert.InDelta(t, base*1.15, routes[2].DurationSeconds, 0.001)
	assert.InDelta(t, routes[0].DistanceMeters*1.10, routes[1].DistanceMeters, 0.001)
}

func TestBuildRouteSet_SynthesizedStepsScaleToo(t *testing.T) {
	routes := route.BuildRouteSet([]routing.Path{basicPath()}, geo.Point{}, geo.Point{})

	require.Len(t, routes, 3)
	require.NotEmpty(t, routes[1].Steps)
	assert.InDelta(t, routes[0].Steps[0].DurationSeconds*1.10, routes[1].Steps[0].DurationSeconds, 0.001)
}

func TestBuildRouteSet_TwoPathsSynthesizeOne(t *testing.T) {
	routes := route.BuildRouteSet([]routing.Path{basicPath(), basicPath()}, geo.Point{}, geo.Point{})

	require.Len(t, routes, 3)
	assert.Equal(t, route.TypeComfortable, routes[2].Type)
	assert.InDelta(t, routes[0].DurationSeconds*1.15, routes[2].DurationSeconds, 0.001)
}

func TestBuildRouteSet_FourPathsKeepAllTypes(t *testing.T) {
	paths := []routing.Path{basicPath(), basicPath(), basicPath(), basicPath()}
	routes := route.BuildRouteSet(paths, geo.Point{}, geo.Point{})

	require.Len(t, routes, 4)
	seen := make(map[route.Type]bool)
	for _, r := range routes {
		assert.False(t, seen[r.Type], "type %s appears twice", r.Type)
		seen[r.Type] = true
	}
}

func TestBuildRouteSet_EmptyInputFallsBackToStraightLine(t *testing.T) {
	origin := geo.Point{Lat: 52.37, Lon: 4.89}
	destination := geo.Point{Lat: 52.38, Lon: 4.91}

	routes := route.BuildRouteSet(nil, origin, destination)

	require.Len(t, routes, 3)
	for _, r := range routes {
		assert.Positive(t, r.DistanceMeters)
		assert.Positive(t, r.DurationSeconds)
		assert.NotEmpty(t, r.Geometry)
		assert.Equal(t, origin, r.Geometry[0])
		assert.Equal(t, destination, r.Geometry[len(r.Geometry)-1])
	}

	// Straight-line duration follows the fixed walking speed.
	assert.InDelta(t, routes[0].DistanceMeters/1.4, routes[0].DurationSeconds, 0.001)
}

func TestBuildRouteSet_UniqueIDs(t *testing.T) {
	routes := route.BuildRouteSet([]routing.Path{basicPath()}, geo.Point{}, geo.Point{})

	ids := make(map[string]bool)
	for _, r := range routes {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
	}
}

func TestRoute_HasTag(t *testing.T) {
	r := route.Characterize(basicPath(), 1)
	assert.True(t, r.HasTag("well-lit"))
	assert.False(t, r.HasTag("scenic"))
}

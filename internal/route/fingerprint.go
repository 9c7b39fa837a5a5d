package route

// fingerprint is the canonical per-type profile template. These values are
// fixed by policy rather than sensed from map data; only crossing counts
// vary with the actual path.
type fingerprint struct {
	title         string
	lighting      Lighting
	sidewalks     SidewalkCoverage
	busyRoads     int
	shadePercent  int
	restSpots     []RestSpotKind
	hillLevel     HillLevel
	tags          []string
	nightFriendly bool

	// synthMultiplier scales distance and duration when this type is
	// synthesized from another path.
	synthMultiplier float64
}

var fingerprints = map[Type]fingerprint{
	TypeFastest: {
		title:           "Fastest Route",
		lighting:        LightingMixed,
		sidewalks:       SidewalkPartial,
		busyRoads:       3,
		shadePercent:    30,
		restSpots:       []RestSpotKind{RestSpotCafe},
		hillLevel:       HillSome,
		tags:            []string{"fastest", "direct"},
		nightFriendly:   false,
		synthMultiplier: 1.0,
	},
	TypeSafest: {
		title:           "Safest Route",
		lighting:        LightingWellLit,
		sidewalks:       SidewalkContinuous,
		busyRoads:       1,
		shadePercent:    60,
		restSpots:       []RestSpotKind{RestSpotBench, RestSpotBench, RestSpotCafe},
		hillLevel:       HillFlat,
		tags:            []string{"safest", "well-lit", "low-traffic"},
		nightFriendly:   true,
		synthMultiplier: 1.10,
	},
	TypeComfortable: {
		title:           "Most Comfortable",
		lighting:        LightingWellLit,
		sidewalks:       SidewalkContinuous,
		busyRoads:       0,
		shadePercent:    75,
		restSpots:       []RestSpotKind{RestSpotBench, RestSpotBench, RestSpotCafe, RestSpotCafe, RestSpotPark},
		hillLevel:       HillFlat,
		tags:            []string{"comfortable", "shaded", "rest-spots"},
		nightFriendly:   true,
		synthMultiplier: 1.15,
	},
	TypeScenic: {
		title:           "Scenic Route",
		lighting:        LightingMixed,
		sidewalks:       SidewalkContinuous,
		busyRoads:       1,
		shadePercent:    80,
		restSpots:       []RestSpotKind{RestSpotBench, RestSpotBench, RestSpotPark, RestSpotPark, RestSpotCafe, RestSpotBench},
		hillLevel:       HillSome,
		tags:            []string{"scenic", "parks", "shaded"},
		nightFriendly:   false,
		synthMultiplier: 1.0,
	},
}

// lightingNotes and friends are the display phrases paired with each
// profile value.
var lightingNotes = map[Lighting]string{
	LightingWellLit: "Well-lit streets throughout",
	LightingMixed:   "Mixed lighting, some darker stretches",
	LightingDark:    "Poorly lit, take care after dark",
}

var sidewalkNotes = map[SidewalkCoverage]string{
	SidewalkContinuous: "Continuous sidewalks the whole way",
	SidewalkPartial:    "Sidewalks along most of the route",
	SidewalkNone:       "Limited sidewalk coverage",
}

var hillNotes = map[HillLevel]string{
	HillFlat:  "Mostly flat terrain",
	HillSome:  "A few gentle hills",
	HillSteep: "Steep sections, expect a workout",
}

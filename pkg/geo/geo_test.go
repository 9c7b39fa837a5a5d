package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saferoute/saferoute/pkg/geo"
)

func TestHaversineM_KnownDistance(t *testing.T) {
	// One degree of longitude on the equator is ~111.19 km.
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 0, Lon: 1}

	d := geo.HaversineM(a, b)
	assert.InDelta(t, 111_195, d, 100)
}

func TestHaversineM_ZeroForSamePoint(t *testing.T) {
	p := geo.Point{Lat: 52.370, Lon: 4.895}
	assert.Equal(t, 0.0, geo.HaversineM(p, p))
}

func TestHaversineM_Symmetric(t *testing.T) {
	a := geo.Point{Lat: 52.370, Lon: 4.895}
	b := geo.Point{Lat: 52.308, Lon: 4.764}

	assert.InDelta(t, geo.HaversineM(a, b), geo.HaversineM(b, a), 1e-6)
}

func TestWalkSeconds(t *testing.T) {
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 0, Lon: 1}

	// distance / 1.4 m/s
	want := geo.HaversineM(a, b) / 1.4
	assert.InDelta(t, want, geo.WalkSeconds(a, b), 1e-6)
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name string
		a, b geo.Point
		want float64
	}{
		{"due east on equator", geo.Point{0, 0}, geo.Point{0, 1}, 90},
		{"due north", geo.Point{0, 0}, geo.Point{1, 0}, 0},
		{"due west on equator", geo.Point{0, 1}, geo.Point{0, 0}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, geo.InitialBearing(tt.a, tt.b), 0.5)
		})
	}
}

func TestInterpolate(t *testing.T) {
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 0, Lon: 1}

	points := geo.Interpolate(a, b, 5)
	assert.Len(t, points, 5)
	assert.Equal(t, a, points[0])
	assert.Equal(t, b, points[4])
	assert.InDelta(t, 0.5, points[2].Lon, 1e-9)
}

func TestInterpolate_MinimumTwoPoints(t *testing.T) {
	a := geo.Point{Lat: 1, Lon: 1}
	b := geo.Point{Lat: 2, Lon: 2}

	points := geo.Interpolate(a, b, 0)
	assert.Len(t, points, 2)
	assert.Equal(t, a, points[0])
	assert.Equal(t, b, points[1])
}

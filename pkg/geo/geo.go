// Package geo provides great-circle calculations on WGS-84 coordinates.
//
// Distances use the Haversine formula. Walking time is estimated with a
// constant average pedestrian speed; real durations come from the routing
// provider when it is available.
package geo

import (
	"math"
)

const (
	// EarthRadiusM is the mean radius of Earth in meters.
	EarthRadiusM = 6_371_000.0

	// WalkingSpeedMps is the assumed average pedestrian speed in m/s.
	WalkingSpeedMps = 1.4
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// HaversineM returns the great-circle distance between two points in meters.
func HaversineM(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}

// WalkSeconds returns the estimated walking time between two points in
// seconds, assuming WalkingSpeedMps.
func WalkSeconds(a, b Point) float64 {
	return HaversineM(a, b) / WalkingSpeedMps
}

// InitialBearing returns the initial bearing from a to b in degrees [0, 360).
func InitialBearing(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := degrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Interpolate returns n evenly spaced points from a to b inclusive.
// Linear interpolation in lat/lon space is accurate enough for the short
// segments this system draws; n < 2 yields just the two endpoints.
func Interpolate(a, b Point, n int) []Point {
	if n < 2 {
		n = 2
	}

	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		points = append(points, Point{
			Lat: a.Lat + (b.Lat-a.Lat)*t,
			Lon: a.Lon + (b.Lon-a.Lon)*t,
		})
	}
	return points
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{
		Lat: (a.Lat + b.Lat) / 2,
		Lon: (a.Lon + b.Lon) / 2,
	}
}

func radians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func degrees(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}

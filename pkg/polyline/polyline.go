// Package polyline implements the Google encoded polyline format used by
// OpenRouteService route geometry (precision 5).
package polyline

import (
	"math"

	"github.com/saferoute/saferoute/pkg/geo"
)

const precision = 1e5

// Decode decodes an encoded polyline into coordinates.
// Malformed trailing bytes are dropped rather than reported; route geometry
// is presentation data and a truncated tail is preferable to no path.
func Decode(encoded string) []geo.Point {
	if encoded == "" {
		return nil
	}

	points := make([]geo.Point, 0, len(encoded)/4)
	lat, lon := 0, 0

	for i := 0; i < len(encoded); {
		dLat, next := decodeInt(encoded, i)
		if next < 0 {
			break
		}
		dLon, after := decodeInt(encoded, next)
		if after < 0 {
			break
		}

		lat += dLat
		lon += dLon
		i = after

		points = append(points, geo.Point{
			Lat: float64(lat) / precision,
			Lon: float64(lon) / precision,
		})
	}

	return points
}

// Encode encodes coordinates into a polyline string.
func Encode(points []geo.Point) string {
	if len(points) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(points)*4)
	prevLat, prevLon := 0, 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * precision))
		lon := int(math.Round(p.Lon * precision))

		buf = appendInt(buf, lat-prevLat)
		buf = appendInt(buf, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return string(buf)
}

// Length returns the total length of the polyline in meters.
func Length(points []geo.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += geo.HaversineM(points[i-1], points[i])
	}
	return total
}

// decodeInt reads one zigzag-encoded value starting at index i.
// Returns the value and the index after it, or a negative index when the
// input ends mid-value.
func decodeInt(encoded string, i int) (int, int) {
	result, shift := 0, 0

	for {
		if i >= len(encoded) {
			return 0, -1
		}
		b := int(encoded[i]) - 63
		i++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i
	}
	return result >> 1, i
}

// appendInt appends one zigzag-encoded value to buf.
func appendInt(buf []byte, v int) []byte {
	if v < 0 {
		v = ^(v << 1)
	} else {
		v <<= 1
	}

	for v >= 0x20 {
		buf = append(buf, byte((v&0x1f)|0x20)+63)
		v >>= 5
	}
	return append(buf, byte(v)+63)
}

// Package polyline implements the Google encoded polyline format used
// by Strava route summaries: delta + zig-zag + base-64-like varint
// encoding at fixed 1e-5 degree precision.
package polyline

// Point is a single latitude/longitude coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

const precision = 1e5

// Decode converts an encoded polyline into an ordered coordinate
// sequence. The empty string decodes to nil.
//
// Decode is total: it never fails. The encoding is permissive and a
// malformed input yields unspecified coordinates rather than an error.
func Decode(encoded string) []Point {
	if encoded == "" {
		return nil
	}

	var points []Point
	var lat, lng int64
	index := 0

	for index < len(encoded) {
		dlat, next := decodeDelta(encoded, index)
		index = next
		lat += dlat

		if index >= len(encoded) {
			break
		}

		dlng, next := decodeDelta(encoded, index)
		index = next
		lng += dlng

		points = append(points, Point{
			Lat: float64(lat) / precision,
			Lng: float64(lng) / precision,
		})
	}

	return points
}

// decodeDelta reads one varint chunk starting at index and returns the
// signed delta and the index of the next chunk. Each byte carries 5
// significant bits (offset by 63), little-endian, with 0x20 as the
// continuation bit; the accumulated value is zig-zag decoded.
func decodeDelta(encoded string, index int) (int64, int) {
	var result int64
	var shift uint

	for index < len(encoded) {
		b := int64(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// Encode converts an ordered coordinate sequence into an encoded
// polyline. Coordinates are rounded to 1e-5 degrees.
func Encode(points []Point) string {
	var out []byte
	var prevLat, prevLng int64

	for _, p := range points {
		lat := round(p.Lat * precision)
		lng := round(p.Lng * precision)
		out = encodeDelta(out, lat-prevLat)
		out = encodeDelta(out, lng-prevLng)
		prevLat, prevLng = lat, lng
	}

	return string(out)
}

func encodeDelta(out []byte, delta int64) []byte {
	v := delta << 1
	if delta < 0 {
		v = ^v
	}
	for v >= 0x20 {
		out = append(out, byte(0x20|(v&0x1f))+63)
		v >>= 5
	}
	return append(out, byte(v)+63)
}

func round(f float64) int64 {
	if f < 0 {
		return int64(f - 0.5)
	}
	return int64(f + 0.5)
}

// Bounds holds the bounding box of a coordinate sequence.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// BoundsOf returns the bounding box of points, or nil for an empty
// sequence. The dashboard ships it alongside the encoded route so the
// renderer can fit the route strip without decoding twice.
func BoundsOf(points []Point) *Bounds {
	if len(points) == 0 {
		return nil
	}

	b := &Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}
	return b
}

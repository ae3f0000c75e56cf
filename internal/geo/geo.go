// Package geo provides the spherical-earth math used by zones, the play
// boundary and showdown distance checks. All functions are pure; coordinates
// are WGS84 degrees and distances are meters.
package geo

import "math"

// EarthRadiusMeters is the mean earth radius of the spherical approximation.
const EarthRadiusMeters = 6371000.0

// LatLng is a coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite and within WGS84 range.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return false
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceMeters returns the great-circle distance between two points
// using the haversine formula.
func DistanceMeters(a, b LatLng) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BearingDegrees returns the initial bearing from a to b, normalized to [0, 360).
func BearingDegrees(a, b LatLng) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLng := radians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := degrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// NormalizeAngle maps an angle in degrees to (-180, 180].
func NormalizeAngle(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// PointInPolygon reports whether p lies inside the polygon by ray-casting
// parity. Vertex order does not matter. Fewer than 3 vertices is never a
// polygon and always returns false. Points exactly on an edge may classify
// either way due to floating point.
func PointInPolygon(p LatLng, vertices []LatLng) bool {
	if len(vertices) < 3 {
		return false
	}
	inside := false
	j := len(vertices) - 1
	for i := range vertices {
		vi := vertices[i]
		vj := vertices[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			crossLng := (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lng
			if p.Lng < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// DistanceToSegmentMeters returns the approximate distance in meters from p
// to the segment [segStart, segEnd]. It projects the three points onto a
// local equirectangular plane centered on p (longitude scaled by cos of the
// latitude) so the result is only accurate for nearby geometry, which is
// all zone-edge checks need.
func DistanceToSegmentMeters(p, segStart, segEnd LatLng) float64 {
	scale := math.Cos(radians(p.Lat))

	// Local planar coordinates in meters, p at the origin.
	ax := degreesToMeters(segStart.Lng-p.Lng) * scale
	ay := degreesToMeters(segStart.Lat - p.Lat)
	bx := degreesToMeters(segEnd.Lng-p.Lng) * scale
	by := degreesToMeters(segEnd.Lat - p.Lat)

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		// Degenerate segment: plain point distance.
		return math.Hypot(ax, ay)
	}

	t := -(ax*dx + ay*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(ax+t*dx, ay+t*dy)
}

// DistanceToPolygonEdgeMeters returns the minimum distance from p to any
// edge of the polygon, including the closing edge from the last vertex back
// to the first. Returns +Inf for fewer than 2 vertices.
func DistanceToPolygonEdgeMeters(p LatLng, vertices []LatLng) float64 {
	if len(vertices) < 2 {
		return math.Inf(1)
	}
	min := math.Inf(1)
	for i := range vertices {
		next := vertices[(i+1)%len(vertices)]
		if d := DistanceToSegmentMeters(p, vertices[i], next); d < min {
			min = d
		}
	}
	return min
}

// PolygonCentroid returns the arithmetic mean of the vertex coordinates.
// This is not the area centroid for irregular polygons; it matches the
// behavior zone configuration has always used.
func PolygonCentroid(vertices []LatLng) LatLng {
	if len(vertices) == 0 {
		return LatLng{}
	}
	var lat, lng float64
	for _, v := range vertices {
		lat += v.Lat
		lng += v.Lng
	}
	n := float64(len(vertices))
	return LatLng{Lat: lat / n, Lng: lng / n}
}

// PolygonAreaSquareMeters returns the absolute area of the polygon by the
// shoelace formula, computed on a local projection centered on the vertex
// centroid. Fewer than 3 vertices has zero area.
func PolygonAreaSquareMeters(vertices []LatLng) float64 {
	if len(vertices) < 3 {
		return 0
	}
	c := PolygonCentroid(vertices)
	scale := math.Cos(radians(c.Lat))

	var sum float64
	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		ax := degreesToMeters(a.Lng-c.Lng) * scale
		ay := degreesToMeters(a.Lat - c.Lat)
		bx := degreesToMeters(b.Lng-c.Lng) * scale
		by := degreesToMeters(b.Lat - c.Lat)
		sum += ax*by - bx*ay
	}
	return math.Abs(sum / 2)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// degreesToMeters converts a latitude delta (or a cos-scaled longitude
// delta) in degrees to meters along the sphere surface.
func degreesToMeters(deg float64) float64 {
	return radians(deg) * EarthRadiusMeters
}

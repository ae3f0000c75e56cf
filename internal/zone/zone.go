// Package zone evaluates safe-zone membership and no-tag time windows.
// Evaluators are stateless; configuration is supplied by the caller on each
// check.
package zone

import (
	"errors"
	"fmt"

	"github.com/manhuntgg/manhunt-server/internal/geo"
)

var (
	ErrInvalidCenter   = errors.New("zone: invalid center coordinate")
	ErrInvalidRadius   = errors.New("zone: radius must be positive")
	ErrTooFewVertices  = errors.New("zone: polygon needs at least 3 vertices")
	ErrInvalidVertex   = errors.New("zone: invalid vertex coordinate")
)

// Circle is a circular safe zone.
type Circle struct {
	Center       geo.LatLng `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
	Active       bool       `json:"active"`
}

// Validate rejects malformed circles at configuration time.
func (c Circle) Validate() error {
	if !c.Center.Valid() {
		return ErrInvalidCenter
	}
	if c.RadiusMeters <= 0 {
		return ErrInvalidRadius
	}
	return nil
}

// Contains reports whether p is inside the circle. Inactive zones contain
// nothing.
func (c Circle) Contains(p geo.LatLng) bool {
	return c.Active && geo.DistanceMeters(p, c.Center) <= c.RadiusMeters
}

// Polygon is a polygonal safe zone. Vertex order defines the outline;
// membership is orientation-independent.
type Polygon struct {
	Vertices []geo.LatLng `json:"vertices"`
	Active   bool         `json:"active"`
}

// Validate rejects malformed polygons at configuration time.
func (pg Polygon) Validate() error {
	if len(pg.Vertices) < 3 {
		return ErrTooFewVertices
	}
	for i, v := range pg.Vertices {
		if !v.Valid() {
			return fmt.Errorf("%w: vertex %d", ErrInvalidVertex, i)
		}
	}
	return nil
}

// Contains reports whether p is inside the polygon. Inactive zones contain
// nothing.
func (pg Polygon) Contains(p geo.LatLng) bool {
	return pg.Active && geo.PointInPolygon(p, pg.Vertices)
}

// Set is the safe-zone configuration of a game.
type Set struct {
	Circles  []Circle  `json:"circles"`
	Polygons []Polygon `json:"polygons"`
}

// Validate checks every zone in the set.
func (s Set) Validate() error {
	for i, c := range s.Circles {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("circle %d: %w", i, err)
		}
	}
	for i, pg := range s.Polygons {
		if err := pg.Validate(); err != nil {
			return fmt.Errorf("polygon %d: %w", i, err)
		}
	}
	return nil
}

// Contains reports whether any active zone in the set contains p. An empty
// set contains nothing; the first match short-circuits.
func (s Set) Contains(p geo.LatLng) bool {
	for _, c := range s.Circles {
		if c.Contains(p) {
			return true
		}
	}
	for _, pg := range s.Polygons {
		if pg.Contains(p) {
			return true
		}
	}
	return false
}

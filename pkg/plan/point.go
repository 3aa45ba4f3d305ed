// Package plan turns logical chess moves into collision-safe waypoint
// sequences for a single magnet toolhead. All geometry lives in board
// units (one square = 1x1); millimeter conversion happens at the printer
// boundary, never here.
package plan

import (
	"math"

	"github.com/gwillem/printerchess/pkg/board"
)

// Point is a position in board units.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Manhattan returns the Manhattan distance to q.
func (p Point) Manhattan(q Point) float64 {
	return math.Abs(q.X-p.X) + math.Abs(q.Y-p.Y)
}

// Geometry maps squares onto the plane. Origin is the outer corner of a1;
// Square is the side length of one square in the session's unit space.
type Geometry struct {
	Origin Point
	Square float64
}

// UnitGeometry is the default: a1's corner at (0,0), squares of size 1.
func UnitGeometry() Geometry {
	return Geometry{Square: 1}
}

// Center returns the center point of sq.
func (g Geometry) Center(sq board.Square) Point {
	return Point{
		X: g.Origin.X + (float64(sq.File())+0.5)*g.Square,
		Y: g.Origin.Y + (float64(sq.Rank())+0.5)*g.Square,
	}
}

// BoardMin returns the lower-left corner of the playing surface.
func (g Geometry) BoardMin() Point { return g.Origin }

// BoardMax returns the upper-right corner of the playing surface.
func (g Geometry) BoardMax() Point {
	return Point{X: g.Origin.X + 8*g.Square, Y: g.Origin.Y + 8*g.Square}
}

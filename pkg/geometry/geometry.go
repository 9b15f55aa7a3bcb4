// Package geometry implements the small computational-geometry kernel used to
// model skewed and rotated text regions detected by OCR.
//
// This package provides:
//
// - Implicit line equations (a·x + b·y + c = 0) built from points or directions
// - Rotation, intersection, projection and side-of-line tests
// - A rotated quadrilateral (BoundingBox) with cached derived edges and center lines
//
// All functions are pure. Degenerate input (zero-length vectors, parallel
// lines) never panics or returns an error: intersections report "no point"
// and callers substitute a fallback.
//
// Key Types:
//
// - Point: a 2D coordinate (r2.Point from github.com/golang/geo)
// - Quad: four corners in OCR order (top-left, top-right, bottom-right, bottom-left)
// - Line: an implicit line equation
// - BoundingBox: a rotated box with corners A (top-left), B (top-right), C (bottom-right), D (bottom-left)
package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point is a 2D coordinate. It is a value type with no identity.
type Point = r2.Point

// Quad holds four corners in the order OCR engines report them:
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// TopLeft returns the first corner
func (q Quad) TopLeft() Point { return q[0] }

// TopRight returns the second corner
func (q Quad) TopRight() Point { return q[1] }

// BottomRight returns the third corner
func (q Quad) BottomRight() Point { return q[2] }

// BottomLeft returns the fourth corner
func (q Quad) BottomLeft() Point { return q[3] }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rotate rotates p around pivot by angle radians.
func Rotate(p, pivot Point, angle float64) Point {
	cos, sin := math.Cos(angle), math.Sin(angle)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Point{
		X: dx*cos - dy*sin + pivot.X,
		Y: dx*sin + dy*cos + pivot.Y,
	}
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Angle returns the signed angle in radians between v and the positive x axis.
// A zero vector has angle 0.
func Angle(v Point) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}

// Sign returns -1, 0 or 1 depending on the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// SameSide reports whether p1 and p2 lie on the same side of the line through
// edgeA and edgeB. A point exactly on the line counts as being on the same side
// as anything, so predicates built on top of it are boundary inclusive.
func SameSide(p1, p2, edgeA, edgeB Point) bool {
	edge := edgeB.Sub(edgeA)
	d1 := Sign(p1.Sub(edgeA).Cross(edge))
	d2 := Sign(p2.Sub(edgeA).Cross(edge))
	return d1*d2 >= 0
}

// Scale maps p to (p.X*xRatio + offset.X, p.Y*yRatio + offset.Y).
func Scale(p Point, xRatio, yRatio float64, offset Point) Point {
	return Point{X: p.X*xRatio + offset.X, Y: p.Y*yRatio + offset.Y}
}

func isFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

package geometry

import (
	"encoding/json"

	"github.com/golang/geo/r2"
)

// BoundingBox is a four corner, possibly rotated, quadrilateral.
//
//	A ---------------- B
//	|                  |
//	D ---------------- C
//
// A-B is the top edge, D-C the bottom edge and A-D, B-C the sides. Every field
// other than the corners is derived once by NewBoundingBox and cached; boxes
// are values and are never mutated after construction.
type BoundingBox struct {
	A Point // Top-left corner
	B Point // Top-right corner
	C Point // Bottom-right corner
	D Point // Bottom-left corner

	Top    Line // Line through A and B
	Right  Line // Line through B and C
	Bottom Line // Line through C and D
	Left   Line // Line through A and D

	Width  float64 // |C - D|
	Height float64 // |D - A|

	HorizontalCenter Line // Through the box center, parallel to D->C
	VerticalCenter   Line // Through the box center, parallel to D->A

	Angle    float64 // Angle of D->C relative to the x axis, in radians
	Envelope r2.Rect // Axis-aligned rectangle enclosing all four corners
}

// NewBoundingBox builds a box from its corners and computes the derived fields.
func NewBoundingBox(a, b, c, d Point) BoundingBox {
	center := Midpoint(d, b)
	return BoundingBox{
		A:                a,
		B:                b,
		C:                c,
		D:                d,
		Top:              NewLine(a, b),
		Right:            NewLine(b, c),
		Bottom:           NewLine(c, d),
		Left:             NewLine(a, d),
		Width:            c.Sub(d).Norm(),
		Height:           d.Sub(a).Norm(),
		HorizontalCenter: NewLineAt(d, c, center),
		VerticalCenter:   NewLineAt(d, a, center),
		Angle:            Angle(c.Sub(d)),
		Envelope:         r2.RectFromPoints(a, b, c, d),
	}
}

// BoxFromQuad builds a box from corners in OCR order
// (top-left, top-right, bottom-right, bottom-left).
func BoxFromQuad(q Quad) BoundingBox {
	return NewBoundingBox(q[0], q[1], q[2], q[3])
}

// Quad returns the corners in OCR order.
func (b BoundingBox) Quad() Quad {
	return Quad{b.A, b.B, b.C, b.D}
}

// Corners returns the corners in drawing order A, B, C, D.
func (b BoundingBox) Corners() []Point {
	return []Point{b.A, b.B, b.C, b.D}
}

// Center returns the midpoint of the D-B diagonal.
func (b BoundingBox) Center() Point {
	return Midpoint(b.D, b.B)
}

// IsPointLeft reports whether p lies strictly outside the left edge (A-D).
func (b BoundingBox) IsPointLeft(p Point) bool {
	return !SameSide(p, b.C, b.A, b.D)
}

// IsPointRight reports whether p lies strictly outside the right edge (B-C).
func (b BoundingBox) IsPointRight(p Point) bool {
	return !SameSide(p, b.A, b.B, b.C)
}

// IsPointAbove reports whether p lies above the top edge. Points below the
// envelope's bottom are never above.
func (b BoundingBox) IsPointAbove(p Point) bool {
	if p.Y > b.Envelope.Y.Hi {
		return false
	}
	return !SameSide(p, b.D, b.A, b.B)
}

// IsPointBelow reports whether p lies below the bottom edge. Points above the
// envelope's top are never below.
func (b BoundingBox) IsPointBelow(p Point) bool {
	if p.Y < b.Envelope.Y.Lo {
		return false
	}
	return !SameSide(p, b.A, b.D, b.C)
}

// Contains reports whether p lies inside the box, edges included.
// The test measures distances to both center lines, so it holds for any
// rotation of the box.
func (b BoundingBox) Contains(p Point) bool {
	return b.HorizontalCenter.Distance(p) <= b.Height/2 &&
		b.VerticalCenter.Distance(p) <= b.Width/2
}

// Scale returns a new box with every corner mapped through
// p -> (p.X*xRatio + offset.X, p.Y*yRatio + offset.Y).
func (b BoundingBox) Scale(xRatio, yRatio float64, offset Point) BoundingBox {
	return NewBoundingBox(
		Scale(b.A, xRatio, yRatio, offset),
		Scale(b.B, xRatio, yRatio, offset),
		Scale(b.C, xRatio, yRatio, offset),
		Scale(b.D, xRatio, yRatio, offset),
	)
}

// MarshalJSON encodes only the corners; derived fields are rebuilt on decode.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Quad())
}

// UnmarshalJSON decodes four corners and recomputes the derived fields.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var q Quad
	if err := json.Unmarshal(data, &q); err != nil {
		return err
	}
	*b = BoxFromQuad(q)
	return nil
}

package geometry

import (
	"fmt"
	"math"
)

// Line is the implicit line a·x + b·y + c = 0.
// The coefficients are not normalized; (A, B) is the line's normal vector.
type Line struct {
	A float64
	B float64
	C float64
}

// NewLine returns the line with direction p2-p1 passing through p1.
func NewLine(p1, p2 Point) Line {
	return NewLineAt(p1, p2, p1)
}

// NewLineAt returns the line with direction p2-p1 passing through anchor.
func NewLineAt(p1, p2, anchor Point) Line {
	dir := p2.Sub(p1)
	a := dir.Y
	b := -dir.X
	return Line{A: a, B: b, C: -(a*anchor.X + b*anchor.Y)}
}

// PerpendicularLine returns the line through anchor that is perpendicular to
// the direction (dirA, dirB).
func PerpendicularLine(dirA, dirB float64, anchor Point) Line {
	return Line{A: dirB, B: -dirA, C: -(dirB*anchor.X - dirA*anchor.Y)}
}

// Through returns a line with the same orientation passing through p.
func (l Line) Through(p Point) Line {
	return Line{A: l.A, B: l.B, C: -(l.A*p.X + l.B*p.Y)}
}

// IsDegenerate reports whether the line has no direction (a = b = 0).
func (l Line) IsDegenerate() bool {
	return l.A == 0 && l.B == 0
}

// Distance returns the perpendicular distance from p to the line.
// A degenerate line is infinitely far from every point.
func (l Line) Distance(p Point) float64 {
	if l.IsDegenerate() {
		return math.Inf(1)
	}
	return math.Abs(l.A*p.X+l.B*p.Y+l.C) / math.Sqrt(l.A*l.A+l.B*l.B)
}

// Intersect solves the 2x2 system formed by l and other.
// It returns false when the lines are parallel, degenerate, or the solution is
// not a finite point.
func (l Line) Intersect(other Line) (Point, bool) {
	if l.A*other.B-l.B*other.A == 0 {
		return Point{}, false
	}
	var p Point
	if l.A == 0 {
		p.Y = -l.C / l.B
		p.X = (-other.C - other.B*p.Y) / other.A
	} else {
		p.Y = (other.A*l.C/l.A - other.C) / (other.B - other.A*l.B/l.A)
		p.X = (-l.B*p.Y - l.C) / l.A
	}
	if !isFinite(p) {
		return Point{}, false
	}
	return p, true
}

// Project returns the foot of the perpendicular dropped from p onto the line.
// If no such point exists p is returned unchanged.
func (l Line) Project(p Point) Point {
	foot, ok := PerpendicularLine(l.A, l.B, p).Intersect(l)
	if !ok {
		return p
	}
	return foot
}

// String implements fmt.Stringer
func (l Line) String() string {
	return fmt.Sprintf("%gx + %gy + %g = 0", l.A, l.B, l.C)
}

package overlay

import (
	"math"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/selection"
)

// handle is the drawable shape of a selection cursor: a right triangle whose
// tip sits on the anchor, joined to a circle
type handle struct {
	Triangle [3]geometry.Point
	Center   geometry.Point
	Radius   float64
}

// startHandle shapes the start cursor, anchored at its top-right corner
func startHandle(c selection.Cursor) handle {
	return newHandle(c.Box.B, c.Box.A, -math.Pi/2)
}

// endHandle shapes the end cursor, anchored at its top-left corner
func endHandle(c selection.Cursor) handle {
	return newHandle(c.Box.A, c.Box.B, math.Pi/2)
}

func newHandle(anchor, other geometry.Point, turn float64) handle {
	p1 := geometry.Midpoint(anchor, other)
	p2 := geometry.Rotate(p1, anchor, turn)
	return handle{
		Triangle: [3]geometry.Point{anchor, p1, p2},
		Center:   p1.Add(p2).Sub(anchor),
		Radius:   anchor.Sub(p1).Norm(),
	}
}

// handles returns the shapes of the cursors present in view
func handles(view selection.View) []handle {
	var out []handle
	if view.StartCursor != nil {
		out = append(out, startHandle(*view.StartCursor))
	}
	if view.EndCursor != nil {
		out = append(out, endHandle(*view.EndCursor))
	}
	return out
}

// circlePoints approximates a circle with n points
func circlePoints(center geometry.Point, radius float64, n int) []geometry.Point {
	points := make([]geometry.Point, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = geometry.Pt(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
	return points
}

package selection

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/gardar/ocrsurface/pkg/geometry"
)

// DefaultCursorSize is the side length of a handle's touch region
const DefaultCursorSize = 24.0

// StartCursor builds the start handle hanging below-left of anchor, rotated by
// angle around it. When viewport is non-nil and the handle would stick out of
// its left side, the handle is swung around anchor to stay inside.
func StartCursor(anchor geometry.Point, angle, size float64, viewport *r2.Rect) Cursor {
	region := geometry.NewBoundingBox(
		geometry.Rotate(geometry.Pt(anchor.X-size, anchor.Y), anchor, angle),
		anchor,
		geometry.Rotate(geometry.Pt(anchor.X, anchor.Y+size), anchor, angle),
		geometry.Rotate(geometry.Pt(anchor.X-size, anchor.Y+size), anchor, angle),
	)
	cursor := Cursor{Box: region, Angle: angle}
	if viewport == nil {
		return cursor
	}

	left := viewport.X.Lo
	if anchor.X < left {
		return cursor
	}
	radius := size / 2
	center := geometry.Midpoint(region.B, region.D)
	if math.Abs(center.X-left) >= radius {
		return cursor
	}
	pivot, ok := swingPivot(anchor, left+radius, radius)
	if !ok {
		return cursor
	}
	cursor.Box = geometry.NewBoundingBox(
		geometry.Rotate(anchor, pivot, -math.Pi/2),
		anchor,
		geometry.Rotate(anchor, pivot, math.Pi/2),
		geometry.Rotate(anchor, pivot, math.Pi),
	)
	return cursor
}

// EndCursor builds the end handle hanging below-right of anchor. It is the
// mirror of StartCursor against the viewport's right side.
func EndCursor(anchor geometry.Point, angle, size float64, viewport *r2.Rect) Cursor {
	region := geometry.NewBoundingBox(
		anchor,
		geometry.Rotate(geometry.Pt(anchor.X+size, anchor.Y), anchor, angle),
		geometry.Rotate(geometry.Pt(anchor.X+size, anchor.Y+size), anchor, angle),
		geometry.Rotate(geometry.Pt(anchor.X, anchor.Y+size), anchor, angle),
	)
	cursor := Cursor{Box: region, Angle: angle}
	if viewport == nil {
		return cursor
	}

	right := viewport.X.Hi
	if anchor.X > right {
		return cursor
	}
	radius := size / 2
	center := geometry.Midpoint(region.A, region.C)
	if math.Abs(center.X-right) >= radius {
		return cursor
	}
	pivot, ok := swingPivot(anchor, right-radius, radius)
	if !ok {
		return cursor
	}
	cursor.Box = geometry.NewBoundingBox(
		anchor,
		geometry.Rotate(anchor, pivot, math.Pi/2),
		geometry.Rotate(anchor, pivot, math.Pi),
		geometry.Rotate(anchor, pivot, -math.Pi/2),
	)
	return cursor
}

// swingPivot returns the center of a handle with the given radius whose x is
// fixed at centerX and whose corner still touches anchor.
func swingPivot(anchor geometry.Point, centerX, radius float64) (geometry.Point, bool) {
	distance := math.Abs(centerX - anchor.X)
	rest := 2*radius*radius - distance*distance
	if rest < 0 {
		return geometry.Point{}, false
	}
	return geometry.Pt(centerX, anchor.Y+math.Sqrt(rest)), true
}

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestSameSide(t *testing.T) {
	t.Run("regression from baseline side test", func(t *testing.T) {
		p := Pt(554, 81.548)
		a := Pt(10.062, 167.442)
		d := Pt(10.062, 210.977)
		c := Pt(910.062, 210.977)
		assert.True(t, SameSide(p, a, d, c))
	})

	t.Run("point against itself", func(t *testing.T) {
		edgeA, edgeB := Pt(-3, 4), Pt(12, -7.5)
		for _, p := range []Point{Pt(0, 0), Pt(-3, 4), Pt(100, 100), Pt(4.5, -1.75), Pt(-1e6, 3)} {
			assert.True(t, SameSide(p, p, edgeA, edgeB), "p=%v", p)
		}
	})

	t.Run("opposite sides", func(t *testing.T) {
		assert.False(t, SameSide(Pt(0, -1), Pt(0, 1), Pt(-5, 0), Pt(5, 0)))
	})

	t.Run("on the edge counts as same side", func(t *testing.T) {
		assert.True(t, SameSide(Pt(2, 0), Pt(0, 1), Pt(-5, 0), Pt(5, 0)))
		assert.True(t, SameSide(Pt(2, 0), Pt(0, -1), Pt(-5, 0), Pt(5, 0)))
	})
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		pivot Point
		angle float64
		want  Point
	}{
		{"quarter turn around origin", Pt(1, 0), Pt(0, 0), math.Pi / 2, Pt(0, 1)},
		{"half turn around pivot", Pt(3, 2), Pt(2, 2), math.Pi, Pt(1, 2)},
		{"zero angle", Pt(7, -3), Pt(1, 1), 0, Pt(7, -3)},
		{"negative quarter turn", Pt(2, 1), Pt(1, 1), -math.Pi / 2, Pt(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(tt.p, tt.pivot, tt.angle)
			assert.InDelta(t, tt.want.X, got.X, eps)
			assert.InDelta(t, tt.want.Y, got.Y, eps)
		})
	}
}

func TestAngle(t *testing.T) {
	assert.Equal(t, 0.0, Angle(Pt(0, 0)))
	assert.InDelta(t, 0, Angle(Pt(5, 0)), eps)
	assert.InDelta(t, math.Pi/4, Angle(Pt(1, 1)), eps)
	assert.InDelta(t, -math.Pi/4, Angle(Pt(1, -1)), eps)
	assert.InDelta(t, math.Pi, Angle(Pt(-2, 0)), eps)
}

func TestLineIntersect(t *testing.T) {
	horizontal := NewLine(Pt(0, 2), Pt(5, 2))
	vertical := NewLine(Pt(3, 0), Pt(3, 5))

	p, ok := horizontal.Intersect(vertical)
	require.True(t, ok)
	assert.InDelta(t, 3, p.X, eps)
	assert.InDelta(t, 2, p.Y, eps)

	p, ok = vertical.Intersect(horizontal)
	require.True(t, ok)
	assert.InDelta(t, 3, p.X, eps)
	assert.InDelta(t, 2, p.Y, eps)

	diagonal := NewLine(Pt(0, 0), Pt(1, 1))
	anti := NewLine(Pt(0, 4), Pt(4, 0))
	p, ok = diagonal.Intersect(anti)
	require.True(t, ok)
	assert.InDelta(t, 2, p.X, eps)
	assert.InDelta(t, 2, p.Y, eps)
}

func TestLineIntersectNoPoint(t *testing.T) {
	a := NewLine(Pt(0, 0), Pt(4, 1))
	b := NewLine(Pt(0, 3), Pt(4, 4))
	_, ok := a.Intersect(b)
	assert.False(t, ok, "parallel lines")

	degenerate := NewLine(Pt(1, 1), Pt(1, 1))
	_, ok = degenerate.Intersect(a)
	assert.False(t, ok, "degenerate line")
}

func TestLineDistance(t *testing.T) {
	l := NewLine(Pt(0, 2), Pt(5, 2))
	assert.InDelta(t, 3, l.Distance(Pt(10, 5)), eps)
	assert.InDelta(t, 0, l.Distance(Pt(-4, 2)), eps)

	degenerate := NewLine(Pt(1, 1), Pt(1, 1))
	assert.True(t, degenerate.IsDegenerate())
	assert.True(t, math.IsInf(degenerate.Distance(Pt(1, 1)), 1))
}

func TestLineThrough(t *testing.T) {
	l := NewLine(Pt(0, 0), Pt(2, 1))
	moved := l.Through(Pt(0, 5))
	assert.Equal(t, l.A, moved.A)
	assert.Equal(t, l.B, moved.B)
	assert.InDelta(t, 0, moved.Distance(Pt(0, 5)), eps)
	assert.InDelta(t, 0, moved.Distance(Pt(2, 6)), eps)
}

func TestLineProject(t *testing.T) {
	l := NewLine(Pt(0, 2), Pt(5, 2))
	foot := l.Project(Pt(1, 7))
	assert.InDelta(t, 1, foot.X, eps)
	assert.InDelta(t, 2, foot.Y, eps)

	slanted := NewLine(Pt(0, 0), Pt(1, 1))
	foot = slanted.Project(Pt(2, 0))
	assert.InDelta(t, 1, foot.X, eps)
	assert.InDelta(t, 1, foot.Y, eps)

	degenerate := NewLine(Pt(1, 1), Pt(1, 1))
	assert.Equal(t, Pt(4, 4), degenerate.Project(Pt(4, 4)))
}

func TestPerpendicularLine(t *testing.T) {
	base := NewLine(Pt(0, 0), Pt(3, 4))
	perp := PerpendicularLine(base.A, base.B, Pt(3, 4))
	assert.InDelta(t, 0, perp.Distance(Pt(3, 4)), eps)
	// Normals of perpendicular lines are orthogonal.
	assert.InDelta(t, 0, base.A*perp.A+base.B*perp.B, eps)
}

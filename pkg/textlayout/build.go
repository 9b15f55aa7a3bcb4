// Package textlayout turns raw OCR quadrilaterals into an ordered text layout.
//
// OCR engines report one quadrilateral per line and per word, and those quads
// are noisy: top edges drift from the baseline and word boxes wobble around
// the line. Build normalizes them:
//
// - Each line box is rebuilt as a true parallelogram from its baseline and
// the larger of its two top-corner heights
// - Each word box is cut from the line box so every word shares the line's
// top and bottom edges
// - Lines and words get sequential ids, unique across the whole image
// - Words are ordered left to right in the line's own rotated frame and lines
// top to bottom by the top of their envelope
//
// Multi-column pages are not reordered: lines from different columns
// interleave by vertical position.
package textlayout

import (
	"io"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
)

type buildOptions struct {
	logger logrus.FieldLogger
	id     uuid.UUID
}

// BuildOption configures Build
type BuildOption func(*buildOptions)

// WithLogger sets the logger used for debug output. Nil keeps the default,
// which discards everything.
func WithLogger(logger logrus.FieldLogger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithID sets the layout id instead of generating a random one
func WithID(id uuid.UUID) BuildOption {
	return func(o *buildOptions) {
		o.id = id
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Build converts a raw OCR result into a Layout.
// Lines and words without corners are dropped. A nil result yields an empty layout.
func Build(result *ocr.Result, opts ...BuildOption) *Layout {
	o := buildOptions{logger: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}

	layout := &Layout{ID: o.id}
	if result == nil {
		return layout
	}
	layout.ImageWidth = result.ImageWidth
	layout.ImageHeight = result.ImageHeight

	lineID, elementID := 0, 0
	droppedLines, droppedWords := 0, 0
	for _, block := range result.Blocks {
		for _, raw := range block.Lines {
			if raw.Corners == nil {
				droppedLines++
				continue
			}
			box := lineBox(*raw.Corners)
			line := Line{
				ID:       lineID,
				Text:     raw.Text,
				Box:      box,
				Elements: make([]Element, 0, len(raw.Words)),
			}
			lineID++

			for _, word := range raw.Words {
				if word.Corners == nil {
					droppedWords++
					continue
				}
				line.Elements = append(line.Elements, Element{
					ID:   elementID,
					Text: word.Text,
					Box:  elementBox(*word.Corners, box),
				})
				elementID++
			}
			sortElements(&line)
			layout.Lines = append(layout.Lines, line)
		}
	}

	sort.SliceStable(layout.Lines, func(i, j int) bool {
		return layout.Lines[i].Box.Envelope.Y.Lo < layout.Lines[j].Box.Envelope.Y.Lo
	})

	o.logger.WithFields(logrus.Fields{
		"layout":        layout.ID,
		"lines":         len(layout.Lines),
		"elements":      elementID,
		"dropped_lines": droppedLines,
		"dropped_words": droppedWords,
	}).Debug("Built text layout")

	return layout
}

// lineBox rebuilds a line quad as a parallelogram standing on its baseline.
// The height is the larger distance of the two top corners to the baseline.
func lineBox(q geometry.Quad) geometry.BoundingBox {
	bottomLeft, bottomRight := q.BottomLeft(), q.BottomRight()
	u := bottomRight.Sub(bottomLeft)
	length := u.Norm()
	if length == 0 {
		// No baseline direction to build on
		return geometry.BoxFromQuad(q)
	}

	baseline := geometry.NewLine(bottomLeft, bottomRight)
	thickness := math.Max(baseline.Distance(q.TopLeft()), baseline.Distance(q.TopRight()))

	// Unsigned angle between the baseline and the x axis; the rotation
	// direction comes from the baseline's vertical component.
	alpha := math.Acos(u.X / length)
	var rotation float64
	switch {
	case u.Y < 0:
		rotation = -alpha - xSign(u.X)*math.Pi/2
	case u.Y > 0:
		rotation = alpha - xSign(u.X)*math.Pi/2
	default:
		rotation = -math.Pi / 2
	}

	topLeft := geometry.Rotate(geometry.Pt(bottomLeft.X+thickness, bottomLeft.Y), bottomLeft, rotation)
	topRight := topLeft.Add(u)
	return geometry.NewBoundingBox(topLeft, topRight, bottomRight, bottomLeft)
}

// xSign is the sign of x with a vertical baseline (x == 0) treated as positive
func xSign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// elementBox cuts a word box out of its line box. Lines parallel to the line's
// vertical center line are drawn through the word's bottom corners and
// intersected with the line's top and bottom edges. A corner whose
// intersection does not exist keeps the word's own corner.
func elementBox(q geometry.Quad, line geometry.BoundingBox) geometry.BoundingBox {
	left := line.VerticalCenter.Through(q.BottomLeft())
	right := line.VerticalCenter.Through(q.BottomRight())
	return geometry.NewBoundingBox(
		intersectOr(line.Top, left, q.TopLeft()),
		intersectOr(line.Top, right, q.TopRight()),
		intersectOr(line.Bottom, right, q.BottomRight()),
		intersectOr(line.Bottom, left, q.BottomLeft()),
	)
}

func intersectOr(a, b geometry.Line, fallback geometry.Point) geometry.Point {
	if p, ok := a.Intersect(b); ok {
		return p
	}
	return fallback
}

// sortElements orders elements by the x of their bottom-left corner after
// rotating it into the line's unrotated frame
func sortElements(line *Line) {
	pivot, angle := line.Box.D, -line.Box.Angle
	key := func(e Element) float64 {
		return geometry.Rotate(e.Box.D, pivot, angle).X
	}
	sort.SliceStable(line.Elements, func(i, j int) bool {
		return key(line.Elements[i]) < key(line.Elements[j])
	})
}

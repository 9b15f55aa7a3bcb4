package textlayout

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gardar/ocrsurface/pkg/geometry"
)

// Element is the smallest selectable unit of text, usually a word
type Element struct {
	ID   int                  `json:"id"`   // Unique across the layout
	Text string               `json:"text"` // Recognized text
	Box  geometry.BoundingBox `json:"box"`  // Refined box sharing the line's top and bottom edges
}

// Line is a detected text line with its elements in reading order
type Line struct {
	ID       int                  `json:"id"`       // Unique across the layout
	Text     string               `json:"text"`     // Full line text as reported by the OCR provider
	Box      geometry.BoundingBox `json:"box"`      // Corrected parallelogram
	Elements []Element            `json:"elements"` // Left to right in the line's own frame
}

// ElementIndex returns the position of the element with the given id, or -1
func (l *Line) ElementIndex(id int) int {
	for i := range l.Elements {
		if l.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// ElementsText joins the text of elements[from..to] (inclusive) with single spaces.
// Out of range bounds are clamped.
func (l *Line) ElementsText(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to >= len(l.Elements) {
		to = len(l.Elements) - 1
	}
	if from > to {
		return ""
	}
	words := make([]string, 0, to-from+1)
	for _, e := range l.Elements[from : to+1] {
		words = append(words, e.Text)
	}
	return strings.Join(words, " ")
}

// Scale returns a copy of the line with every box mapped through geometry.Scale
func (l Line) Scale(xRatio, yRatio float64, offset geometry.Point) Line {
	scaled := Line{
		ID:       l.ID,
		Text:     l.Text,
		Box:      l.Box.Scale(xRatio, yRatio, offset),
		Elements: make([]Element, len(l.Elements)),
	}
	for i, e := range l.Elements {
		scaled.Elements[i] = Element{ID: e.ID, Text: e.Text, Box: e.Box.Scale(xRatio, yRatio, offset)}
	}
	return scaled
}

// Layout is the ordered text content of one processed image.
// A Layout is immutable once built; Scale returns a new instance.
type Layout struct {
	ID          uuid.UUID `json:"id"`           // Identifies the processed image; kept by Scale
	ImageWidth  int       `json:"image_width"`  // Source image width in pixels
	ImageHeight int       `json:"image_height"` // Source image height in pixels
	Lines       []Line    `json:"lines"`        // Top to bottom by envelope top
}

// Empty reports whether the layout holds no selectable element
func (l *Layout) Empty() bool {
	if l == nil {
		return true
	}
	for i := range l.Lines {
		if len(l.Lines[i].Elements) > 0 {
			return false
		}
	}
	return true
}

// LineIndex returns the position of the line with the given id, or -1
func (l *Layout) LineIndex(id int) int {
	if l == nil {
		return -1
	}
	for i := range l.Lines {
		if l.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

// Line looks up a line by id
func (l *Layout) Line(id int) (*Line, bool) {
	i := l.LineIndex(id)
	if i < 0 {
		return nil, false
	}
	return &l.Lines[i], true
}

// Element looks up an element by line and element id
func (l *Layout) Element(lineID, elementID int) (*Element, bool) {
	line, ok := l.Line(lineID)
	if !ok {
		return nil, false
	}
	i := line.ElementIndex(elementID)
	if i < 0 {
		return nil, false
	}
	return &line.Elements[i], true
}

// Text returns the whole layout as text: elements joined by spaces, lines by newlines
func (l *Layout) Text() string {
	if l == nil {
		return ""
	}
	lines := make([]string, 0, len(l.Lines))
	for i := range l.Lines {
		line := &l.Lines[i]
		if len(line.Elements) == 0 {
			continue
		}
		lines = append(lines, line.ElementsText(0, len(line.Elements)-1))
	}
	return strings.Join(lines, "\n")
}

// Scale maps every box into view space and returns a new layout with the same ID
func (l *Layout) Scale(xRatio, yRatio float64, offset geometry.Point) *Layout {
	if l == nil {
		return nil
	}
	scaled := &Layout{
		ID:          l.ID,
		ImageWidth:  l.ImageWidth,
		ImageHeight: l.ImageHeight,
		Lines:       make([]Line, len(l.Lines)),
	}
	for i, line := range l.Lines {
		scaled.Lines[i] = line.Scale(xRatio, yRatio, offset)
	}
	return scaled
}

// Boxes returns the line boxes in layout order
func (l *Layout) Boxes() []geometry.BoundingBox {
	if l == nil {
		return nil
	}
	boxes := make([]geometry.BoundingBox, len(l.Lines))
	for i := range l.Lines {
		boxes[i] = l.Lines[i].Box
	}
	return boxes
}

package hocr

import (
	"fmt"
	"math"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// ToResult converts one hOCR page into a raw OCR result.
// Lines get a quad skewed along their baseline or rotated by their textangle;
// words keep their boxes unless the line is rotated. Entries with an empty
// bbox are passed on without corners.
func ToResult(page Page) *ocr.Result {
	result := &ocr.Result{
		ImageWidth:  page.Width(),
		ImageHeight: page.Height(),
		Blocks:      make([]ocr.Block, 0, len(page.Blocks)),
	}
	for _, block := range page.Blocks {
		out := ocr.Block{Lines: make([]ocr.Line, 0, len(block.Lines))}
		for _, line := range block.Lines {
			raw := ocr.Line{
				Text:    line.Text(),
				Corners: lineQuad(line),
				Words:   make([]ocr.Word, 0, len(line.Words)),
			}
			for _, word := range line.Words {
				raw.Words = append(raw.Words, ocr.Word{
					Text:    word.Text,
					Corners: boxQuad(word.BBox, line.TextAngle),
				})
			}
			out.Lines = append(out.Lines, raw)
		}
		result.Blocks = append(result.Blocks, out)
	}
	return result
}

// empty reports whether b encloses no area
func (b BoundingBox) empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// lineQuad derives the line corners from bbox, baseline and textangle
func lineQuad(l Line) *geometry.Quad {
	b := l.BBox
	if b.empty() {
		return nil
	}
	if l.TextAngle != 0 || l.Baseline == nil || l.Baseline.Slope == 0 {
		return boxQuad(b, l.TextAngle)
	}

	// The baseline's lower end sits on the bottom of the bbox
	dy := l.Baseline.Slope * (b.X2 - b.X1)
	bottomLeft, bottomRight := geometry.Pt(b.X1, b.Y2-dy), geometry.Pt(b.X2, b.Y2)
	if dy < 0 {
		bottomLeft, bottomRight = geometry.Pt(b.X1, b.Y2), geometry.Pt(b.X2, b.Y2+dy)
	}
	height := (b.Y2 - b.Y1) - math.Abs(dy)
	if height <= 0 {
		height = b.Y2 - b.Y1
	}
	up := geometry.Pt(0, -height)
	return &geometry.Quad{bottomLeft.Add(up), bottomRight.Add(up), bottomRight, bottomLeft}
}

// boxQuad returns the corners of b, or for a non-zero textangle (degrees,
// counter-clockwise) the corners of the rotated box that b encloses
func boxQuad(b BoundingBox, textAngle float64) *geometry.Quad {
	if b.empty() {
		return nil
	}
	if textAngle == 0 {
		return ocr.QuadFromRect(b.X1, b.Y1, b.X2, b.Y2)
	}

	rad := textAngle * math.Pi / 180
	w, h := b.X2-b.X1, b.Y2-b.Y1
	if math.Abs(math.Sin(rad)) > math.Abs(math.Cos(rad)) {
		w, h = h, w
	}
	center := geometry.Pt((b.X1+b.X2)/2, (b.Y1+b.Y2)/2)
	q := *ocr.QuadFromRect(center.X-w/2, center.Y-h/2, center.X+w/2, center.Y+h/2)
	for i := range q {
		q[i] = geometry.Rotate(q[i], center, -rad)
	}
	return &q
}

// FromLayout renders a layout as a single-page hOCR document.
// Boxes become their axis-aligned envelopes; the skew is kept in the line
// baseline, or in textangle when a line is rotated past 45 degrees.
func FromLayout(layout *textlayout.Layout) *Document {
	if layout == nil {
		layout = &textlayout.Layout{}
	}
	page := Page{
		ID:     "page_1",
		Number: 1,
		BBox:   NewBoundingBox(0, 0, float64(layout.ImageWidth), float64(layout.ImageHeight)),
	}
	block := Block{ID: "block_1_1"}
	for _, l := range layout.Lines {
		line := Line{
			ID:   fmt.Sprintf("line_1_%d", l.ID),
			Kind: "ocr_line",
			BBox: envelope(l.Box),
		}
		angle := l.Box.Angle
		if math.Abs(angle) > math.Pi/4 {
			line.TextAngle = math.Round(-angle * 180 / math.Pi)
		} else if angle != 0 {
			slope := math.Tan(angle)
			y := l.Box.D.Y + slope*(line.BBox.X1-l.Box.D.X)
			line.Baseline = &Baseline{Slope: slope, Offset: y - line.BBox.Y2}
		}
		for _, e := range l.Elements {
			line.Words = append(line.Words, Word{
				ID:   fmt.Sprintf("word_1_%d", e.ID),
				Text: e.Text,
				BBox: envelope(e.Box),
			})
		}
		block.Lines = append(block.Lines, line)
		if block.BBox.empty() {
			block.BBox = line.BBox
		} else {
			block.BBox = union(block.BBox, line.BBox)
		}
	}
	if len(block.Lines) > 0 {
		page.Blocks = []Block{block}
	}

	return &Document{
		Title: "OCR layout " + layout.ID.String(),
		Metadata: map[string]string{
			"ocr-system":          "ocrsurface",
			"ocr-number-of-pages": "1",
			"ocr-capabilities":    "ocr_page ocr_carea ocr_line ocrx_word",
		},
		Pages: []Page{page},
	}
}

func envelope(b geometry.BoundingBox) BoundingBox {
	return NewBoundingBox(b.Envelope.X.Lo, b.Envelope.Y.Lo, b.Envelope.X.Hi, b.Envelope.Y.Hi)
}

func union(a, b BoundingBox) BoundingBox {
	return NewBoundingBox(math.Min(a.X1, b.X1), math.Min(a.Y1, b.Y1), math.Max(a.X2, b.X2), math.Max(a.Y2, b.Y2))
}

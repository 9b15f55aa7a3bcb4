// Package tesseract provides an OCR provider backed by a local Tesseract
// installation through gosseract.
//
// Tesseract support needs cgo and the Tesseract libraries, so it is only
// compiled with the "ocr" build tag:
//
//	go build -tags ocr
//
// Without the tag Recognize returns ErrOCRNotEnabled.
package tesseract

import (
	"errors"
	"image"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
)

// ErrOCRNotEnabled is returned when Tesseract support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

// Provider runs OCR with Tesseract
type Provider struct {
	Languages []string          // Tesseract language codes, e.g. "eng", "deu"
	Variables map[string]string // Extra Tesseract variables
}

// Name implements ocr.Provider
func (Provider) Name() string { return "tesseract" }

// box is a recognized line or word with its pixel rectangle
type box struct {
	Text string
	Rect image.Rectangle
}

// group assigns every word to the line containing its center and returns the
// result as a single block. Words outside every line are dropped.
func group(width, height int, lines, words []box) *ocr.Result {
	out := ocr.Block{Lines: make([]ocr.Line, len(lines))}
	for i, l := range lines {
		out.Lines[i] = ocr.Line{Text: l.Text, Corners: rectQuad(l.Rect)}
	}
	for _, w := range words {
		center := image.Pt((w.Rect.Min.X+w.Rect.Max.X)/2, (w.Rect.Min.Y+w.Rect.Max.Y)/2)
		for i, l := range lines {
			if center.In(l.Rect) {
				out.Lines[i].Words = append(out.Lines[i].Words, ocr.Word{Text: w.Text, Corners: rectQuad(w.Rect)})
				break
			}
		}
	}

	result := &ocr.Result{ImageWidth: width, ImageHeight: height}
	if len(out.Lines) > 0 {
		result.Blocks = []ocr.Block{out}
	}
	return result
}

func rectQuad(r image.Rectangle) *geometry.Quad {
	if r.Empty() {
		return nil
	}
	return ocr.QuadFromRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
}

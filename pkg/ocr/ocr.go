// Package ocr defines the boundary between OCR engines and the text layout.
//
// An OCR engine is an opaque Provider: it receives an encoded image and
// returns a Result, the raw nested blocks -> lines -> words structure with
// optional four-corner quadrilaterals. Entries without corners are kept in the
// Result as reported; dropping them is the layout builder's job.
//
// Providers in this module:
//
// - hocr.Provider: a static hOCR document (Tesseract, OCRmyPDF, ...)
// - gdocai.Provider: Google Document AI
// - tesseract.Provider: local Tesseract through gosseract (build tag "ocr")
package ocr

import (
	"context"
	"errors"

	"github.com/gardar/ocrsurface/pkg/geometry"
)

var (
	// ErrNoImage is returned when a provider is called without image data
	ErrNoImage = errors.New("ocr: no image data")

	// ErrEmptyResult is returned when a provider produced no usable text
	ErrEmptyResult = errors.New("ocr: empty result")
)

// Result is the raw output of one OCR request
type Result struct {
	ImageWidth  int     `json:"image_width"`  // Source image width in pixels
	ImageHeight int     `json:"image_height"` // Source image height in pixels
	Blocks      []Block `json:"blocks"`       // Text blocks in provider order
}

// Block is a group of lines the provider detected together
type Block struct {
	Lines []Line `json:"lines"`
}

// Line is a detected text line
type Line struct {
	Text    string         `json:"text"`              // Full line text
	Corners *geometry.Quad `json:"corners,omitempty"` // Top-left, top-right, bottom-right, bottom-left
	Words   []Word         `json:"words"`             // Words in provider order
}

// Word is a detected word
type Word struct {
	Text    string         `json:"text"`
	Corners *geometry.Quad `json:"corners,omitempty"`
}

// Provider runs OCR on an encoded image
type Provider interface {
	Recognize(ctx context.Context, image []byte) (*Result, error)
	Name() string
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, image []byte) (*Result, error)

// Recognize calls f(ctx, image)
func (f ProviderFunc) Recognize(ctx context.Context, image []byte) (*Result, error) {
	return f(ctx, image)
}

// Name implements Provider
func (f ProviderFunc) Name() string { return "func" }

// QuadFromRect returns the corners of an axis-aligned rectangle
func QuadFromRect(x1, y1, x2, y2 float64) *geometry.Quad {
	return &geometry.Quad{
		geometry.Pt(x1, y1),
		geometry.Pt(x2, y1),
		geometry.Pt(x2, y2),
		geometry.Pt(x1, y2),
	}
}

// WordCount returns the number of words across all blocks and lines
func (r *Result) WordCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, b := range r.Blocks {
		for _, l := range b.Lines {
			n += len(l.Words)
		}
	}
	return n
}

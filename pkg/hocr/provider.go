package hocr

import (
	"context"
	"fmt"

	"github.com/gardar/ocrsurface/pkg/ocr"
)

// Provider serves recognition results from existing hOCR output, such as
// that written by Tesseract or OCRmyPDF. The "image" passed to Recognize is
// the hOCR document itself.
type Provider struct {
	Page int // Zero-based page to read
}

// Recognize parses image as hOCR and converts the selected page
func (p Provider) Recognize(ctx context.Context, image []byte) (*ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, ocr.ErrNoImage
	}

	doc, err := ParseHOCR(image)
	if err != nil {
		return nil, err
	}
	if p.Page < 0 || p.Page >= len(doc.Pages) {
		return nil, fmt.Errorf("page %d out of range, document has %d pages", p.Page, len(doc.Pages))
	}

	result := ToResult(doc.Pages[p.Page])
	if result.WordCount() == 0 {
		return nil, ocr.ErrEmptyResult
	}
	return result, nil
}

// Name implements ocr.Provider
func (Provider) Name() string { return "hocr" }

//go:build !ocr

package tesseract

import (
	"context"

	"github.com/gardar/ocrsurface/pkg/ocr"
)

// Recognize returns ErrOCRNotEnabled; rebuild with -tags ocr
func (p Provider) Recognize(ctx context.Context, img []byte) (*ocr.Result, error) {
	return nil, ErrOCRNotEnabled
}

//go:build !ocr

package tesseract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecognizeNotEnabled(t *testing.T) {
	result, err := Provider{}.Recognize(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.Nil(t, result)
}

//go:build ocr

package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/ocrsurface/pkg/ocr"
)

// Recognize runs Tesseract on image and returns its text lines and words
func (p Provider) Recognize(ctx context.Context, img []byte) (*ocr.Result, error) {
	if len(img) == 0 {
		return nil, ocr.ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var width, height int
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(img)); err == nil {
		width, height = cfg.Width, cfg.Height
	}

	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(p.Languages) > 0 {
		if err := c.SetLanguage(p.Languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	for k, v := range p.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return nil, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	lines, err := boxes(c, gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize lines: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words, err := boxes(c, gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}

	result := group(width, height, lines, words)
	if result.WordCount() == 0 {
		return nil, ocr.ErrEmptyResult
	}
	return result, nil
}

func boxes(c *gosseract.Client, level gosseract.PageIteratorLevel) ([]box, error) {
	found, err := c.GetBoundingBoxes(level)
	if err != nil {
		return nil, err
	}
	out := make([]box, 0, len(found))
	for _, b := range found {
		out = append(out, box{Text: b.Word, Rect: b.Box})
	}
	return out, nil
}

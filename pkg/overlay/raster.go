package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/selection"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// circleSegments is the number of edges used to approximate handle circles
const circleSegments = 48

// RenderImage rasterizes the overlay into a transparent image of the
// layout's image size, ready to be composited over the source image
func RenderImage(layout *textlayout.Layout, view selection.View, cfg Config) (*image.RGBA, error) {
	if layout == nil || layout.ImageWidth <= 0 || layout.ImageHeight <= 0 {
		return nil, ErrNoSize
	}
	w, h := layout.ImageWidth, layout.ImageHeight
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	r := vector.NewRasterizer(w, h)

	if cfg.DimAlpha > 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(withAlpha(cfg.DimColor, cfg.DimAlpha)), image.Point{}, draw.Src)

		// Clear the dim inside every line
		mask := image.NewAlpha(dst.Bounds())
		for _, box := range layout.Boxes() {
			addPolygon(r, box.Corners())
		}
		r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
		draw.DrawMask(dst, dst.Bounds(), image.Transparent, image.Point{}, mask, image.Point{}, draw.Src)
	}

	if len(view.Highlights) > 0 && cfg.HighlightAlpha > 0 {
		r.Reset(w, h)
		for _, box := range view.Highlights {
			addPolygon(r, box.Corners())
		}
		r.Draw(dst, dst.Bounds(), image.NewUniform(withAlpha(cfg.HighlightColor, cfg.HighlightAlpha)), image.Point{})
	}

	// Shapes are filled one by one since opposite windings would cancel out
	cursor := image.NewUniform(withAlpha(cfg.CursorColor, 1))
	for _, hd := range handles(view) {
		for _, shape := range [][]geometry.Point{hd.Triangle[:], circlePoints(hd.Center, hd.Radius, circleSegments)} {
			r.Reset(w, h)
			addPolygon(r, shape)
			r.Draw(dst, dst.Bounds(), cursor, image.Point{})
		}
	}

	return dst, nil
}

// RenderPNG is RenderImage encoded as PNG
func RenderPNG(layout *textlayout.Layout, view selection.View, cfg Config) ([]byte, error) {
	img, err := RenderImage(layout, view, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// addPolygon adds a closed path through points
func addPolygon(r *vector.Rasterizer, points []geometry.Point) {
	if len(points) < 3 {
		return
	}
	r.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
}

// withAlpha returns c with the given opacity
func withAlpha(c Color, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

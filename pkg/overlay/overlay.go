// Package overlay renders a text layout and selection view for offline
// inspection, as a PDF or as a transparent PNG layer.
//
// The rendering follows what an interactive surface shows: everything
// outside the detected text lines is dimmed, selected line segments are
// highlighted and the two selection handles are drawn as a triangle joined
// to a circle. PDF output also carries an invisible text layer so the OCR
// text stays searchable and selectable in a PDF reader.
//
// Layout coordinates are taken as image pixels, one pixel per PDF point.
//
// Main Functions:
//
// - RenderPDF: Builds a one-page PDF from an image with the overlay
// - ApplyToPDF: Draws the overlay onto page 1 of an existing PDF
// - RenderImage, RenderPNG: Rasterize the overlay without the image
// - Layers: Lists the layer names of an existing PDF
package overlay

import (
	"errors"
)

// ErrNoSize is returned when the output size cannot be determined
var ErrNoSize = errors.New("overlay: layout has no image size")

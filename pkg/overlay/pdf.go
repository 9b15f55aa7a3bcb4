package overlay

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/selection"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// RenderPDF builds a one-page PDF sized to img with the overlay drawn on top
func RenderPDF(img []byte, layout *textlayout.Layout, view selection.View, cfg Config) ([]byte, error) {
	if layout == nil {
		return nil, fmt.Errorf("no layout provided")
	}
	imageCfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config: %w", err)
	}
	w, h := float64(imageCfg.Width), float64(imageCfg.Height)

	pdf := fpdf.New("P", "pt", "", "")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: strings.ToUpper(format)}
	pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(img))
	background := func() {
		pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")
	}

	background()
	drawOverlay(pdf, background, w, h, layout, view, cfg)
	return output(pdf)
}

// ApplyToPDF imports page 1 of an existing PDF, scaled to the layout's image
// size, and draws the overlay on top. A source that already has the text
// layer is rejected with ErrLayerExists unless cfg.Force is set.
func ApplyToPDF(src []byte, layout *textlayout.Layout, view selection.View, cfg Config) ([]byte, error) {
	if layout == nil {
		return nil, fmt.Errorf("no layout provided")
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}
	if layout.ImageWidth <= 0 || layout.ImageHeight <= 0 {
		return nil, ErrNoSize
	}
	if err := checkLayers(src, cfg.LayerName, cfg); err != nil {
		return nil, err
	}
	w, h := float64(layout.ImageWidth), float64(layout.ImageHeight)

	pdf := fpdf.New("P", "pt", "", "")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(src))
	tpl := importer.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	background := func() {
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, h)
	}

	background()
	drawOverlay(pdf, background, w, h, layout, view, cfg)
	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawOverlay dims the page, punches the text lines back out by redrawing
// the background clipped to each line, then draws highlights, handles and
// the text layer
func drawOverlay(pdf *fpdf.Fpdf, background func(), w, h float64, layout *textlayout.Layout, view selection.View, cfg Config) {
	if cfg.DimAlpha > 0 {
		pdf.SetAlpha(cfg.DimAlpha, "Normal")
		setFill(pdf, cfg.DimColor)
		pdf.Rect(0, 0, w, h, "F")
		pdf.SetAlpha(1, "Normal")

		for _, box := range layout.Boxes() {
			pdf.ClipPolygon(pdfPoints(box.Corners()), false)
			background()
			pdf.ClipEnd()
		}
	}

	if len(view.Highlights) > 0 && cfg.HighlightAlpha > 0 {
		pdf.SetAlpha(cfg.HighlightAlpha, "Multiply")
		setFill(pdf, cfg.HighlightColor)
		for _, box := range view.Highlights {
			pdf.Polygon(pdfPoints(box.Corners()), "F")
		}
		pdf.SetAlpha(1, "Normal")
	}

	setFill(pdf, cfg.CursorColor)
	for _, hd := range handles(view) {
		pdf.Polygon(pdfPoints(hd.Triangle[:]), "F")
		pdf.Circle(hd.Center.X, hd.Center.Y, hd.Radius, "F")
	}

	drawTextLayer(pdf, layout, cfg)
}

// drawTextLayer writes every element's text into its own PDF layer, rotated
// onto the element's baseline and stretched to its width
func drawTextLayer(pdf *fpdf.Fpdf, layout *textlayout.Layout, cfg Config) {
	layer := pdf.AddLayer(cfg.LayerName, true)
	pdf.BeginLayer(layer)
	pdf.SetFont(cfg.Font.Name, cfg.Font.Style, cfg.Font.Size)

	if cfg.Debug {
		pdf.SetTextColor(255, 0, 0) // highlight text in red
		pdf.SetDrawColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal") // hide text from normal view
	}

	encodingErrors, elementCount := 0, 0
	for _, line := range layout.Lines {
		for _, e := range line.Elements {
			elementCount++
			if !drawElement(pdf, e, cfg) {
				encodingErrors++
			}
		}
	}

	pdf.SetAlpha(1, "Normal")
	pdf.EndLayer()

	if encodingErrors > 0 {
		cfg.logger().WithFields(logrus.Fields{
			"layout":   layout.ID,
			"errors":   encodingErrors,
			"elements": elementCount,
		}).Warn("Text layer has characters outside ISO-8859-1")
	}
}

// drawElement renders one element and reports whether its text encoded cleanly
func drawElement(pdf *fpdf.Fpdf, e textlayout.Element, cfg Config) bool {
	// Convert text to ISO-8859-1 to avoid PDF encoding issues
	latin1, err := charmap.ISO8859_1.NewEncoder().String(e.Text)
	if err != nil {
		latin1 = e.Text // fallback to raw text
	}

	origin := e.Box.D
	width := e.Box.C.Sub(e.Box.D).Norm()

	pdf.SetFontSize(cfg.Font.Size)
	if strWidth := pdf.GetStringWidth(latin1); strWidth > 0 && width > 0 {
		pdf.SetFontSize(cfg.Font.Size * width / strWidth)
	}

	pdf.TransformBegin()
	pdf.TransformRotate(-e.Box.Angle*180/math.Pi, origin.X, origin.Y)
	pdf.Text(origin.X, origin.Y, latin1)
	if cfg.Debug {
		pdf.Rect(origin.X, origin.Y-e.Box.Height, width, e.Box.Height, "D")
	}
	pdf.TransformEnd()
	pdf.SetFontSize(cfg.Font.Size)

	return err == nil
}

func setFill(pdf *fpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func pdfPoints(points []geometry.Point) []fpdf.PointType {
	out := make([]fpdf.PointType, len(points))
	for i, p := range points {
		out[i] = fpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}

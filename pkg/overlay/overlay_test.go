package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
	"github.com/gardar/ocrsurface/pkg/selection"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

func twoLineLayout(words ...string) *textlayout.Layout {
	if len(words) == 0 {
		words = []string{"Hello", "World", "Foo", "Bar"}
	}
	return textlayout.Build(&ocr.Result{
		ImageWidth:  400,
		ImageHeight: 100,
		Blocks: []ocr.Block{{Lines: []ocr.Line{
			{Corners: ocr.QuadFromRect(0, 0, 200, 20), Words: []ocr.Word{
				{Text: words[0], Corners: ocr.QuadFromRect(0, 0, 90, 20)},
				{Text: words[1], Corners: ocr.QuadFromRect(110, 0, 200, 20)},
			}},
			{Corners: ocr.QuadFromRect(0, 40, 200, 60), Words: []ocr.Word{
				{Text: words[2], Corners: ocr.QuadFromRect(0, 40, 90, 60)},
				{Text: words[3], Corners: ocr.QuadFromRect(110, 40, 200, 60)},
			}},
		}}},
	})
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func selectedView(layout *textlayout.Layout) selection.View {
	end := selection.EndCursor(layout.Lines[0].Elements[1].Box.C, 0, selection.DefaultCursorSize, nil)
	start := selection.StartCursor(layout.Lines[0].Elements[1].Box.D, 0, selection.DefaultCursorSize, nil)
	return selection.View{
		Mode:        selection.Selected,
		StartCursor: &start,
		EndCursor:   &end,
		Highlights:  []geometry.BoundingBox{layout.Lines[0].Elements[1].Box},
	}
}

func TestHandleShapes(t *testing.T) {
	start := startHandle(selection.StartCursor(geometry.Pt(100, 50), 0, 24, nil))
	assert.Equal(t, geometry.Pt(100, 50), start.Triangle[0])
	assert.InDelta(t, 88, start.Triangle[1].X, 1e-9)
	assert.InDelta(t, 62, start.Triangle[2].Y, 1e-9)
	assert.InDelta(t, 88, start.Center.X, 1e-9)
	assert.InDelta(t, 62, start.Center.Y, 1e-9)
	assert.InDelta(t, 12, start.Radius, 1e-9)

	end := endHandle(selection.EndCursor(geometry.Pt(100, 50), 0, 24, nil))
	assert.Equal(t, geometry.Pt(100, 50), end.Triangle[0])
	assert.InDelta(t, 112, end.Center.X, 1e-9)
	assert.InDelta(t, 62, end.Center.Y, 1e-9)
	assert.InDelta(t, 12, end.Radius, 1e-9)

	assert.Empty(t, handles(selection.View{}))
	assert.Len(t, circlePoints(geometry.Pt(0, 0), 1, 8), 8)
}

func TestRenderImage(t *testing.T) {
	layout := twoLineLayout()
	cfg := DefaultConfig()

	img, err := RenderImage(layout, selection.View{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 100), img.Bounds())
	assert.Equal(t, uint8(128), img.RGBAAt(300, 90).A, "dimmed outside lines")
	assert.Equal(t, uint8(0), img.RGBAAt(100, 10).A, "punched out inside lines")

	img, err = RenderImage(layout, selectedView(layout), cfg)
	require.NoError(t, err)
	highlighted := img.RGBAAt(150, 10)
	assert.NotZero(t, highlighted.A)
	assert.Greater(t, highlighted.B, highlighted.R)
	assert.Equal(t, uint8(0), img.RGBAAt(50, 10).A, "unselected word stays clear")
	assert.Equal(t, uint8(255), img.RGBAAt(212, 32).A, "end handle circle")
	assert.Equal(t, uint8(255), img.RGBAAt(98, 32).A, "start handle circle")
}

func TestRenderImageNoDim(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DimAlpha = 0
	img, err := RenderImage(twoLineLayout(), selection.View{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), img.RGBAAt(300, 90).A)
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(twoLineLayout(), selection.View{}, DefaultConfig())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())

	_, err = RenderPNG(nil, selection.View{}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSize)
	_, err = RenderPNG(&textlayout.Layout{}, selection.View{}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSize)
}

func TestRenderPDF(t *testing.T) {
	layout := twoLineLayout()
	out, err := RenderPDF(pngImage(t, 400, 100), layout, selectedView(layout), DefaultConfig())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/OCG")

	cfg := DefaultConfig()
	cfg.Debug = true
	out, err = RenderPDF(pngImage(t, 400, 100), layout, selection.View{}, cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = RenderPDF([]byte("not an image"), layout, selection.View{}, DefaultConfig())
	assert.ErrorContains(t, err, "decode image")
	_, err = RenderPDF(pngImage(t, 4, 4), nil, selection.View{}, DefaultConfig())
	assert.Error(t, err)
}

func TestRenderPDFEncodingWarning(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cfg := DefaultConfig()
	cfg.Logger = logger

	_, err := RenderPDF(pngImage(t, 400, 100), twoLineLayout("日本", "語", "Foo", "Bar"), selection.View{}, cfg)
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["errors"])
	assert.Equal(t, 4, hook.LastEntry().Data["elements"])
}

func TestApplyToPDF(t *testing.T) {
	src := fpdf.New("P", "pt", "", "")
	src.AddPageFormat("P", fpdf.SizeType{Wd: 400, Ht: 100})
	src.SetFont("Helvetica", "", 12)
	src.Text(10, 20, "scanned page")
	var buf bytes.Buffer
	require.NoError(t, src.Output(&buf))

	layout := twoLineLayout()
	out, err := ApplyToPDF(buf.Bytes(), layout, selectedView(layout), DefaultConfig())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = ApplyToPDF(nil, layout, selection.View{}, DefaultConfig())
	assert.Error(t, err)
	_, err = ApplyToPDF(buf.Bytes(), &textlayout.Layout{}, selection.View{}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoSize)
}

func TestLayers(t *testing.T) {
	raw := []byte("1 0 obj\n<</Type /OCG /Name (OCR Text)>>\nendobj\n" +
		"2 0 obj\n<</Type /OCG /Name (\xfe\xff\x00S\x00c\x00a\x00n)>>\nendobj\n" +
		"3 0 obj\n<</Type /OCG /Name (Notes \\(draft\\))>>\nendobj\n" +
		"4 0 obj\n<</Type /OCG /Name (OCR Text)>>\nendobj\n")
	layers, err := Layers(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"OCR Text", "Scan", "Notes (draft)"}, layers)

	_, err = Layers(nil)
	assert.Error(t, err)
}

func TestApplyToPDFExistingLayer(t *testing.T) {
	layout := twoLineLayout()
	src, err := RenderPDF(pngImage(t, 400, 100), layout, selection.View{}, DefaultConfig())
	require.NoError(t, err)

	layers, err := Layers(src)
	require.NoError(t, err)
	assert.Contains(t, layers, "OCR Text")

	_, err = ApplyToPDF(src, layout, selection.View{}, DefaultConfig())
	assert.ErrorIs(t, err, ErrLayerExists)

	logger, hook := test.NewNullLogger()
	cfg := DefaultConfig()
	cfg.Force = true
	cfg.Logger = logger
	out, err := ApplyToPDF(src, layout, selectedView(layout), cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "OCR Text", hook.LastEntry().Data["layer"])
}

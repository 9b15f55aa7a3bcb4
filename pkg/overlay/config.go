package overlay

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Color is an RGB color
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Config holds user options for rendering a selection overlay
type Config struct {
	Debug          bool               `yaml:"debug"`           // Draw the text layer visibly with element boxes
	Force          bool               `yaml:"force"`           // Apply to PDFs that already have the text layer
	LayerName      string             `yaml:"layer_name"`      // Name of the PDF layer holding the text
	DimColor       Color              `yaml:"dim_color"`       // Color laid over everything outside the text lines
	DimAlpha       float64            `yaml:"dim_alpha"`       // Opacity of the dim layer, 0 disables it
	HighlightColor Color              `yaml:"highlight_color"` // Fill of selected line segments
	HighlightAlpha float64            `yaml:"highlight_alpha"` // Opacity of highlights
	CursorColor    Color              `yaml:"cursor_color"`    // Fill of the selection handles
	Font           FontConfig         `yaml:"font"`            // Font of the text layer
	Logger         logrus.FieldLogger `yaml:"-"`               // Receives encoding warnings (nil = discard)
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName:      "OCR Text",
		DimColor:       Color{0, 0, 0},
		DimAlpha:       0.5,
		HighlightColor: Color{66, 133, 244},
		HighlightAlpha: 0.4,
		CursorColor:    Color{66, 133, 244},
		Font:           DefaultFont,
	}
}

// FontConfig contains font settings for OCR text rendering
type FontConfig struct {
	Name  string  `yaml:"name"`  // Font name (e.g., "Helvetica")
	Style string  `yaml:"style"` // Font style ("", "B", "I", "BI")
	Size  float64 `yaml:"size"`  // Reference font size, rescaled per element
}

// DefaultFont sets the default font to Helvetica, one of the PDF core fonts
var DefaultFont = FontConfig{
	Name:  "Helvetica",
	Style: "",
	Size:  10,
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Package config loads the YAML configuration shared by the command line
// tools, with optional .env files and environment overrides.
//
// Environment overrides:
//
// - GOOGLE_APPLICATION_CREDENTIALS: gdocai.credentials_file
// - OCRSURFACE_PROVIDER: ocr.provider
// - OCRSURFACE_LOG_LEVEL: log.level
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrsurface/pkg/gdocai"
	"github.com/gardar/ocrsurface/pkg/overlay"
	"github.com/gardar/ocrsurface/pkg/selection"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid config")

// Provider names
const (
	ProviderHOCR      = "hocr"
	ProviderGDocAI    = "gdocai"
	ProviderTesseract = "tesseract"
)

// Config is the complete tool configuration
type Config struct {
	OCR       OCRConfig       `yaml:"ocr"`
	GDocAI    gdocai.Config   `yaml:"gdocai"`
	Selection SelectionConfig `yaml:"selection"`
	Overlay   overlay.Config  `yaml:"overlay"`
	Log       LogConfig       `yaml:"log"`
}

// OCRConfig selects the OCR provider
type OCRConfig struct {
	Provider  string   `yaml:"provider"`  // hocr, gdocai or tesseract
	Languages []string `yaml:"languages"` // Tesseract language codes
	Page      int      `yaml:"page"`      // Zero-based page of multi-page results
}

// SelectionConfig mirrors selection.Options
type SelectionConfig struct {
	CursorSize            float64       `yaml:"cursor_size"`
	MoveThrottle          time.Duration `yaml:"move_throttle"`
	SelectAllOnFirstPress bool          `yaml:"select_all_on_first_press"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		OCR: OCRConfig{Provider: ProviderHOCR, Languages: []string{"eng"}},
		Selection: SelectionConfig{
			CursorSize:            selection.DefaultCursorSize,
			MoveThrottle:          selection.DefaultMoveThrottle,
			SelectAllOnFirstPress: true,
		},
		Overlay: overlay.DefaultConfig(),
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadEnv loads .env files into the process environment. Missing files are
// skipped; existing variables are not overwritten.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path uses the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.GDocAI.CredentialsFile = v
	}
	if v := os.Getenv("OCRSURFACE_PROVIDER"); v != "" {
		c.OCR.Provider = v
	}
	if v := os.Getenv("OCRSURFACE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate reports every invalid setting, each wrapping ErrInvalid
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	switch c.OCR.Provider {
	case ProviderHOCR, ProviderTesseract:
	case ProviderGDocAI:
		if c.GDocAI.ProjectID == "" || c.GDocAI.Location == "" || c.GDocAI.ProcessorID == "" {
			invalid("gdocai needs project_id, location and processor_id")
		}
	default:
		invalid("unknown ocr.provider %q", c.OCR.Provider)
	}
	if c.OCR.Page < 0 {
		invalid("ocr.page must not be negative, got %d", c.OCR.Page)
	}

	if c.Selection.CursorSize <= 0 {
		invalid("selection.cursor_size must be positive, got %g", c.Selection.CursorSize)
	}
	if c.Selection.MoveThrottle < 0 {
		invalid("selection.move_throttle must not be negative, got %s", c.Selection.MoveThrottle)
	}

	for name, alpha := range map[string]float64{
		"dim_alpha":       c.Overlay.DimAlpha,
		"highlight_alpha": c.Overlay.HighlightAlpha,
	} {
		if alpha < 0 || alpha > 1 {
			invalid("overlay.%s must be within [0, 1], got %g", name, alpha)
		}
	}
	if c.Overlay.Font.Size <= 0 {
		invalid("overlay.font.size must be positive, got %g", c.Overlay.Font.Size)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		invalid("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		invalid("log.format must be text or json, got %q", c.Log.Format)
	}

	return errors.Join(errs...)
}

// SelectionOptions converts the selection settings to engine options
func (c *Config) SelectionOptions() selection.Options {
	return selection.Options{
		CursorSize:            c.Selection.CursorSize,
		MoveThrottle:          c.Selection.MoveThrottle,
		SelectAllOnFirstPress: c.Selection.SelectAllOnFirstPress,
	}
}

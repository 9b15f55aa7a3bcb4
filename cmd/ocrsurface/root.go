package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrsurface/internal/logging"
	"github.com/gardar/ocrsurface/pkg/config"
	"github.com/gardar/ocrsurface/pkg/gdocai"
	"github.com/gardar/ocrsurface/pkg/hocr"
	"github.com/gardar/ocrsurface/pkg/ocr"
	"github.com/gardar/ocrsurface/pkg/surface"
	"github.com/gardar/ocrsurface/pkg/tesseract"
)

// app is the state shared by all commands once the root has run
type app struct {
	configPath string
	envFile    string
	provider   string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ocrsurface",
		Short:         "Selectable text layouts from OCR output",
		Long:          "Build selectable text layouts from OCR output, replay drag selections over them and render the result.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Environment file to load if present")
	root.PersistentFlags().StringVar(&a.provider, "provider", "", "OCR provider: hocr, gdocai or tesseract")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override")

	root.AddCommand(newLayoutCmd(a), newSelectCmd(a))
	return root
}

// setup loads the configuration and sets up logging
func (a *app) setup(stderr io.Writer) error {
	if err := config.LoadEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err == nil && (a.provider != "" || a.logLevel != "") {
		if a.provider != "" {
			cfg.OCR.Provider = a.provider
		}
		if a.logLevel != "" {
			cfg.Log.Level = a.logLevel
		}
		err = cfg.Validate()
	}
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	cfg.Overlay.Logger = log
	a.cfg, a.log = cfg, log
	return nil
}

// newProvider creates the configured OCR provider. rawOut receives the raw
// Document AI response when set.
func (a *app) newProvider(rawOut io.Writer) ocr.Provider {
	switch a.cfg.OCR.Provider {
	case config.ProviderGDocAI:
		return &gdocai.Provider{Config: &a.cfg.GDocAI, Page: a.cfg.OCR.Page, RawOut: rawOut}
	case config.ProviderTesseract:
		return tesseract.Provider{Languages: a.cfg.OCR.Languages}
	default:
		return hocr.Provider{Page: a.cfg.OCR.Page}
	}
}

func (a *app) newSurface() *surface.Surface {
	return surface.New(surface.Options{
		Selection: a.cfg.SelectionOptions(),
		Logger:    a.log,
	})
}

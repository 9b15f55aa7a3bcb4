package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrsurface/pkg/overlay"
	"github.com/gardar/ocrsurface/pkg/surface"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		scriptPath string
		pdfPath    string
		pngPath    string
		imagePath  string
		sourcePDF  string
	)
	cmd := &cobra.Command{
		Use:   "select <input>",
		Short: "Replay a gesture script and print the selected text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pdfPath != "" && imagePath == "" && sourcePDF == "" {
				return errors.New("--pdf needs --image or --source-pdf")
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			script, err := surface.LoadScript(scriptPath)
			if err != nil {
				return err
			}

			s := a.newSurface()
			defer s.Close()
			layout, err := s.Process(cmd.Context(), a.newProvider(nil), input, surface.Identity())
			if err != nil {
				return err
			}

			for i, change := range s.Replay(script) {
				a.log.WithFields(logrus.Fields{
					"change":    i,
					"committed": change.Committed,
					"chars":     len(change.Text),
				}).Debug("Selection changed")
			}

			text, ok := s.SelectedText()
			if !ok {
				a.log.Warn("Script left no selection")
			} else if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
				return err
			}

			view := s.Snapshot()
			if pngPath != "" {
				data, err := overlay.RenderPNG(layout, view, a.cfg.Overlay)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write PNG: %w", err)
				}
				a.log.WithField("path", pngPath).Info("Overlay image written")
			}
			if pdfPath != "" {
				var data []byte
				if sourcePDF != "" {
					src, err := os.ReadFile(sourcePDF)
					if err != nil {
						return fmt.Errorf("failed to read source PDF: %w", err)
					}
					data, err = overlay.ApplyToPDF(src, layout, view, a.cfg.Overlay)
					if err != nil {
						return err
					}
				} else {
					img, err := os.ReadFile(imagePath)
					if err != nil {
						return fmt.Errorf("failed to read image: %w", err)
					}
					data, err = overlay.RenderPDF(img, layout, view, a.cfg.Overlay)
					if err != nil {
						return err
					}
				}
				if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to write PDF: %w", err)
				}
				a.log.WithField("path", pdfPath).Info("Overlay PDF written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML gesture script to replay")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Render the selection over the page as a PDF")
	cmd.Flags().StringVar(&pngPath, "png", "", "Render the selection overlay as a transparent PNG")
	cmd.Flags().StringVar(&imagePath, "image", "", "Page image for --pdf")
	cmd.Flags().StringVar(&sourcePDF, "source-pdf", "", "Single-page PDF to draw the selection on, instead of --image")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

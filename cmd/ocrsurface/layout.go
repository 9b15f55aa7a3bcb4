package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardar/ocrsurface/pkg/hocr"
	"github.com/gardar/ocrsurface/pkg/surface"
)

func newLayoutCmd(a *app) *cobra.Command {
	var (
		jsonPath  string
		hocrPath  string
		rawPath   string
		viewWidth float64
	)
	cmd := &cobra.Command{
		Use:   "layout <input>",
		Short: "Run OCR and write the text layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			var rawOut io.Writer
			if rawPath != "" {
				f, err := os.Create(rawPath)
				if err != nil {
					return fmt.Errorf("failed to create raw output: %w", err)
				}
				defer f.Close()
				rawOut = f
			}

			scale := surface.Identity()
			layout, err := a.newSurface().Process(cmd.Context(), a.newProvider(rawOut), input, scale)
			if err != nil {
				return err
			}
			if viewWidth > 0 {
				scale = surface.FitWidth(layout.ImageWidth, viewWidth)
				layout = layout.Scale(scale.XRatio, scale.YRatio, scale.Offset)
			}

			if hocrPath != "" {
				doc, err := hocr.GenerateHOCRDocument(hocr.FromLayout(layout))
				if err != nil {
					return err
				}
				if err := os.WriteFile(hocrPath, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("failed to write hOCR: %w", err)
				}
				a.log.WithField("path", hocrPath).Info("hOCR written")
			}

			data, err := json.MarshalIndent(layout, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode layout: %w", err)
			}
			if jsonPath == "" || jsonPath == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write layout: %w", err)
			}
			a.log.WithField("path", jsonPath).Info("Layout written")
			return nil
		},
	}
	cmd.Flags().StringVar(&jsonPath, "json", "-", "Layout JSON output path, - for stdout")
	cmd.Flags().StringVar(&hocrPath, "hocr", "", "Also export the layout as hOCR")
	cmd.Flags().StringVar(&rawPath, "raw", "", "Write the raw Document AI response as JSON (gdocai only)")
	cmd.Flags().Float64Var(&viewWidth, "view-width", 0, "Scale the layout to this width, keeping the aspect ratio")
	return cmd
}

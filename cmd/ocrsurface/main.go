// ocrsurface is a command-line tool for building selectable text layouts from
// OCR output and replaying drag selections over them.
//
// Usage:
//
//	ocrsurface [--config file] [--env-file file] <command> [flags]
//
// Commands:
//
//	layout <input>   Run OCR and write the text layout as JSON or hOCR
//	select <input>   Replay a gesture script and print the selected text
//
// The input is an image for the gdocai and tesseract providers, or an hOCR
// file for the hocr provider.
//
// Examples:
//
// Build a layout from Tesseract hOCR output:
//
//	ocrsurface layout page.hocr --json layout.json
//
// Replay a selection and render it over the scanned page:
//
//	ocrsurface select page.hocr --script drag.yml --image page.png --pdf selection.pdf
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

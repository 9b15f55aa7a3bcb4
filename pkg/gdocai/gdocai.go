// Package gdocai provides an OCR provider backed by Google Document AI.
//
// The package sends an image (or single-page PDF) to a Document AI OCR
// processor and converts the response into the raw ocr.Result consumed by
// the text layout builder. Lines and tokens keep their four-vertex bounding
// polygons, so skewed and rotated text keeps its shape.
//
// Key Features:
//
// - Process images with Google Document AI (PNG, JPEG, TIFF, GIF, BMP, WebP, PDF)
// - Map page lines and tokens into blocks by text anchor containment
// - Accept both absolute and normalized bounding polygons
// - Dump the raw response as JSON for debugging
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - ResultFromProto: Converts a Document AI response page to an ocr.Result
// - Provider: ocr.Provider implementation wrapping both
// - ToJSON: Pretty prints protocol buffer messages and plain structs
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via Config.CredentialsFile or the GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import (
	"context"
	"fmt"
	"io"

	"github.com/gardar/ocrsurface/pkg/ocr"
)

// Config identifies a Document AI processor
type Config struct {
	ProjectID       string `yaml:"project_id"`       // Google Cloud project
	Location        string `yaml:"location"`         // Processor region, e.g. "us" or "eu"
	ProcessorID     string `yaml:"processor_id"`     // OCR processor id
	CredentialsFile string `yaml:"credentials_file"` // Empty means GOOGLE_APPLICATION_CREDENTIALS
}

// Endpoint returns the regional API endpoint
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// ProcessorName returns the resource name of the processor
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// Provider runs OCR through Document AI
type Provider struct {
	Config *Config
	Page   int       // Zero-based page of the response to convert
	RawOut io.Writer // Receives the raw response as JSON when set
}

// Recognize sends image to Document AI and converts the selected page
func (p *Provider) Recognize(ctx context.Context, image []byte) (*ocr.Result, error) {
	if len(image) == 0 {
		return nil, ocr.ErrNoImage
	}
	mimeType, err := DetectMIME(image)
	if err != nil {
		return nil, err
	}

	doc, err := ProcessDocument(ctx, image, mimeType, p.Config)
	if err != nil {
		return nil, err
	}

	if p.RawOut != nil {
		raw, err := ToJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode Document AI response: %w", err)
		}
		if _, err := io.WriteString(p.RawOut, raw); err != nil {
			return nil, fmt.Errorf("failed to write Document AI response: %w", err)
		}
	}

	result, err := ResultFromProto(doc, p.Page)
	if err != nil {
		return nil, err
	}
	if result.WordCount() == 0 {
		return nil, ocr.ErrEmptyResult
	}
	return result, nil
}

// Name implements ocr.Provider
func (p *Provider) Name() string { return "gdocai" }

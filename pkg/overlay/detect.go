package overlay

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// ErrLayerExists is returned by ApplyToPDF when the source already carries
// the text layer and Config.Force is not set
var ErrLayerExists = errors.New("overlay: PDF already has a text layer")

// ocgPatterns match optional content group names in uncompressed PDF objects
var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(((?:\\.|[^)])+)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(((?:\\.|[^)])+)\)`),
	regexp.MustCompile(`/Name\s*\(((?:\\.|[^)])+)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// Layers returns the distinct layer names found in raw PDF data
func Layers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	var layers []string
	seen := make(map[string]bool)
	for _, pattern := range ocgPatterns {
		for _, match := range pattern.FindAllSubmatch(pdfData, -1) {
			name := decodePDFString(match[1])
			if !seen[name] {
				seen[name] = true
				layers = append(layers, name)
			}
		}
	}
	return layers, nil
}

// decodePDFString unescapes a literal string and decodes UTF-16BE names
// marked with a byte order mark
func decodePDFString(b []byte) string {
	s := strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`).Replace(string(b))
	if strings.HasPrefix(s, "\xfe\xff") {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if decoded, err := decoder.String(s); err == nil {
			return decoded
		}
	}
	return s
}

// checkLayers fails when src already has a layer named name, or one with a
// page suffix such as "OCR Text (Page 2)"
func checkLayers(src []byte, name string, cfg Config) error {
	layers, err := Layers(src)
	if err != nil {
		return fmt.Errorf("cannot analyze layers: %w", err)
	}
	for _, layer := range layers {
		if layer == name || strings.HasPrefix(layer, name+" (Page") {
			if cfg.Force {
				cfg.logger().WithField("layer", layer).Warn("Adding text layer to a PDF that already has one")
				return nil
			}
			return fmt.Errorf("%w: %q", ErrLayerExists, layer)
		}
		if strings.Contains(strings.ToLower(layer), "ocr") {
			cfg.logger().WithField("layer", layer).Warn("Existing layer might contain OCR text")
		}
	}
	return nil
}

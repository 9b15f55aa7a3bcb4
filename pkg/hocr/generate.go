package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"sort"
	"strconv"
	"strings"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"trim":      strings.TrimSpace,
	"bbox":      bboxTitle,
	"pageTitle": pageTitle,
	"lineTitle": lineTitle,
	"wordTitle": wordTitle,
	"metaKeys":  metaKeys,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument creates an hOCR HTML document from a Document
// Uses the embedded template to generate a complete HTML document
func GenerateHOCRDocument(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("error rendering hOCR template: nil document")
	}

	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}

// bboxTitle formats a bbox property with integer pixel coordinates
func bboxTitle(b BoundingBox) string {
	return fmt.Sprintf("bbox %d %d %d %d", pixel(b.X1), pixel(b.Y1), pixel(b.X2), pixel(b.Y2))
}

func pixel(v float64) int {
	return int(math.Round(v))
}

func pageTitle(p Page) string {
	var parts []string
	if p.ImageName != "" {
		parts = append(parts, "image "+strconv.Quote(p.ImageName))
	}
	parts = append(parts, bboxTitle(p.BBox))
	if p.Number > 0 {
		parts = append(parts, fmt.Sprintf("ppageno %d", p.Number))
	}
	return strings.Join(parts, "; ")
}

func lineTitle(l Line) string {
	parts := []string{bboxTitle(l.BBox)}
	if l.Baseline != nil {
		parts = append(parts, "baseline "+formatFloat(l.Baseline.Slope)+" "+formatFloat(l.Baseline.Offset))
	}
	if l.TextAngle != 0 {
		parts = append(parts, "textangle "+formatFloat(l.TextAngle))
	}
	return strings.Join(parts, "; ")
}

func wordTitle(w Word) string {
	title := bboxTitle(w.BBox)
	if w.Confidence > 0 {
		title += "; x_wconf " + formatFloat(w.Confidence)
	}
	return title
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// metaKeys returns the metadata names in a stable order
func metaKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package hocr

import (
	"strings"
)

// Document represents an entire hOCR document
type Document struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-capabilities, ...
	Pages       []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID        string      // Unique identifier
	Number    int         // Physical page number (ppageno)
	ImageName string      // Source image filename
	Lang      string      // Language code for this page
	BBox      BoundingBox // Page coordinates, usually 0 0 width height
	Blocks    []Block     // Content areas in document order
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Width returns the page width in pixels
func (p Page) Width() int { return int(p.BBox.X2 - p.BBox.X1) }

// Height returns the page height in pixels
func (p Page) Height() int { return int(p.BBox.Y2 - p.BBox.Y1) }

// Block represents a content area (column or region). Paragraph structure
// inside an area is flattened into its lines.
// Corresponds to hOCR element with class: 'ocr_carea'
type Block struct {
	ID    string      // Unique identifier
	BBox  BoundingBox // Area coordinates
	Lines []Line      // Text lines in reading order
}

// Class assign 'ocr_carea' to 'Block' struct
func (Block) Class() string { return "ocr_carea" }

// Line represents a line of text
// Corresponds to hOCR elements with class: 'ocr_line', 'ocr_header',
// 'ocr_caption' or 'ocr_textfloat'
type Line struct {
	ID        string      // Unique identifier
	Kind      string      // hOCR class of the element
	Lang      string      // Language code
	BBox      BoundingBox // Line coordinates
	Baseline  *Baseline   // Baseline, if reported
	TextAngle float64     // Counter-clockwise rotation in degrees
	Words     []Word      // Words in this line
}

// Class returns the line's hOCR class, 'ocr_line' by default
func (l Line) Class() string {
	if l.Kind == "" {
		return "ocr_line"
	}
	return l.Kind
}

// Text joins the words of the line with single spaces
func (l Line) Text() string {
	words := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		if w.Text != "" {
			words = append(words, w.Text)
		}
	}
	return strings.Join(words, " ")
}

// Baseline is the hOCR 'baseline' property: the baseline is
// y = Slope*(x - BBox.X1) + BBox.Y2 + Offset
type Baseline struct {
	Slope  float64
	Offset float64
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100)
	Lang       string      // Language code
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// BoundingBox represents a rectangle in the document
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from coordinates
// x1, y1 is the top-left corner, x2, y2 the bottom-right corner.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

// Text extracts all text from the document.
// Lines are separated by newlines and pages by a blank line.
func (d *Document) Text() string {
	pages := make([]string, 0, len(d.Pages))
	for _, page := range d.Pages {
		var lines []string
		for _, block := range page.Blocks {
			for _, line := range block.Lines {
				if text := line.Text(); text != "" {
					lines = append(lines, text)
				}
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n\n")
}

// Package hocr implements parsing and generation of hOCR data, the
// HTML-based format most OCR engines can emit, and converts it to and from
// the raw OCR result and text layout types.
//
// This package provides:
//
// - An object model for the parts of the hOCR hierarchy a text layout needs
// - Functions for parsing hOCR HTML into structured Go types
// - Functions for generating valid hOCR HTML from Go structures
// - Conversion of baseline and textangle properties into line quadrilaterals
//
// The hOCR hierarchy is read as Document → Pages → Blocks → Lines → Words.
// Paragraphs are flattened into their lines and lines outside any content
// area are gathered into one extra block per page.
//
// Key Types:
//
// - Document: Top-level structure representing an entire hOCR document
// - Page: Represents a single page with class 'ocr_page'
// - Block: Represents a content area with class 'ocr_carea'
// - Line: Represents a line of text ('ocr_line', 'ocr_header', 'ocr_caption', 'ocr_textfloat')
// - Word: Represents a single word with class 'ocrx_word'
// - BoundingBox: Represents a rectangle with coordinates for positioning elements
// - Provider: an ocr.Provider reading pre-computed hOCR
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - GenerateHOCRDocument: Generates valid hOCR HTML from the object model
// - ToResult: Converts a page into a raw OCR result
// - FromLayout: Converts a text layout into a document
package hocr

package gdocai

import (
	"fmt"
	"math"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
)

// ResultFromProto converts one page of a Document AI response into an
// ocr.Result. Lines are grouped under the first block whose text anchor
// contains them; lines outside every block form one trailing block. Tokens
// become the words of the line containing them.
func ResultFromProto(doc *documentaipb.Document, pageIndex int) (*ocr.Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("no Document AI document provided")
	}
	if pageIndex < 0 || pageIndex >= len(doc.Pages) {
		return nil, fmt.Errorf("page %d out of range, document has %d pages", pageIndex, len(doc.Pages))
	}

	page := doc.Pages[pageIndex]
	runes := []rune(doc.Text)
	result := &ocr.Result{}
	if dim := page.Dimension; dim != nil {
		result.ImageWidth = int(math.Round(float64(dim.Width)))
		result.ImageHeight = int(math.Round(float64(dim.Height)))
	}

	assigned := make([]bool, len(page.Lines))
	for _, block := range page.Blocks {
		var out ocr.Block
		for i, line := range page.Lines {
			if assigned[i] || !isElementInParent(line.Layout, block.Layout) {
				continue
			}
			assigned[i] = true
			out.Lines = append(out.Lines, convertLine(line, page, runes))
		}
		if len(out.Lines) > 0 {
			result.Blocks = append(result.Blocks, out)
		}
	}

	var orphans ocr.Block
	for i, line := range page.Lines {
		if !assigned[i] {
			orphans.Lines = append(orphans.Lines, convertLine(line, page, runes))
		}
	}
	if len(orphans.Lines) > 0 {
		result.Blocks = append(result.Blocks, orphans)
	}

	return result, nil
}

// convertLine maps a proto line and the tokens inside it
func convertLine(line *documentaipb.Document_Page_Line, page *documentaipb.Document_Page, runes []rune) ocr.Line {
	out := ocr.Line{
		Text:    cleanText(textFromLayout(line.Layout, runes)),
		Corners: quadFromLayout(line.Layout, page.Dimension),
	}
	for _, token := range page.Tokens {
		if !isElementInParent(token.Layout, line.Layout) {
			continue
		}
		text := cleanText(textFromLayout(token.Layout, runes))
		if text == "" {
			continue
		}
		out.Words = append(out.Words, ocr.Word{
			Text:    text,
			Corners: quadFromLayout(token.Layout, page.Dimension),
		})
	}
	return out
}

// quadFromLayout converts a four-vertex bounding polygon into pixel corners.
// Absolute vertices win over normalized ones, which need the page dimension.
// The corner order is rotated so the first corner is the text's top-left.
func quadFromLayout(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) *geometry.Quad {
	poly := layout.GetBoundingPoly()
	if poly == nil {
		return nil
	}

	var q geometry.Quad
	switch {
	case len(poly.Vertices) == 4:
		for i, v := range poly.Vertices {
			q[i] = geometry.Pt(float64(v.GetX()), float64(v.GetY()))
		}
	case len(poly.NormalizedVertices) == 4 && dim.GetWidth() > 0 && dim.GetHeight() > 0:
		w, h := float64(dim.GetWidth()), float64(dim.GetHeight())
		for i, v := range poly.NormalizedVertices {
			q[i] = geometry.Pt(float64(v.GetX())*w, float64(v.GetY())*h)
		}
	default:
		return nil
	}

	shift := orientationShift(layout.GetOrientation())
	var rotated geometry.Quad
	for i := range q {
		rotated[i] = q[(i+shift)%4]
	}
	return &rotated
}

// orientationShift is the number of corners to skip so that the page-ordered
// polygon starts at the text's top-left corner
func orientationShift(o documentaipb.Document_Page_Layout_Orientation) int {
	switch o {
	case documentaipb.Document_Page_Layout_PAGE_RIGHT:
		return 1
	case documentaipb.Document_Page_Layout_PAGE_DOWN:
		return 2
	case documentaipb.Document_Page_Layout_PAGE_LEFT:
		return 3
	default:
		return 0
	}
}

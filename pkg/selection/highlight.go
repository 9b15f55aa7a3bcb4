package selection

import (
	"strings"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// Highlights computes the highlight boxes and selected text for the range
// start..end. It reports false when either endpoint does not resolve in
// layout or end comes before start.
//
// A range on one line yields a single box from the start element's left side
// to the end element's right side. A range over several lines yields one box
// per line: start element to line end, whole lines in between, line start to
// end element. Words are joined by spaces and lines by newlines.
func Highlights(layout *textlayout.Layout, start, end Endpoint) ([]geometry.BoundingBox, string, bool) {
	si, sj, ok := resolve(layout, start)
	if !ok {
		return nil, "", false
	}
	ei, ej, ok := resolve(layout, end)
	if !ok {
		return nil, "", false
	}
	if !ordered(si, sj, ei, ej) {
		return nil, "", false
	}

	if si == ei {
		line := &layout.Lines[si]
		s, e := line.Elements[sj].Box, line.Elements[ej].Box
		box := geometry.NewBoundingBox(s.A, e.B, e.C, s.D)
		return []geometry.BoundingBox{box}, line.ElementsText(sj, ej), true
	}

	var boxes []geometry.BoundingBox
	var text []string
	for i := si; i <= ei; i++ {
		line := &layout.Lines[i]
		if len(line.Elements) == 0 {
			continue
		}
		switch i {
		case si:
			s := line.Elements[sj].Box
			boxes = append(boxes, geometry.NewBoundingBox(s.A, line.Box.B, line.Box.C, s.D))
			text = append(text, line.ElementsText(sj, len(line.Elements)-1))
		case ei:
			e := line.Elements[ej].Box
			boxes = append(boxes, geometry.NewBoundingBox(line.Box.A, e.B, e.C, line.Box.D))
			text = append(text, line.ElementsText(0, ej))
		default:
			boxes = append(boxes, line.Box)
			text = append(text, line.ElementsText(0, len(line.Elements)-1))
		}
	}
	return boxes, strings.Join(text, "\n"), true
}

// resolve maps an endpoint to line and element positions in layout
func resolve(layout *textlayout.Layout, ep Endpoint) (lineIdx, elementIdx int, ok bool) {
	lineIdx = layout.LineIndex(ep.LineID)
	if lineIdx < 0 {
		return 0, 0, false
	}
	elementIdx = layout.Lines[lineIdx].ElementIndex(ep.ElementID)
	if elementIdx < 0 {
		return 0, 0, false
	}
	return lineIdx, elementIdx, true
}

// ordered reports whether (si, sj) <= (ei, ej) lexicographically
func ordered(si, sj, ei, ej int) bool {
	return si < ei || (si == ei && sj <= ej)
}

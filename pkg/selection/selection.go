// Package selection implements two-handle drag selection over a text layout.
//
// The Engine is a state machine driven by three gestures: Press, Move and
// Release (or Cancel). A press on a word selects it; a press on one of the
// two cursor handles starts dragging that handle. While a handle is dragged
// the selection extends word by word, across lines, and the handles swap
// roles when one is dragged past the other.
//
// Every operation that changes the selected text returns a Change event.
// The Engine never reports errors: gestures on an empty layout, or points
// outside every line, leave the selection as it was or clear it.
//
// Engine is not safe for concurrent use. See package surface for a
// synchronized wrapper.
package selection

import (
	"fmt"

	"github.com/gardar/ocrsurface/pkg/geometry"
)

// Mode is the engine's gesture state
type Mode int

const (
	// Idle means nothing is selected
	Idle Mode = iota
	// Selected means a selection exists and no handle is held
	Selected
	// DraggingStart means the start handle is being dragged
	DraggingStart
	// DraggingEnd means the end handle is being dragged
	DraggingEnd
)

// String implements fmt.Stringer
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case DraggingStart:
		return "dragging-start"
	case DraggingEnd:
		return "dragging-end"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Endpoint identifies an element by id within the current layout
type Endpoint struct {
	LineID    int `json:"line_id" yaml:"line_id"`
	ElementID int `json:"element_id" yaml:"element_id"`
}

// State is the complete selection state.
// Start and End are meaningful only when Mode is not Idle; Offset only while
// dragging.
type State struct {
	Mode   Mode
	Start  Endpoint
	End    Endpoint
	Offset geometry.Point // Added to every gesture point while dragging
}

// Cursor is a selection handle
type Cursor struct {
	Box   geometry.BoundingBox `json:"box"`   // Touch region
	Angle float64              `json:"angle"` // Rotation applied around the anchor, in radians
}

// Change reports the selected text after a move, release or cancel
type Change struct {
	Text      string `json:"text"`      // Selected text, empty when Cleared
	Cleared   bool   `json:"cleared"`   // Nothing is selected
	Committed bool   `json:"committed"` // Emitted by Release or Cancel
}

// View is a read-only snapshot for the rendering collaborator
type View struct {
	Mode        Mode                   `json:"mode"`
	Start       *Endpoint              `json:"start,omitempty"`
	End         *Endpoint              `json:"end,omitempty"`
	StartCursor *Cursor                `json:"start_cursor,omitempty"`
	EndCursor   *Cursor                `json:"end_cursor,omitempty"`
	Highlights  []geometry.BoundingBox `json:"highlights"`
	Text        *string                `json:"text,omitempty"`
}

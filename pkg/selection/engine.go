package selection

import (
	"io"
	"time"

	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// DefaultMoveThrottle is the minimum time between two accepted moves
const DefaultMoveThrottle = 100 * time.Millisecond

// Options configures an Engine
type Options struct {
	CursorSize            float64            // Handle size; zero means DefaultCursorSize
	MoveThrottle          time.Duration      // Zero means DefaultMoveThrottle; negative disables throttling
	SelectAllOnFirstPress bool               // First successful press on a layout selects everything
	Clock                 func() time.Time   // Defaults to time.Now
	Logger                logrus.FieldLogger // Defaults to a logger that discards output
}

// DefaultOptions returns the options used by New when none are given
func DefaultOptions() Options {
	return Options{
		CursorSize:            DefaultCursorSize,
		MoveThrottle:          DefaultMoveThrottle,
		SelectAllOnFirstPress: true,
	}
}

// Engine is the selection state machine over one layout at a time
type Engine struct {
	opts   Options
	logger logrus.FieldLogger
	clock  func() time.Time

	layout *textlayout.Layout
	state  State

	startCursor *Cursor
	endCursor   *Cursor
	highlights  []geometry.BoundingBox
	text        *string

	selectAllPending bool
	lastMove         time.Time
	viewport         *r2.Rect
}

// New creates an engine over layout. A nil layout behaves as an empty one.
func New(layout *textlayout.Layout, opts ...Options) *Engine {
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.CursorSize <= 0 {
		o.CursorSize = DefaultCursorSize
	}
	if o.MoveThrottle == 0 {
		o.MoveThrottle = DefaultMoveThrottle
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}

	e := &Engine{
		opts:   o,
		logger: o.Logger,
		clock:  o.Clock,
	}
	e.SetLayout(layout)
	return e
}

// SetLayout replaces the layout and resets the selection to Idle.
// Any drag in progress is aborted.
func (e *Engine) SetLayout(layout *textlayout.Layout) {
	if layout == nil {
		layout = &textlayout.Layout{}
	}
	e.layout = layout
	e.reset()
	e.selectAllPending = e.opts.SelectAllOnFirstPress
	e.lastMove = time.Time{}
	e.logger.WithFields(logrus.Fields{
		"layout": layout.ID,
		"lines":  len(layout.Lines),
	}).Debug("Selection layout replaced")
}

// SetViewport sets the visible area used to keep handles on screen and the
// handle size, then rebuilds the current handles.
func (e *Engine) SetViewport(viewport r2.Rect, cursorSize float64) {
	e.viewport = &viewport
	if cursorSize > 0 {
		e.opts.CursorSize = cursorSize
	}
	if e.state.Mode == Idle {
		return
	}
	if el, ok := e.layout.Element(e.state.Start.LineID, e.state.Start.ElementID); ok {
		c := e.newStartCursor(el)
		e.startCursor = &c
	}
	if el, ok := e.layout.Element(e.state.End.LineID, e.state.End.ElementID); ok {
		c := e.newEndCursor(el)
		e.endCursor = &c
	}
}

// Press handles the start of a gesture at p.
//
// A press on the end handle, then the start handle, starts dragging it.
// Anywhere else the selection is cleared and the element under p, if any, is
// selected. The first such selection on a layout selects the whole document
// instead when SelectAllOnFirstPress is set.
func (e *Engine) Press(p geometry.Point) {
	if e.endCursor != nil && e.endCursor.Box.Contains(p) {
		e.state.Mode = DraggingEnd
		e.state.Offset = e.endCursor.Box.A.Sub(p)
		e.logger.WithField("offset", e.state.Offset).Debug("Dragging end handle")
		return
	}
	if e.startCursor != nil && e.startCursor.Box.Contains(p) {
		e.state.Mode = DraggingStart
		e.state.Offset = e.startCursor.Box.B.Sub(p)
		e.logger.WithField("offset", e.state.Offset).Debug("Dragging start handle")
		return
	}

	e.reset()
	lines := e.layout.Lines
	for i := range lines {
		line := &lines[i]
		if !line.Box.Contains(p) {
			continue
		}
		for j := range line.Elements {
			el := &line.Elements[j]
			if !el.Box.Contains(p) {
				continue
			}
			if e.selectAllPending {
				e.selectAll()
			} else {
				e.state.Start = Endpoint{LineID: line.ID, ElementID: el.ID}
				e.state.End = e.state.Start
			}
			e.state.Mode = Selected
			e.selectAllPending = false
			e.logger.WithFields(logrus.Fields{
				"start": e.state.Start,
				"end":   e.state.End,
			}).Debug("Selected on press")
			return
		}
	}
}

// Move handles a gesture update at p. It reports false when no handle is
// being dragged or the move was throttled.
func (e *Engine) Move(p geometry.Point) (Change, bool) {
	if !e.IsDragging() {
		return Change{}, false
	}
	now := e.clock()
	if e.opts.MoveThrottle > 0 && !e.lastMove.IsZero() && now.Sub(e.lastMove) < e.opts.MoveThrottle {
		return Change{}, false
	}
	e.drag(p.Add(e.state.Offset))
	e.recompute()
	e.lastMove = now
	return e.change(false), true
}

// Release handles the end of a gesture at p: the held handle is moved one
// last time, both handles are rebuilt at the final endpoints and the result
// is committed.
func (e *Engine) Release(p geometry.Point) Change {
	if e.IsDragging() {
		e.drag(p.Add(e.state.Offset))
	}
	e.state.Offset = geometry.Point{}
	if e.state.Mode != Idle {
		e.state.Mode = Selected
		if el, ok := e.layout.Element(e.state.Start.LineID, e.state.Start.ElementID); ok {
			c := e.newStartCursor(el)
			e.startCursor = &c
		}
		if el, ok := e.layout.Element(e.state.End.LineID, e.state.End.ElementID); ok {
			c := e.newEndCursor(el)
			e.endCursor = &c
		}
	}
	e.recompute()
	return e.change(true)
}

// Cancel is Release for an aborted gesture
func (e *Engine) Cancel(p geometry.Point) Change {
	return e.Release(p)
}

// MoveEnd moves the end of the selection to p and recomputes the result.
// It is a no-op when nothing is selected.
func (e *Engine) MoveEnd(p geometry.Point) Change {
	if e.state.Mode != Idle {
		e.moveEnd(p, true)
		e.recompute()
	}
	return e.change(false)
}

// MoveStart moves the start of the selection to p and recomputes the result.
// It is a no-op when nothing is selected.
func (e *Engine) MoveStart(p geometry.Point) Change {
	if e.state.Mode != Idle {
		e.moveStart(p, true)
		e.recompute()
	}
	return e.change(false)
}

// Clear drops the selection without touching the layout
func (e *Engine) Clear() Change {
	e.reset()
	return e.change(true)
}

func (e *Engine) drag(p geometry.Point) {
	switch e.state.Mode {
	case DraggingEnd:
		e.moveEnd(p, true)
	case DraggingStart:
		e.moveStart(p, true)
	}
}

// moveEnd searches forward from the start line for the new end element.
// A point left of the start element on the start line, or above the start
// line, hands the drag over to the start handle.
func (e *Engine) moveEnd(p geometry.Point, allowSwap bool) {
	e.endCursor = nil
	si, sj, ok := resolve(e.layout, e.state.Start)
	if !ok {
		return
	}
	lines := e.layout.Lines
	startBox := lines[si].Elements[sj].Box

	for i := si; i < len(lines); i++ {
		line := &lines[i]
		if len(line.Elements) == 0 || !line.Box.Contains(p) {
			continue
		}
		if i == si && startBox.IsPointLeft(p) {
			if allowSwap {
				e.swapToDraggingStart(p)
			}
			return
		}
		j := lastReached(line, p)
		if j < 0 {
			return
		}
		if i == si && j < sj {
			j = sj
		}
		e.state.End = Endpoint{LineID: line.ID, ElementID: line.Elements[j].ID}
		return
	}

	// p is between or outside lines: extend through every line it has passed
	for i := si; i < len(lines); i++ {
		line := &lines[i]
		if len(line.Elements) == 0 {
			continue
		}
		if line.Box.IsPointAbove(p) {
			if i == si && allowSwap {
				e.swapToDraggingStart(p)
			}
			return
		}
		e.state.End = Endpoint{LineID: line.ID, ElementID: line.Elements[len(line.Elements)-1].ID}
	}
}

// moveStart mirrors moveEnd, searching backward from the end line
func (e *Engine) moveStart(p geometry.Point, allowSwap bool) {
	e.startCursor = nil
	ei, ej, ok := resolve(e.layout, e.state.End)
	if !ok {
		return
	}
	lines := e.layout.Lines
	endBox := lines[ei].Elements[ej].Box

	for i := ei; i >= 0; i-- {
		line := &lines[i]
		if len(line.Elements) == 0 || !line.Box.Contains(p) {
			continue
		}
		if i == ei && endBox.IsPointRight(p) {
			if allowSwap {
				e.swapToDraggingEnd(p)
			}
			return
		}
		j := firstReached(line, p)
		if j < 0 {
			return
		}
		if i == ei && j > ej {
			j = ej
		}
		e.state.Start = Endpoint{LineID: line.ID, ElementID: line.Elements[j].ID}
		return
	}

	for i := ei; i >= 0; i-- {
		line := &lines[i]
		if len(line.Elements) == 0 {
			continue
		}
		if line.Box.IsPointBelow(p) {
			if i == ei && allowSwap {
				e.swapToDraggingEnd(p)
			}
			return
		}
		e.state.Start = Endpoint{LineID: line.ID, ElementID: line.Elements[0].ID}
	}
}

// swapToDraggingStart turns the fixed start into the end and continues the
// drag as a start-handle drag
func (e *Engine) swapToDraggingStart(p geometry.Point) {
	e.state.End = e.state.Start
	if e.state.Mode == DraggingEnd {
		e.state.Mode = DraggingStart
	}
	if el, ok := e.layout.Element(e.state.End.LineID, e.state.End.ElementID); ok {
		c := e.newEndCursor(el)
		e.endCursor = &c
	}
	e.logger.WithField("point", p).Debug("End handle crossed start, swapping")
	e.moveStart(p, false)
}

// swapToDraggingEnd turns the fixed end into the start and continues the drag
// as an end-handle drag
func (e *Engine) swapToDraggingEnd(p geometry.Point) {
	e.state.Start = e.state.End
	if e.state.Mode == DraggingStart {
		e.state.Mode = DraggingEnd
	}
	if el, ok := e.layout.Element(e.state.Start.LineID, e.state.Start.ElementID); ok {
		c := e.newStartCursor(el)
		e.startCursor = &c
	}
	e.logger.WithField("point", p).Debug("Start handle crossed end, swapping")
	e.moveEnd(p, false)
}

// lastReached returns the last element p is right of or inside, or -1
func lastReached(line *textlayout.Line, p geometry.Point) int {
	for j := len(line.Elements) - 1; j >= 0; j-- {
		box := line.Elements[j].Box
		if box.IsPointRight(p) || box.Contains(p) {
			return j
		}
	}
	return -1
}

// firstReached returns the first element p is left of or inside, or -1
func firstReached(line *textlayout.Line, p geometry.Point) int {
	for j := range line.Elements {
		box := line.Elements[j].Box
		if box.IsPointLeft(p) || box.Contains(p) {
			return j
		}
	}
	return -1
}

func (e *Engine) selectAll() {
	lines := e.layout.Lines
	for i := range lines {
		if len(lines[i].Elements) > 0 {
			e.state.Start = Endpoint{LineID: lines[i].ID, ElementID: lines[i].Elements[0].ID}
			break
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if n := len(lines[i].Elements); n > 0 {
			e.state.End = Endpoint{LineID: lines[i].ID, ElementID: lines[i].Elements[n-1].ID}
			break
		}
	}
}

func (e *Engine) newStartCursor(el *textlayout.Element) Cursor {
	return StartCursor(el.Box.D, -el.Box.Angle, e.opts.CursorSize, e.viewport)
}

func (e *Engine) newEndCursor(el *textlayout.Element) Cursor {
	return EndCursor(el.Box.C, -el.Box.Angle, e.opts.CursorSize, e.viewport)
}

func (e *Engine) recompute() {
	e.highlights = nil
	e.text = nil
	if e.state.Mode == Idle {
		return
	}
	boxes, text, ok := Highlights(e.layout, e.state.Start, e.state.End)
	if !ok {
		return
	}
	e.highlights = boxes
	e.text = &text
}

func (e *Engine) change(committed bool) Change {
	if e.text == nil {
		return Change{Cleared: true, Committed: committed}
	}
	return Change{Text: *e.text, Committed: committed}
}

func (e *Engine) reset() {
	e.state = State{}
	e.startCursor = nil
	e.endCursor = nil
	e.highlights = nil
	e.text = nil
}

// Layout returns the current layout
func (e *Engine) Layout() *textlayout.Layout { return e.layout }

// State returns the current selection state
func (e *Engine) State() State { return e.state }

// Mode returns the current gesture mode
func (e *Engine) Mode() Mode { return e.state.Mode }

// IsDragging reports whether a handle is held
func (e *Engine) IsDragging() bool {
	return e.state.Mode == DraggingStart || e.state.Mode == DraggingEnd
}

// HitsCursor reports whether p lies on either handle
func (e *Engine) HitsCursor(p geometry.Point) bool {
	return (e.startCursor != nil && e.startCursor.Box.Contains(p)) ||
		(e.endCursor != nil && e.endCursor.Box.Contains(p))
}

// Highlights returns a copy of the current highlight boxes
func (e *Engine) Highlights() []geometry.BoundingBox {
	return append([]geometry.BoundingBox(nil), e.highlights...)
}

// SelectedText returns the text of the last recompute, if any
func (e *Engine) SelectedText() (string, bool) {
	if e.text == nil {
		return "", false
	}
	return *e.text, true
}

// StartCursor returns the start handle, if shown
func (e *Engine) StartCursor() (Cursor, bool) {
	if e.startCursor == nil {
		return Cursor{}, false
	}
	return *e.startCursor, true
}

// EndCursor returns the end handle, if shown
func (e *Engine) EndCursor() (Cursor, bool) {
	if e.endCursor == nil {
		return Cursor{}, false
	}
	return *e.endCursor, true
}

// Snapshot returns everything a renderer needs in one value
func (e *Engine) Snapshot() View {
	v := View{
		Mode:       e.state.Mode,
		Highlights: e.Highlights(),
	}
	if e.state.Mode != Idle {
		start, end := e.state.Start, e.state.End
		v.Start, v.End = &start, &end
	}
	if c, ok := e.StartCursor(); ok {
		v.StartCursor = &c
	}
	if c, ok := e.EndCursor(); ok {
		v.EndCursor = &c
	}
	if text, ok := e.SelectedText(); ok {
		v.Text = &text
	}
	return v
}

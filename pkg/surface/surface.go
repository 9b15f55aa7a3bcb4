// Package surface is the synchronized boundary around a selection engine.
//
// A Surface serializes gesture delivery and layout replacement behind one
// mutex, runs OCR requests in the background and discards their results when
// a newer layout won the race, and fans selection changes out to
// subscribers.
package surface

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/selection"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// ErrStale is returned by Load when a newer layout replaced the request's
// result before it arrived
var ErrStale = errors.New("surface: result superseded by a newer layout")

// Options configures a Surface
type Options struct {
	Selection selection.Options // Engine options; Clock and Logger are managed by the Surface
	Logger    logrus.FieldLogger
	Tracer    trace.Tracer
	Clock     func() time.Time
}

// Surface owns a selection engine and its current layout
type Surface struct {
	mu     sync.Mutex
	engine *selection.Engine
	gen    uint64

	logger logrus.FieldLogger
	tracer trace.Tracer
	clock  func() time.Time

	// virtual is the replay clock; zero outside Replay
	virtual time.Time

	subs []chan selection.Change
}

// New creates a Surface with an empty layout
func New(opts Options) *Surface {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("ocrsurface/surface")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Surface{
		logger: opts.Logger,
		tracer: opts.Tracer,
		clock:  opts.Clock,
	}
	engineOpts := opts.Selection
	engineOpts.Clock = s.now
	engineOpts.Logger = opts.Logger
	s.engine = selection.New(nil, engineOpts)
	return s
}

// now is the engine clock; called with mu held
func (s *Surface) now() time.Time {
	if !s.virtual.IsZero() {
		return s.virtual
	}
	return s.clock()
}

// SetLayout replaces the layout and resets the selection. Pending Load
// requests become stale.
func (s *Surface) SetLayout(layout *textlayout.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.engine.SetLayout(layout)
}

// SetViewport forwards the visible area and handle size to the engine
func (s *Surface) SetViewport(viewport r2.Rect, cursorSize float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetViewport(viewport, cursorSize)
}

// Press delivers a press gesture
func (s *Surface) Press(p geometry.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Press(p)
}

// Move delivers a move gesture. Accepted moves are published to subscribers.
func (s *Surface) Move(p geometry.Point) (selection.Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change, ok := s.engine.Move(p)
	if ok {
		s.publish(change)
	}
	return change, ok
}

// Release delivers a release gesture and publishes the committed change
func (s *Surface) Release(p geometry.Point) selection.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	change := s.engine.Release(p)
	s.publish(change)
	return change
}

// Cancel delivers a cancel gesture and publishes the committed change
func (s *Surface) Cancel(p geometry.Point) selection.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	change := s.engine.Cancel(p)
	s.publish(change)
	return change
}

// Snapshot returns the current rendering view
func (s *Surface) Snapshot() selection.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// Layout returns the current layout
func (s *Surface) Layout() *textlayout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Layout()
}

// SelectedText returns the current selected text, if any
func (s *Surface) SelectedText() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SelectedText()
}

// Subscribe returns a channel receiving every published change. Sends never
// block: a change is dropped for a subscriber whose buffer is full.
func (s *Surface) Subscribe(buffer int) <-chan selection.Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan selection.Change, buffer)
	s.subs = append(s.subs, ch)
	return ch
}

// Close closes every subscriber channel
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

// publish is called with mu held
func (s *Surface) publish(change selection.Change) {
	for i, ch := range s.subs {
		select {
		case ch <- change:
		default:
			s.logger.WithField("subscriber", i).Warn("Dropping selection change for slow subscriber")
		}
	}
}

package surface

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/geo/r2"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/selection"
)

// GestureKind is the type of a scripted gesture
type GestureKind string

const (
	GesturePress   GestureKind = "press"
	GestureMove    GestureKind = "move"
	GestureRelease GestureKind = "release"
	GestureCancel  GestureKind = "cancel"
)

// Gesture is one scripted input event
type Gesture struct {
	Kind GestureKind   `yaml:"kind"`
	X    float64       `yaml:"x"`
	Y    float64       `yaml:"y"`
	At   time.Duration `yaml:"at"` // Time since the start of the script
}

// Viewport is the visible area and handle size for a script
type Viewport struct {
	MinX       float64 `yaml:"min_x"`
	MinY       float64 `yaml:"min_y"`
	MaxX       float64 `yaml:"max_x"`
	MaxY       float64 `yaml:"max_y"`
	CursorSize float64 `yaml:"cursor_size"`
}

// Script is a recorded gesture sequence
type Script struct {
	Viewport *Viewport `yaml:"viewport,omitempty"`
	Gestures []Gesture `yaml:"gestures"`
}

// ParseScript decodes a YAML gesture script
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse gesture script: %w", err)
	}
	var last time.Duration
	for i, g := range script.Gestures {
		switch g.Kind {
		case GesturePress, GestureMove, GestureRelease, GestureCancel:
		default:
			return nil, fmt.Errorf("gesture %d: unknown kind %q", i, g.Kind)
		}
		if g.At < last {
			return nil, fmt.Errorf("gesture %d: time %s is before previous gesture at %s", i, g.At, last)
		}
		last = g.At
	}
	return &script, nil
}

// LoadScript reads and parses a YAML gesture script file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gesture script: %w", err)
	}
	return ParseScript(data)
}

// Replay drives the engine through script using the script's own timeline as
// the engine clock, so throttling is deterministic. It returns every change
// the gestures produced; they are also published to subscribers.
func (s *Surface) Replay(script *Script) []selection.Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	if script.Viewport != nil {
		v := script.Viewport
		s.engine.SetViewport(r2.RectFromPoints(geometry.Pt(v.MinX, v.MinY), geometry.Pt(v.MaxX, v.MaxY)), v.CursorSize)
	}

	base := s.clock()
	defer func() { s.virtual = time.Time{} }()

	var changes []selection.Change
	for _, g := range script.Gestures {
		s.virtual = base.Add(g.At)
		p := geometry.Pt(g.X, g.Y)
		switch g.Kind {
		case GesturePress:
			s.engine.Press(p)
		case GestureMove:
			if change, ok := s.engine.Move(p); ok {
				changes = append(changes, change)
				s.publish(change)
			}
		case GestureRelease:
			change := s.engine.Release(p)
			changes = append(changes, change)
			s.publish(change)
		case GestureCancel:
			change := s.engine.Cancel(p)
			changes = append(changes, change)
			s.publish(change)
		}
	}
	return changes
}

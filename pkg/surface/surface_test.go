package surface

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
	"github.com/gardar/ocrsurface/pkg/selection"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

func twoLineResult() *ocr.Result {
	return &ocr.Result{
		ImageWidth:  400,
		ImageHeight: 100,
		Blocks: []ocr.Block{{Lines: []ocr.Line{
			{Text: "Hello World", Corners: ocr.QuadFromRect(0, 0, 200, 20), Words: []ocr.Word{
				{Text: "Hello", Corners: ocr.QuadFromRect(0, 0, 90, 20)},
				{Text: "World", Corners: ocr.QuadFromRect(110, 0, 200, 20)},
			}},
			{Text: "Foo Bar", Corners: ocr.QuadFromRect(0, 40, 200, 60), Words: []ocr.Word{
				{Text: "Foo", Corners: ocr.QuadFromRect(0, 40, 90, 60)},
				{Text: "Bar", Corners: ocr.QuadFromRect(110, 40, 200, 60)},
			}},
		}}},
	}
}

func staticProvider(result *ocr.Result) ocr.Provider {
	return ocr.ProviderFunc(func(ctx context.Context, image []byte) (*ocr.Result, error) {
		return result, nil
	})
}

func newSurface() *Surface {
	return New(Options{Selection: selection.Options{SelectAllOnFirstPress: false}})
}

func TestLoadSetsLayout(t *testing.T) {
	s := newSurface()
	layout, err := s.Process(context.Background(), staticProvider(twoLineResult()), []byte("img"), Identity())
	require.NoError(t, err)
	require.NotNil(t, layout)
	assert.Same(t, layout, s.Layout())
	assert.Equal(t, "Hello World\nFoo Bar", s.Layout().Text())
}

func TestLoadScalesLayout(t *testing.T) {
	s := newSurface()
	layout, err := s.Process(context.Background(), staticProvider(twoLineResult()), []byte("img"), FitWidth(400, 200))
	require.NoError(t, err)
	assert.InDelta(t, 100, layout.Lines[0].Box.C.X, 1e-6)
	assert.InDelta(t, 30, layout.Lines[1].Box.D.Y, 1e-6)
}

func TestLoadDiscardsStaleResult(t *testing.T) {
	s := newSurface()
	release := make(chan struct{})
	slow := ocr.ProviderFunc(func(ctx context.Context, image []byte) (*ocr.Result, error) {
		<-release
		return twoLineResult(), nil
	})

	pending := s.Load(context.Background(), slow, []byte("old image"), Identity())

	newer := textlayout.Build(&ocr.Result{Blocks: []ocr.Block{{Lines: []ocr.Line{
		{Text: "newer", Corners: ocr.QuadFromRect(0, 0, 50, 10), Words: []ocr.Word{{Text: "newer", Corners: ocr.QuadFromRect(0, 0, 50, 10)}}},
	}}}})
	s.SetLayout(newer)
	close(release)

	res := <-pending
	assert.ErrorIs(t, res.Err, ErrStale)
	require.NotNil(t, res.Layout)
	assert.Same(t, newer, s.Layout())
}

func TestLoadLatestWins(t *testing.T) {
	s := newSurface()
	release := make(chan struct{})
	slow := ocr.ProviderFunc(func(ctx context.Context, image []byte) (*ocr.Result, error) {
		<-release
		return twoLineResult(), nil
	})

	first := s.Load(context.Background(), slow, []byte("a"), Identity())
	second := s.Load(context.Background(), staticProvider(&ocr.Result{}), []byte("b"), Identity())

	res := <-second
	require.NoError(t, res.Err)
	close(release)
	assert.ErrorIs(t, (<-first).Err, ErrStale)
	assert.Same(t, res.Layout, s.Layout())
}

func TestLoadErrors(t *testing.T) {
	s := newSurface()

	_, err := s.Process(context.Background(), staticProvider(twoLineResult()), nil, Identity())
	assert.ErrorIs(t, err, ocr.ErrNoImage)

	boom := errors.New("boom")
	failing := ocr.ProviderFunc(func(ctx context.Context, image []byte) (*ocr.Result, error) {
		return nil, boom
	})
	_, err = s.Process(context.Background(), failing, []byte("img"), Identity())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "func")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block := ocr.ProviderFunc(func(ctx context.Context, image []byte) (*ocr.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err = s.Process(ctx, block, []byte("img"), Identity())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGesturesAndSubscribers(t *testing.T) {
	s := newSurface()
	s.SetLayout(textlayout.Build(twoLineResult()))
	changes := s.Subscribe(4)

	s.Press(geometry.Pt(150, 10))
	change := s.Release(geometry.Pt(150, 10))
	assert.Equal(t, "World", change.Text)
	assert.Equal(t, change, <-changes)

	view := s.Snapshot()
	require.NotNil(t, view.EndCursor)
	s.Press(view.EndCursor.Box.A.Add(geometry.Pt(5, 5)))
	change = s.Cancel(geometry.Pt(55, 55))
	assert.Equal(t, "World\nFoo", change.Text)
	assert.Equal(t, change, <-changes)

	text, ok := s.SelectedText()
	require.True(t, ok)
	assert.Equal(t, "World\nFoo", text)

	s.Close()
	_, open := <-changes
	assert.False(t, open)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	s := newSurface()
	s.SetLayout(textlayout.Build(twoLineResult()))
	changes := s.Subscribe(1)

	for i := 0; i < 3; i++ {
		s.Press(geometry.Pt(150, 10))
		s.Release(geometry.Pt(150, 10))
	}
	assert.Len(t, changes, 1)
}

const roundTripScript = `
viewport:
  min_x: 0
  min_y: 0
  max_x: 400
  max_y: 100
  cursor_size: 24
gestures:
  - {kind: press, x: 150, y: 10, at: 0s}
  - {kind: release, x: 150, y: 10, at: 10ms}
  - {kind: press, x: 205, y: 25, at: 1s}
  - {kind: move, x: 55, y: 55, at: 1100ms}
  - {kind: move, x: 155, y: 55, at: 1150ms}
  - {kind: release, x: 155, y: 55, at: 1300ms}
`

func TestReplay(t *testing.T) {
	script, err := ParseScript([]byte(roundTripScript))
	require.NoError(t, err)
	require.Len(t, script.Gestures, 6)
	assert.Equal(t, 1100*time.Millisecond, script.Gestures[3].At)

	s := newSurface()
	s.SetLayout(textlayout.Build(twoLineResult()))
	changes := s.Replay(script)

	require.Len(t, changes, 3, "the second move falls inside the throttle window")
	assert.Equal(t, selection.Change{Text: "World", Committed: true}, changes[0])
	assert.Equal(t, selection.Change{Text: "World\nFoo"}, changes[1])
	assert.Equal(t, selection.Change{Text: "World\nFoo Bar", Committed: true}, changes[2])
}

func TestParseScriptErrors(t *testing.T) {
	_, err := ParseScript([]byte("gestures:\n  - {kind: tap, x: 1, y: 1}\n"))
	assert.ErrorContains(t, err, "unknown kind")

	_, err = ParseScript([]byte("gestures:\n  - {kind: press, at: 2s}\n  - {kind: release, at: 1s}\n"))
	assert.ErrorContains(t, err, "before previous")

	_, err = ParseScript([]byte("gestures: ["))
	assert.Error(t, err)
}

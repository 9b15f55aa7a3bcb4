package surface

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/gardar/ocrsurface/pkg/geometry"
	"github.com/gardar/ocrsurface/pkg/ocr"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

// Scale maps image pixel space to view space
type Scale struct {
	XRatio float64        `yaml:"x_ratio"`
	YRatio float64        `yaml:"y_ratio"`
	Offset geometry.Point `yaml:"offset"`
}

// Identity is the scale that keeps image coordinates
func Identity() Scale {
	return Scale{XRatio: 1, YRatio: 1}
}

// FitWidth scales an image of the given width to viewWidth, keeping the aspect ratio
func FitWidth(imageWidth int, viewWidth float64) Scale {
	if imageWidth <= 0 {
		return Identity()
	}
	r := viewWidth / float64(imageWidth)
	return Scale{XRatio: r, YRatio: r}
}

// LoadResult is the outcome of one Load request
type LoadResult struct {
	Layout *textlayout.Layout // The scaled layout, also set when Err is ErrStale
	Err    error
}

// Load runs OCR on image in the background. The result is built, scaled and
// handed to the engine atomically, unless SetLayout or a newer Load happened
// in the meantime; then the result carries ErrStale and the engine is left
// untouched. The returned channel receives exactly one value.
// A zero Scale means Identity.
func (s *Surface) Load(ctx context.Context, provider ocr.Provider, image []byte, scale Scale) <-chan LoadResult {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		layout, err := s.recognize(ctx, provider, image, scale)
		if err != nil {
			out <- LoadResult{Err: err}
			return
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			s.logger.WithFields(logrus.Fields{
				"layout":     layout.ID,
				"generation": gen,
			}).Debug("Discarding stale OCR result")
			out <- LoadResult{Layout: layout, Err: ErrStale}
			return
		}
		s.engine.SetLayout(layout)
		s.mu.Unlock()
		out <- LoadResult{Layout: layout}
	}()
	return out
}

// Process is Load followed by waiting for its result or ctx
func (s *Surface) Process(ctx context.Context, provider ocr.Provider, image []byte, scale Scale) (*textlayout.Layout, error) {
	select {
	case res := <-s.Load(ctx, provider, image, scale):
		return res.Layout, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Surface) recognize(ctx context.Context, provider ocr.Provider, image []byte, scale Scale) (*textlayout.Layout, error) {
	ctx, span := s.tracer.Start(ctx, "surface.recognize")
	defer span.End()
	span.SetAttributes(
		attribute.String("provider", provider.Name()),
		attribute.Int("image_bytes", len(image)),
	)

	if len(image) == 0 {
		span.RecordError(ocr.ErrNoImage)
		span.SetStatus(codes.Error, ocr.ErrNoImage.Error())
		return nil, ocr.ErrNoImage
	}

	result, err := provider.Recognize(ctx, image)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: %w", provider.Name(), err)
	}

	layout := textlayout.Build(result, textlayout.WithLogger(s.logger))
	if scale != (Scale{}) && scale != Identity() {
		layout = layout.Scale(scale.XRatio, scale.YRatio, scale.Offset)
	}
	span.SetAttributes(
		attribute.String("layout", layout.ID.String()),
		attribute.Int("lines", len(layout.Lines)),
		attribute.Int("words", result.WordCount()),
	)
	s.logger.WithFields(logrus.Fields{
		"provider": provider.Name(),
		"layout":   layout.ID,
		"lines":    len(layout.Lines),
	}).Info("OCR layout ready")
	return layout, nil
}

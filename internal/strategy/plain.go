package strategy

import (
	"context"
	"fmt"
	"image"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// PlainStrategy renders any element through the canvas path. It sits
// last in the registry and handles every kind, which makes it the
// fallback when no specialized strategy matches.
type PlainStrategy struct{}

// NewPlainStrategy creates the fallback canvas strategy.
func NewPlainStrategy() *PlainStrategy {
	return &PlainStrategy{}
}

func (s *PlainStrategy) Name() string {
	return "plain"
}

// CanHandle always returns true; plain rendering is the catch-all.
func (s *PlainStrategy) CanHandle(el *element.Element) bool {
	return el != nil
}

func (s *PlainStrategy) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, h := el.Width, el.Height
	if w <= 0 || h <= 0 {
		// An element that was never laid out may still be measurable.
		if m, ok := el.Content.(element.Measurer); ok {
			w, h = m.Measure()
		}
	}
	if w <= 0 || h <= 0 {
		return nil, caperr.New(caperr.KindNotReady,
			"element %s has no size after measure (%dx%d)", el.ID, w, h)
	}

	buf := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.IncludeBackground {
		fillBackground(buf, el, defaultFill)
	}
	if r, ok := el.Content.(element.Renderer); ok {
		if err := r.Render(buf); err != nil {
			return nil, fmt.Errorf("render element %s: %w", el.ID, err)
		}
	}
	return frame.New(buf), nil
}

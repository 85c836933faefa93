package strategy

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// ImageStrategy captures image-displaying elements. When the current
// source is a plain in-memory bitmap it still prefers rendering the
// element into a buffer sized to the element's measured bounds, because
// the raw source may differ in dimensions or orientation from what is
// actually on screen.
type ImageStrategy struct{}

// NewImageStrategy creates the image element strategy.
func NewImageStrategy() *ImageStrategy {
	return &ImageStrategy{}
}

func (s *ImageStrategy) Name() string {
	return "image"
}

func (s *ImageStrategy) CanHandle(el *element.Element) bool {
	return el != nil && el.Kind == element.KindImage
}

func (s *ImageStrategy) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ic, ok := el.Content.(element.ImageContent)
	if !ok {
		// No image accessor; draw whatever the element renders.
		return NewPlainStrategy().Capture(ctx, el, opts)
	}

	if src := ic.Source(); src != nil && (el.Width <= 0 || el.Height <= 0) {
		// No measured bounds to render into; fall back to a copy of the
		// raw source bitmap.
		b := src.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return nil, caperr.New(caperr.KindNotReady,
				"element %s has an empty image source", el.ID)
		}
		buf := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(buf, buf.Bounds(), src, b.Min, draw.Src)
		return frame.New(buf), nil
	}

	if el.Width <= 0 || el.Height <= 0 {
		return nil, caperr.New(caperr.KindNotReady,
			"element %s has no size (%dx%d)", el.ID, el.Width, el.Height)
	}

	// Rendering the element applies its scale and crop mode, so the
	// output matches what is on screen.
	buf := image.NewRGBA(image.Rect(0, 0, el.Width, el.Height))
	if opts.IncludeBackground {
		fillBackground(buf, el, defaultFill)
	}
	if err := ic.Render(buf); err != nil {
		return nil, fmt.Errorf("render image element %s: %w", el.ID, err)
	}
	return frame.New(buf), nil
}

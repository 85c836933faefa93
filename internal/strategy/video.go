package strategy

import (
	"context"
	"fmt"
	"image"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// VideoStrategy captures simple video elements through the canvas path.
// It differs from PlainStrategy only in its background: video content
// sits on black, not the default light fill.
type VideoStrategy struct{}

// NewVideoStrategy creates the simple-video strategy.
func NewVideoStrategy() *VideoStrategy {
	return &VideoStrategy{}
}

func (s *VideoStrategy) Name() string {
	return "simple_video"
}

func (s *VideoStrategy) CanHandle(el *element.Element) bool {
	return el != nil && el.Kind == element.KindSimpleVideo
}

func (s *VideoStrategy) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if el.Width <= 0 || el.Height <= 0 {
		return nil, caperr.New(caperr.KindNotReady,
			"video element %s has no size (%dx%d)", el.ID, el.Width, el.Height)
	}

	buf := image.NewRGBA(image.Rect(0, 0, el.Width, el.Height))
	if opts.IncludeBackground {
		fillBackground(buf, el, videoFill)
	}
	if r, ok := el.Content.(element.Renderer); ok {
		if err := r.Render(buf); err != nil {
			return nil, fmt.Errorf("render video element %s: %w", el.ID, err)
		}
	}
	return frame.New(buf), nil
}

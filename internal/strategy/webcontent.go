package strategy

import (
	"context"
	"fmt"
	"image"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// WebStrategy captures embedded web content at its full scrollable
// document height, not just the visible viewport. The element's scroll
// offset is reset to the origin for the render and restored afterwards,
// including on failure.
type WebStrategy struct{}

// NewWebStrategy creates the web content strategy.
func NewWebStrategy() *WebStrategy {
	return &WebStrategy{}
}

func (s *WebStrategy) Name() string {
	return "web_content"
}

func (s *WebStrategy) CanHandle(el *element.Element) bool {
	if el == nil || el.Kind != element.KindWebContent {
		return false
	}
	_, ok := el.Content.(element.WebContent)
	return ok
}

func (s *WebStrategy) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wc, ok := el.Content.(element.WebContent)
	if !ok {
		return nil, caperr.New(caperr.KindNotReady, "element %s exposes no web content", el.ID)
	}

	width := el.Width
	_, contentH := wc.ContentSize()
	if contentH <= 0 {
		contentH = el.Height
	}
	if width <= 0 || contentH <= 0 {
		return nil, caperr.New(caperr.KindNotReady,
			"web content %s has no size (%dx%d)", el.ID, width, contentH)
	}

	buf := image.NewRGBA(image.Rect(0, 0, width, contentH))
	if opts.IncludeBackground {
		fillBackground(buf, el, defaultFill)
	}

	// Scoped scroll reset: the document renders from its origin and the
	// user's scroll position survives the capture either way.
	ox, oy := wc.ScrollOffset()
	wc.SetScrollOffset(0, 0)
	defer wc.SetScrollOffset(ox, oy)

	if err := wc.RenderContent(buf); err != nil {
		return nil, fmt.Errorf("render web content %s: %w", el.ID, err)
	}
	return frame.New(buf), nil
}

// CaptureVisible captures only the visible viewport at the current
// scroll offset. This is the explicit opt-in alternative to the default
// full-document capture.
func (s *WebStrategy) CaptureVisible(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wc, ok := el.Content.(element.WebContent)
	if !ok {
		return nil, caperr.New(caperr.KindNotReady, "element %s exposes no web content", el.ID)
	}
	if el.Width <= 0 || el.Height <= 0 {
		return nil, caperr.New(caperr.KindNotReady,
			"web content %s has no size (%dx%d)", el.ID, el.Width, el.Height)
	}

	buf := image.NewRGBA(image.Rect(0, 0, el.Width, el.Height))
	if opts.IncludeBackground {
		fillBackground(buf, el, defaultFill)
	}
	if err := wc.Render(buf); err != nil {
		return nil, fmt.Errorf("render web viewport %s: %w", el.ID, err)
	}
	return frame.New(buf), nil
}

package element

import "image"

// Renderer is the canvas path: the host draws the element's current
// content into the destination buffer, which is sized by the caller.
type Renderer interface {
	Render(dst *image.RGBA) error
}

// BackgroundRenderer is implemented by elements whose background
// drawable can be drawn separately from their content.
type BackgroundRenderer interface {
	RenderBackground(dst *image.RGBA) error
}

// Measurer lets a strategy force a measure and layout pass on an
// element that has never been measured. Returns the resulting size.
type Measurer interface {
	Measure() (width, height int)
}

// ImageContent is an image-displaying element. Source returns the raw
// backing bitmap when the current image source is a plain in-memory
// bitmap, nil otherwise (e.g. a procedural or streamed drawable).
type ImageContent interface {
	Renderer
	Source() image.Image
}

// WebContent is embedded web content with a scrollable document that
// may exceed the visible viewport.
type WebContent interface {
	Renderer

	// ContentSize returns the full document size in pixels. Height may
	// exceed the element's measured height.
	ContentSize() (width, height int)

	ScrollOffset() (x, y int)
	SetScrollOffset(x, y int)

	// RenderContent draws the document starting from the current scroll
	// offset into dst, which may be taller than the viewport.
	RenderContent(dst *image.RGBA) error
}

// Surface is a hardware-backed texture surface with a direct snapshot
// path that bypasses canvas drawing.
type Surface interface {
	// Available reports whether the surface has a live backing. A
	// surface that was never attached, or whose producer has stopped,
	// reports false.
	Available() bool

	// Snapshot reads the surface's current frame. The returned buffer
	// is owned by the caller. A nil image with a nil error must not
	// occur; hosts report read failures as errors.
	Snapshot() (*image.RGBA, error)
}

// MediaPlayer is the optional composite media component. Its rendering
// surface is an internal child element that is not guaranteed to be
// reachable through a stable accessor.
type MediaPlayer interface {
	// SurfaceElement returns the internal hardware-surface element, or
	// nil when the player's internal layout does not expose it. Callers
	// fall back to a bounded hierarchy search when nil.
	SurfaceElement() *Element

	// Playing queries playback state. Hosts may return an error when
	// the underlying player is not in a queryable state.
	Playing() (bool, error)
}

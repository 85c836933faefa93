// Package strategy implements the per-kind capture algorithms and the
// priority registry that selects between them.
package strategy

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// Stabilization delay presets for hardware-surface snapshots. The delay
// gives a just-started video or camera feed time to produce a real
// frame before the snapshot is taken.
const (
	StabilizationNone    = 0
	StabilizationDefault = 200 * time.Millisecond
	StabilizationLong    = 500 * time.Millisecond
)

// Options are per-capture parameters. The zero value captures without a
// background fill, with no stabilization delay, and with frame
// validation enabled.
type Options struct {
	// IncludeBackground fills the buffer with the element's background
	// before drawing content.
	IncludeBackground bool

	// StabilizationDelay is waited cooperatively before a hardware
	// surface is snapshotted. Ignored by canvas-path strategies.
	StabilizationDelay time.Duration

	// SkipValidation disables the post-snapshot frame quality checks.
	SkipValidation bool
}

// Strategy extracts a frame from one family of element kinds.
//
// Capture does not retry: every precondition failure surfaces as a
// distinct error and retry policy belongs to the caller. Cancellation
// of ctx propagates as the context's own error.
type Strategy interface {
	Name() string
	CanHandle(el *element.Element) bool
	Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error)
}

// defaultFill is the background used by canvas-path strategies when the
// element declares no background of its own.
var defaultFill = color.RGBA{R: 250, G: 250, B: 250, A: 255}

// videoFill is the background for video content, which is conventionally
// letterboxed on black.
var videoFill = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// fillBackground paints the element's background into dst: the
// element's own background color when declared, its background drawable
// when it exposes one, and fallback otherwise.
func fillBackground(dst *image.RGBA, el *element.Element, fallback color.Color) {
	fill := fallback
	if el.Background != nil {
		fill = el.Background
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	if bg, ok := el.Content.(element.BackgroundRenderer); ok {
		// Drawable backgrounds paint over the fill color.
		_ = bg.RenderBackground(dst)
	}
}

// wait blocks for d or until ctx is done, in which case the context
// error is returned unwrapped.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

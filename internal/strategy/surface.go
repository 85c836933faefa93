package strategy

import (
	"context"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// SurfaceStrategy captures texture-backed elements through the direct
// surface snapshot path rather than canvas drawing. Snapshots of a feed
// that has only just started can come back black or empty, so captures
// may wait a stabilization delay first and the result is quality-checked
// unless validation is switched off.
type SurfaceStrategy struct {
	validator *frame.Validator
}

// NewSurfaceStrategy creates the hardware-surface strategy. validator
// must not be nil.
func NewSurfaceStrategy(validator *frame.Validator) *SurfaceStrategy {
	return &SurfaceStrategy{validator: validator}
}

func (s *SurfaceStrategy) Name() string {
	return "hardware_surface"
}

func (s *SurfaceStrategy) CanHandle(el *element.Element) bool {
	if el == nil || el.Kind != element.KindHardwareSurface {
		return false
	}
	_, ok := el.Content.(element.Surface)
	return ok
}

func (s *SurfaceStrategy) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	sr, ok := el.Content.(element.Surface)
	if !ok {
		return nil, caperr.New(caperr.KindSurfaceUnavailable,
			"element %s exposes no surface", el.ID)
	}
	return s.snapshot(ctx, el, sr, opts)
}

// snapshot is the availability check, stabilization wait, snapshot and
// validation sequence shared with the media-player strategy.
func (s *SurfaceStrategy) snapshot(ctx context.Context, el *element.Element, sr element.Surface, opts Options) (*frame.Frame, error) {
	// Fail before any snapshot attempt when there is no live backing.
	if !sr.Available() {
		return nil, caperr.New(caperr.KindSurfaceUnavailable,
			"surface of element %s has no live backing", el.ID)
	}

	if err := wait(ctx, opts.StabilizationDelay); err != nil {
		return nil, err
	}

	img, err := sr.Snapshot()
	if err != nil {
		return nil, caperr.Wrap(caperr.KindSurfaceUnavailable, err,
			"snapshot of element %s failed", el.ID)
	}
	if img == nil {
		return nil, caperr.New(caperr.KindEmptyFrame,
			"platform returned no frame for element %s", el.ID)
	}

	fr := frame.New(img)
	if !opts.SkipValidation {
		if err := s.validator.Validate(img); err != nil {
			fr.Release()
			return nil, err
		}
	}
	return fr, nil
}

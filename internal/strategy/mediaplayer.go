package strategy

import (
	"context"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
)

// surfaceSearchDepth bounds the fallback hierarchy search for the
// player's internal surface element.
const surfaceSearchDepth = 8

// MediaPlayerStrategy captures the optional composite media player
// component. Matching is by class-name suffix so a host built without
// the media component never references it. The player's rendering
// surface is an internal child element; when the player does not expose
// it through its accessor, a bounded hierarchy search finds it.
type MediaPlayerStrategy struct {
	surface *SurfaceStrategy
}

// NewMediaPlayerStrategy creates the media-player strategy, delegating
// snapshot mechanics to the given surface strategy.
func NewMediaPlayerStrategy(surface *SurfaceStrategy) *MediaPlayerStrategy {
	return &MediaPlayerStrategy{surface: surface}
}

func (s *MediaPlayerStrategy) Name() string {
	return "media_player_surface"
}

func (s *MediaPlayerStrategy) CanHandle(el *element.Element) bool {
	return el != nil && el.IsMediaPlayer()
}

func (s *MediaPlayerStrategy) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	surfEl := s.locateSurface(el)
	if surfEl == nil {
		return nil, caperr.New(caperr.KindSurfaceUnavailable,
			"media player %s contains no hardware surface", el.ID)
	}
	sr, ok := surfEl.Content.(element.Surface)
	if !ok {
		return nil, caperr.New(caperr.KindSurfaceUnavailable,
			"surface element %s inside media player %s exposes no snapshot path", surfEl.ID, el.ID)
	}
	return s.surface.snapshot(ctx, surfEl, sr, opts)
}

// IsPlaying is a best-effort playback probe. It returns false, never an
// error, when the player or its playback-state query is unavailable.
func (s *MediaPlayerStrategy) IsPlaying(el *element.Element) bool {
	if el == nil {
		return false
	}
	mp, ok := el.Content.(element.MediaPlayer)
	if !ok {
		return false
	}
	playing, err := mp.Playing()
	if err != nil {
		return false
	}
	return playing
}

// locateSurface tries the player's accessor first and falls back to a
// depth-bounded search of its internal hierarchy.
func (s *MediaPlayerStrategy) locateSurface(el *element.Element) *element.Element {
	if mp, ok := el.Content.(element.MediaPlayer); ok {
		if surfEl := mp.SurfaceElement(); surfEl != nil {
			return surfEl
		}
	}
	return findSurface(el, surfaceSearchDepth)
}

func findSurface(el *element.Element, depth int) *element.Element {
	if depth < 0 {
		return nil
	}
	for _, child := range el.Children() {
		if child.Kind == element.KindHardwareSurface {
			if _, ok := child.Content.(element.Surface); ok {
				return child
			}
		}
		if found := findSurface(child, depth-1); found != nil {
			return found
		}
	}
	return nil
}

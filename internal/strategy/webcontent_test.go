package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/sim"
)

func TestWebCaptureFullDocumentHeight(t *testing.T) {
	s := NewWebStrategy()

	// A 300x300 viewport over a three-viewport document captures the
	// full 300x900 document.
	el := sim.NewPage("page", 300, 300, 3)

	fr, err := s.Capture(context.Background(), el, Options{})
	require.NoError(t, err)
	defer fr.Release()

	assert.Equal(t, 300, fr.Width())
	assert.Equal(t, 900, fr.Height())
}

func TestWebCaptureRestoresScrollOffset(t *testing.T) {
	s := NewWebStrategy()
	el := sim.NewPage("page", 300, 300, 3)
	wc := el.Content.(element.WebContent)
	wc.SetScrollOffset(0, 450)

	fr, err := s.Capture(context.Background(), el, Options{})
	require.NoError(t, err)
	fr.Release()

	x, y := wc.ScrollOffset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 450, y)
}

func TestWebCaptureVisibleViewport(t *testing.T) {
	s := NewWebStrategy()
	el := sim.NewPage("page", 300, 300, 3)
	wc := el.Content.(element.WebContent)
	wc.SetScrollOffset(0, 300)

	fr, err := s.CaptureVisible(context.Background(), el, Options{})
	require.NoError(t, err)
	defer fr.Release()

	assert.Equal(t, 300, fr.Width())
	assert.Equal(t, 300, fr.Height())

	// The viewport capture leaves the scroll position alone.
	x, y := wc.ScrollOffset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 300, y)
}

func TestWebCaptureSinglePageDocument(t *testing.T) {
	s := NewWebStrategy()
	el := sim.NewPage("page", 400, 250, 1)

	fr, err := s.Capture(context.Background(), el, Options{})
	require.NoError(t, err)
	defer fr.Release()

	assert.Equal(t, 400, fr.Width())
	assert.Equal(t, 250, fr.Height())
}

func TestWebCaptureCancelledContext(t *testing.T) {
	s := NewWebStrategy()
	el := sim.NewPage("page", 300, 300, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fr, err := s.Capture(ctx, el, Options{})
	assert.Nil(t, fr)
	assert.ErrorIs(t, err, context.Canceled)
}

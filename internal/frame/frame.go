// Package frame holds captured pixel buffers and the post-capture
// quality checks applied to hardware-surface snapshots.
package frame

import (
	"errors"
	"image"
	"sync"
)

// ErrReleased is returned when a frame's pixels are read after release.
var ErrReleased = errors.New("frame already released")

// Frame is a captured pixel buffer with explicit ownership. Exactly one
// component owns a frame at a time; ownership moves by handing the
// pointer on. The owner releases the frame when done, after which the
// pixel data must not be read again.
type Frame struct {
	mu       sync.Mutex
	img      *image.RGBA
	released bool

	width  int
	height int
}

// New wraps a pixel buffer in a Frame. The buffer must not be mutated
// by the caller afterwards.
func New(img *image.RGBA) *Frame {
	b := img.Bounds()
	return &Frame{
		img:    img,
		width:  b.Dx(),
		height: b.Dy(),
	}
}

// Width returns the frame width in pixels. Valid even after release.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in pixels. Valid even after release.
func (f *Frame) Height() int {
	return f.height
}

// Image returns the underlying pixel buffer, or ErrReleased.
func (f *Frame) Image() (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return nil, ErrReleased
	}
	return f.img, nil
}

// Release drops the pixel buffer. Safe to call more than once.
func (f *Frame) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
	f.img = nil
}

// Released reports whether the frame has been released.
func (f *Frame) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

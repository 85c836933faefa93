// Package transform provides the bitmap operations a capture toolkit
// ships alongside extraction: resize, crop, rotate, watermark, stitch.
// All functions copy; the input buffer is never mutated.
package transform

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// Resize scales img to width x height using Lanczos resampling. Passing
// 0 for one dimension preserves the aspect ratio.
func Resize(img *image.RGBA, width, height uint) *image.RGBA {
	out := resize.Resize(width, height, img, resize.Lanczos3)
	if rgba, ok := out.(*image.RGBA); ok {
		return rgba
	}
	b := out.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), out, b.Min, draw.Src)
	return rgba
}

// Thumbnail scales img down so its longest side is at most maxSide,
// never scaling up.
func Thumbnail(img *image.RGBA, maxSide uint) *image.RGBA {
	b := img.Bounds()
	w, h := uint(b.Dx()), uint(b.Dy())
	if w <= maxSide && h <= maxSide {
		return Resize(img, w, h)
	}
	if w >= h {
		return Resize(img, maxSide, 0)
	}
	return Resize(img, 0, maxSide)
}

// Crop returns the region r of img.
func Crop(img *image.RGBA, r image.Rectangle) (*image.RGBA, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop region outside image bounds %v", img.Bounds())
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, nil
}

// Rotate rotates img clockwise by 90, 180 or 270 degrees.
func Rotate(img *image.RGBA, degrees int) (*image.RGBA, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch degrees % 360 {
	case 0:
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
		return out, nil
	case 90:
		out := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(h-1-y, x, img.RGBAAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return out, nil
	case 180:
		out := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(w-1-x, h-1-y, img.RGBAAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return out, nil
	case 270:
		out := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetRGBA(y, w-1-x, img.RGBAAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("rotation must be a multiple of 90 degrees, got %d", degrees)
	}
}

// StitchVertical stacks images top to bottom. Output width is the
// widest input; narrower images are left-aligned.
func StitchVertical(imgs ...*image.RGBA) *image.RGBA {
	width, height := 0, 0
	for _, img := range imgs {
		b := img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	y := 0
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}
	return out
}

// StitchHorizontal lays images left to right. Output height is the
// tallest input; shorter images are top-aligned.
func StitchHorizontal(imgs ...*image.RGBA) *image.RGBA {
	width, height := 0, 0
	for _, img := range imgs {
		b := img.Bounds()
		if b.Dy() > height {
			height = b.Dy()
		}
		width += b.Dx()
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	x := 0
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx()
	}
	return out
}

package transform

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// WatermarkOptions place a text watermark. The zero value draws white
// text at 50% opacity in the bottom-right corner.
type WatermarkOptions struct {
	X, Y    int
	Anchor  Anchor
	Color   color.RGBA
	Opacity float64
	Padding int
}

// Anchor positions a watermark relative to the image.
type Anchor int

const (
	AnchorBottomRight Anchor = iota
	AnchorBottomLeft
	AnchorTopRight
	AnchorTopLeft
	AnchorCustom
)

const watermarkFontHeight = 13 // basicfont.Face7x13

// Watermark returns a copy of img with text blended over it.
func Watermark(img *image.RGBA, text string, opts WatermarkOptions) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	if text == "" {
		return out
	}

	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 0.5
	}
	if opts.Color == (color.RGBA{}) {
		opts.Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if opts.Padding <= 0 {
		opts.Padding = 8
	}

	face := basicfont.Face7x13
	textImg := renderText(text, face, opts.Color)
	tb := textImg.Bounds()

	b := out.Bounds()
	x, y := opts.X, opts.Y
	switch opts.Anchor {
	case AnchorBottomRight:
		x = b.Max.X - tb.Dx() - opts.Padding
		y = b.Max.Y - tb.Dy() - opts.Padding
	case AnchorBottomLeft:
		x = b.Min.X + opts.Padding
		y = b.Max.Y - tb.Dy() - opts.Padding
	case AnchorTopRight:
		x = b.Max.X - tb.Dx() - opts.Padding
		y = b.Min.Y + opts.Padding
	case AnchorTopLeft:
		x = b.Min.X + opts.Padding
		y = b.Min.Y + opts.Padding
	}

	blend(out, textImg, x, y, opts.Opacity)
	return out
}

func renderText(text string, face font.Face, col color.RGBA) *image.RGBA {
	measure := &font.Drawer{Face: face}
	widthPx := int(measure.MeasureString(text) >> 6)

	img := image.NewRGBA(image.Rect(0, 0, widthPx, watermarkFontHeight))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(watermarkFontHeight - 2)},
	}
	d.DrawString(text)
	return img
}

// blend alpha-composites src onto dst at (x, y) with a global opacity,
// clipping to dst's bounds.
func blend(dst *image.RGBA, src image.Image, x, y int, opacity float64) {
	srcBounds := src.Bounds()
	dstBounds := dst.Bounds()

	for sy := srcBounds.Min.Y; sy < srcBounds.Max.Y; sy++ {
		dy := y + (sy - srcBounds.Min.Y)
		if dy < dstBounds.Min.Y || dy >= dstBounds.Max.Y {
			continue
		}
		for sx := srcBounds.Min.X; sx < srcBounds.Max.X; sx++ {
			dx := x + (sx - srcBounds.Min.X)
			if dx < dstBounds.Min.X || dx >= dstBounds.Max.X {
				continue
			}

			sr, sg, sb, sa := src.At(sx, sy).RGBA()
			alpha := float64(sa) * opacity / 65535.0
			if alpha <= 0 {
				continue
			}

			dr, dg, db, da := dst.At(dx, dy).RGBA()
			outAlpha := alpha + float64(da)/65535.0*(1-alpha)
			if outAlpha <= 0 {
				continue
			}
			outR := uint8((float64(sr)/65535.0*alpha + float64(dr)/65535.0*float64(da)/65535.0*(1-alpha)) / outAlpha * 255)
			outG := uint8((float64(sg)/65535.0*alpha + float64(dg)/65535.0*float64(da)/65535.0*(1-alpha)) / outAlpha * 255)
			outB := uint8((float64(sb)/65535.0*alpha + float64(db)/65535.0*float64(da)/65535.0*(1-alpha)) / outAlpha * 255)
			dst.SetRGBA(dx, dy, color.RGBA{R: outR, G: outG, B: outB, A: uint8(outAlpha * 255)})
		}
	}
}

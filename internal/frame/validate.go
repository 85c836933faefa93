package frame

import (
	"image"

	"github.com/viewsnap/viewsnap/internal/caperr"
)

// Default sampling parameters for frame quality checks. The checks are
// heuristics tuned to catch "not yet rendered" hardware-surface frames,
// not a general image classifier.
const (
	// DefaultSampleStep samples every Nth pixel in each axis for the
	// uniform and black-ratio checks.
	DefaultSampleStep = 10

	// DefaultMinDistinctColors is the number of distinct sampled colors
	// a frame must show to pass the variation check.
	DefaultMinDistinctColors = 10

	// DefaultMaxBlackRatio is the fraction of sampled pixels that may
	// be black or transparent before the frame is rejected.
	DefaultMaxBlackRatio = 0.95

	// DefaultDistinctSampleStep is the coarser grid used by the
	// distinct-color count, which exits early once the minimum is met.
	DefaultDistinctSampleStep = 20

	// blackLevel is the per-channel ceiling below which a pixel counts
	// as black.
	blackLevel = 16
)

// ValidatorOptions tune the quality checks. Zero values select the
// defaults above.
type ValidatorOptions struct {
	SampleStep         int
	MinDistinctColors  int
	MaxBlackRatio      float64
	DistinctSampleStep int
}

// Validator classifies captured frames that look unrendered: uniform,
// near-black, or with too little color variation.
type Validator struct {
	opts ValidatorOptions
}

// NewValidator creates a frame validator.
func NewValidator(opts ValidatorOptions) *Validator {
	if opts.SampleStep <= 0 {
		opts.SampleStep = DefaultSampleStep
	}
	if opts.MinDistinctColors <= 0 {
		opts.MinDistinctColors = DefaultMinDistinctColors
	}
	if opts.MaxBlackRatio <= 0 {
		opts.MaxBlackRatio = DefaultMaxBlackRatio
	}
	if opts.DistinctSampleStep <= 0 {
		opts.DistinctSampleStep = DefaultDistinctSampleStep
	}
	return &Validator{opts: opts}
}

// Validate returns nil for a frame with plausible rendered content, or
// a caperr error with kind EmptyFrame, BlackFrame or LowVariationFrame.
func (v *Validator) Validate(img *image.RGBA) error {
	if img == nil {
		return caperr.New(caperr.KindEmptyFrame, "nil frame")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return caperr.New(caperr.KindEmptyFrame, "zero-sized frame %dx%d", b.Dx(), b.Dy())
	}

	uniform, blackRatio := v.scan(img)
	if uniform {
		return caperr.New(caperr.KindEmptyFrame, "frame is uniformly colored (%dx%d)", b.Dx(), b.Dy())
	}
	if blackRatio > v.opts.MaxBlackRatio {
		return caperr.New(caperr.KindBlackFrame,
			"%.0f%% of sampled pixels are black or transparent", blackRatio*100)
	}
	if n := v.distinctColors(img); n < v.opts.MinDistinctColors {
		return caperr.New(caperr.KindLowVariationFrame,
			"only %d distinct colors sampled, need %d", n, v.opts.MinDistinctColors)
	}
	return nil
}

// scan walks the sampling grid once, reporting whether every sampled
// pixel matched the first and what fraction was black or transparent.
func (v *Validator) scan(img *image.RGBA) (uniform bool, blackRatio float64) {
	b := img.Bounds()
	step := v.opts.SampleStep

	first := img.RGBAAt(b.Min.X, b.Min.Y)
	uniform = true
	total, black := 0, 0

	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			px := img.RGBAAt(x, y)
			total++
			if px != first {
				uniform = false
			}
			if px.A == 0 || (px.R < blackLevel && px.G < blackLevel && px.B < blackLevel) {
				black++
			}
		}
	}
	if total == 0 {
		return true, 1
	}
	return uniform, float64(black) / float64(total)
}

// distinctColors counts distinct sampled colors on the coarse grid,
// stopping as soon as the minimum is reached.
func (v *Validator) distinctColors(img *image.RGBA) int {
	b := img.Bounds()
	step := v.opts.DistinctSampleStep
	seen := make(map[uint32]struct{}, v.opts.MinDistinctColors)

	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			px := img.RGBAAt(x, y)
			key := uint32(px.R)<<24 | uint32(px.G)<<16 | uint32(px.B)<<8 | uint32(px.A)
			seen[key] = struct{}{}
			if len(seen) >= v.opts.MinDistinctColors {
				return len(seen)
			}
		}
	}
	return len(seen)
}

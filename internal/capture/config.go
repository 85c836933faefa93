// Package capture orchestrates a capture request end to end: element
// resolution, readiness validation, strategy extraction, optional
// persistence and frame disposal.
package capture

import (
	"fmt"
	"time"

	"github.com/viewsnap/viewsnap/internal/storage"
	"github.com/viewsnap/viewsnap/internal/strategy"
)

// Config is an immutable description of one capture request. Build it
// with NewConfig; invalid values are rejected at Build.
type Config struct {
	format  storage.Format
	quality int
	dir     string
	name    string

	save               bool
	includeBackground  bool
	autoRelease        bool
	returnFrame        bool
	stabilizationDelay time.Duration
	skipValidation     bool
}

// DefaultConfig captures a frame in PNG, returns it to the caller, and
// does not persist.
func DefaultConfig() Config {
	return Config{
		format:             storage.FormatPNG,
		quality:            90,
		returnFrame:        true,
		stabilizationDelay: strategy.StabilizationDefault,
	}
}

func (c Config) Format() storage.Format              { return c.format }
func (c Config) Quality() int                        { return c.quality }
func (c Config) Dir() string                         { return c.dir }
func (c Config) Name() string                        { return c.name }
func (c Config) Save() bool                          { return c.save }
func (c Config) IncludeBackground() bool             { return c.includeBackground }
func (c Config) AutoRelease() bool                   { return c.autoRelease }
func (c Config) ReturnFrame() bool                   { return c.returnFrame }
func (c Config) StabilizationDelay() time.Duration   { return c.stabilizationDelay }
func (c Config) SkipValidation() bool                { return c.skipValidation }

func (c Config) strategyOptions() strategy.Options {
	return strategy.Options{
		IncludeBackground:  c.includeBackground,
		StabilizationDelay: c.stabilizationDelay,
		SkipValidation:     c.skipValidation,
	}
}

// Builder assembles a Config fluently. Methods return the builder for
// chaining; Build reports the first invalid setting.
type Builder struct {
	cfg Config
}

// NewConfig starts a builder from DefaultConfig.
func NewConfig() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Format sets the output encoding.
func (b *Builder) Format(f storage.Format) *Builder {
	b.cfg.format = f
	return b
}

// Quality sets the encoder quality, meaningful for lossy formats only.
func (b *Builder) Quality(q int) *Builder {
	b.cfg.quality = q
	return b
}

// SaveTo requests persistence into dir. name may be empty for a
// generated unique name.
func (b *Builder) SaveTo(dir, name string) *Builder {
	b.cfg.save = true
	b.cfg.dir = dir
	b.cfg.name = name
	return b
}

// IncludeBackground fills the element's background before drawing.
func (b *Builder) IncludeBackground(v bool) *Builder {
	b.cfg.includeBackground = v
	return b
}

// AutoRelease releases the frame after a successful save instead of
// returning it.
func (b *Builder) AutoRelease(v bool) *Builder {
	b.cfg.autoRelease = v
	return b
}

// ReturnFrame controls whether the caller receives the frame at all.
func (b *Builder) ReturnFrame(v bool) *Builder {
	b.cfg.returnFrame = v
	return b
}

// StabilizationDelay sets the pre-snapshot wait for surface captures.
func (b *Builder) StabilizationDelay(d time.Duration) *Builder {
	b.cfg.stabilizationDelay = d
	return b
}

// SkipValidation disables post-snapshot frame quality checks.
func (b *Builder) SkipValidation(v bool) *Builder {
	b.cfg.skipValidation = v
	return b
}

// Build validates and returns the config.
func (b *Builder) Build() (Config, error) {
	if b.cfg.quality < 0 || b.cfg.quality > 100 {
		return Config{}, fmt.Errorf("quality %d out of range [0,100]", b.cfg.quality)
	}
	if b.cfg.stabilizationDelay < 0 {
		return Config{}, fmt.Errorf("stabilization delay %v is negative", b.cfg.stabilizationDelay)
	}
	switch b.cfg.format {
	case storage.FormatPNG, storage.FormatJPEG, storage.FormatWebP:
	default:
		return Config{}, fmt.Errorf("unknown format %q", b.cfg.format)
	}
	return b.cfg, nil
}

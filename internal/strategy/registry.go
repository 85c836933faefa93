package strategy

import (
	"context"

	"github.com/viewsnap/viewsnap/internal/caperr"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/frame"
	"github.com/viewsnap/viewsnap/internal/logger"
	"github.com/viewsnap/viewsnap/internal/readiness"
)

// Registry holds the strategies in their fixed priority order:
// media player > hardware surface > web content > simple video >
// image > plain. The plain strategy handles every element, so selection
// always succeeds for a non-nil element.
type Registry struct {
	strategies []Strategy
	readiness  *readiness.Validator
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithReadinessCheck makes Select fail fast with a NotReady error when
// the element fails the full readiness check, before any extraction.
func WithReadinessCheck(v *readiness.Validator) RegistryOption {
	return func(r *Registry) {
		r.readiness = v
	}
}

// NewRegistry builds the registry. validator feeds the surface-path
// quality checks.
func NewRegistry(validator *frame.Validator, opts ...RegistryOption) *Registry {
	surface := NewSurfaceStrategy(validator)
	r := &Registry{
		strategies: []Strategy{
			NewMediaPlayerStrategy(surface),
			surface,
			NewWebStrategy(),
			NewVideoStrategy(),
			NewImageStrategy(),
			NewPlainStrategy(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Select returns the highest-priority strategy whose CanHandle accepts
// the element. With a readiness check configured, an element that fails
// it is rejected here, before any extraction attempt.
func (r *Registry) Select(el *element.Element) (Strategy, error) {
	if el == nil {
		return nil, caperr.New(caperr.KindNotReady, "element is nil")
	}
	if r.readiness != nil {
		if ok, reason := r.readiness.Check(el); !ok {
			return nil, caperr.New(caperr.KindNotReady, "%s", reason)
		}
	}
	for _, s := range r.strategies {
		if s.CanHandle(el) {
			logger.WithComponent("strategy").Debug().
				Str("element", el.ID).
				Str("kind", el.Kind.String()).
				Str("strategy", s.Name()).
				Msg("Strategy selected")
			return s, nil
		}
	}
	// Unreachable while the plain fallback is registered.
	return nil, caperr.New(caperr.KindNotReady, "no strategy handles element %s", el.ID)
}

// Compatible returns every strategy that accepts the element, in
// priority order. Intended for introspection and testing.
func (r *Registry) Compatible(el *element.Element) []Strategy {
	var out []Strategy
	for _, s := range r.strategies {
		if s.CanHandle(el) {
			out = append(out, s)
		}
	}
	return out
}

// Capture selects and invokes the strategy for el in one call.
func (r *Registry) Capture(ctx context.Context, el *element.Element, opts Options) (*frame.Frame, error) {
	s, err := r.Select(el)
	if err != nil {
		return nil, err
	}
	return s.Capture(ctx, el, opts)
}

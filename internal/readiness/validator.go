// Package readiness implements the pre-capture checks every strategy
// runs before touching an element's pixels.
package readiness

import (
	"fmt"

	"github.com/viewsnap/viewsnap/internal/element"
)

// DefaultMinAlpha is the canonical opacity floor below which an element
// is treated as not meaningfully capturable.
const DefaultMinAlpha = 0.01

// Options control which of the stricter checks apply. The zero value
// skips both; use DefaultOptions for the standard full check.
type Options struct {
	RequireAttached bool
	RequireLaidOut  bool
}

// DefaultOptions requires attachment and a completed layout pass.
func DefaultOptions() Options {
	return Options{RequireAttached: true, RequireLaidOut: true}
}

// Validator runs the ordered readiness checks. It performs pure
// read-only inspection and has no side effects on the tree.
type Validator struct {
	minAlpha float64
}

// NewValidator creates a validator. minAlpha <= 0 selects
// DefaultMinAlpha.
func NewValidator(minAlpha float64) *Validator {
	if minAlpha <= 0 {
		minAlpha = DefaultMinAlpha
	}
	return &Validator{minAlpha: minAlpha}
}

// MinAlpha returns the configured opacity floor.
func (v *Validator) MinAlpha() float64 {
	return v.minAlpha
}

// IsReady reports whether the element passes the full readiness check.
func (v *Validator) IsReady(el *element.Element) bool {
	ok, _ := v.CheckWith(el, DefaultOptions())
	return ok
}

// Check runs the full readiness check and returns the first failing
// reason. The reason is non-empty whenever ok is false.
func (v *Validator) Check(el *element.Element) (ok bool, reason string) {
	return v.CheckWith(el, DefaultOptions())
}

// CheckWith runs the readiness checks in their fixed order, honoring
// opts. The first failure wins.
func (v *Validator) CheckWith(el *element.Element, opts Options) (bool, string) {
	if el == nil {
		return false, "element is nil"
	}
	if el.Visibility != element.Visible {
		return false, fmt.Sprintf("element visibility is %s", el.Visibility)
	}
	if !el.IsShown() {
		return false, "element is hidden by an ancestor"
	}
	if el.Width <= 0 || el.Height <= 0 {
		return false, fmt.Sprintf("element has no size (%dx%d)", el.Width, el.Height)
	}
	if opts.RequireAttached && !el.Attached {
		return false, "element is not attached to a display"
	}
	if opts.RequireLaidOut && !el.LaidOut {
		return false, "element has not completed layout"
	}
	if el.Alpha < v.minAlpha {
		return false, fmt.Sprintf("element alpha %.3f is below %.3f", el.Alpha, v.minAlpha)
	}
	return true, ""
}

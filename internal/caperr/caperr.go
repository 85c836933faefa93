// Package caperr defines the stable error kinds surfaced by capture
// operations. Strategies and validators return these directly; the
// orchestrator wraps collaborator failures into them before returning.
package caperr

import (
	"errors"
	"fmt"
)

// Kind classifies a capture failure.
type Kind string

const (
	// KindNotReady means the element failed a pre-capture readiness check.
	KindNotReady Kind = "not_ready"

	// KindSurfaceUnavailable means a hardware surface has no live backing.
	KindSurfaceUnavailable Kind = "surface_unavailable"

	// KindEmptyFrame means the captured frame was uniformly colored.
	KindEmptyFrame Kind = "empty_frame"

	// KindBlackFrame means the captured frame was mostly black or transparent.
	KindBlackFrame Kind = "black_frame"

	// KindLowVariationFrame means the frame had too few distinct colors.
	KindLowVariationFrame Kind = "low_variation_frame"

	// KindContextGone means the owning host context no longer exists.
	KindContextGone Kind = "context_gone"

	// KindPermissionDenied means the target location requires an
	// authorization the host has not granted.
	KindPermissionDenied Kind = "permission_denied"

	// KindStorageError means persistence I/O failed.
	KindStorageError Kind = "storage_error"

	// KindDisposed means the request arrived after shutdown.
	KindDisposed Kind = "disposed"
)

// Error is a capture failure with a stable kind.
//
// Cancellation is deliberately not a Kind: context.Canceled and
// context.DeadlineExceeded propagate unwrapped through every layer.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports kind equality so sentinel comparisons via errors.Is work.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind && (other.Msg == "" || other.Msg == e.Msg)
	}
	return false
}

// New creates an Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around a cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of err, or "" if err carries none.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

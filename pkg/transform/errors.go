package transform

import (
	"errors"
	"fmt"
)

// Sentinel errors for the documented failure modes. Callers match them with
// errors.Is; the wrapping error types below carry the location detail.
var (
	// ErrMissingField indicates a path segment named an absent mapping key
	// outside any flattening fan-out context.
	ErrMissingField = errors.New("missing field")

	// ErrSpreadTypeMismatch indicates a spread entry resolved to a
	// non-sequence value.
	ErrSpreadTypeMismatch = errors.New("spread entry did not resolve to a sequence")

	// ErrSpreadLengthMismatch indicates spread entries within one array
	// conversion resolved to sequences of different lengths.
	ErrSpreadLengthMismatch = errors.New("spread sequences have different lengths")

	// ErrNoSpreadTarget indicates an array conversion marker with no spread
	// descendant.
	ErrNoSpreadTarget = errors.New("array conversion has no spread entry")

	// ErrTemplateSyntax indicates a malformed decoration in the template.
	ErrTemplateSyntax = errors.New("template syntax error")

	// ErrDepthExceeded indicates the recursion guard tripped.
	ErrDepthExceeded = errors.New("maximum recursion depth exceeded")
)

// ErrorKind returns a stable snake_case identifier for a transform failure,
// suitable for metric labels and audit records. Unrecognized errors map to
// "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrSpreadTypeMismatch):
		return "spread_type_mismatch"
	case errors.Is(err, ErrSpreadLengthMismatch):
		return "spread_length_mismatch"
	case errors.Is(err, ErrNoSpreadTarget):
		return "no_spread_target"
	case errors.Is(err, ErrTemplateSyntax):
		return "template_syntax"
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	default:
		return "internal"
	}
}

// PathError reports a failure to resolve a path expression against the
// source document.
type PathError struct {
	// Expr is the full path expression being resolved.
	Expr string
	// Segment is the segment that failed.
	Segment string
	// Err is the underlying cause, typically ErrMissingField.
	Err error
}

// Error returns the error message.
func (e *PathError) Error() string {
	return fmt.Sprintf("cannot resolve %q: segment %q: %v", e.Expr, e.Segment, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PathError) Unwrap() error {
	return e.Err
}

// TransformError reports a failure while rendering a template, located by
// the template path of the entry that caused it.
type TransformError struct {
	// TemplatePath is the path of the offending template entry, with raw
	// (decorated) keys, e.g. "/[order]/...item_ids".
	TemplatePath string
	// Detail is an optional human-readable elaboration.
	Detail string
	// Err is the underlying cause, one of the sentinel errors or a
	// PathError.
	Err error
}

// Error returns the error message.
func (e *TransformError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("template%s: %v: %s", e.TemplatePath, e.Err, e.Detail)
	}
	return fmt.Sprintf("template%s: %v", e.TemplatePath, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransformError) Unwrap() error {
	return e.Err
}

package transform

import (
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing field", ErrMissingField, "missing_field"},
		{"spread type", ErrSpreadTypeMismatch, "spread_type_mismatch"},
		{"spread length", ErrSpreadLengthMismatch, "spread_length_mismatch"},
		{"no spread target", ErrNoSpreadTarget, "no_spread_target"},
		{"template syntax", ErrTemplateSyntax, "template_syntax"},
		{"depth exceeded", ErrDepthExceeded, "depth_exceeded"},
		{"wrapped", fmt.Errorf("at /a/b: %w", ErrMissingField), "missing_field"},
		{"transform error", &TransformError{TemplatePath: "/x", Err: ErrNoSpreadTarget}, "no_spread_target"},
		{"unknown", fmt.Errorf("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

package transform

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"single segment", "/ids", []string{"ids"}},
		{"nested", "/order/shipments/items/quantity", []string{"order", "shipments", "items", "quantity"}},
		{"root", "/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.expr)
			if err != nil {
				t.Fatalf("ParsePath(%q) failed: %v", tt.expr, err)
			}
			if diff := cmp.Diff(tt.want, p.Segments()); diff != "" {
				t.Errorf("Segments() mismatch (-want +got):\n%s", diff)
			}
			if p.String() != tt.expr {
				t.Errorf("String() = %q, want %q", p.String(), tt.expr)
			}
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"missing leading slash", "ids"},
		{"empty", ""},
		{"empty segment", "/a//b"},
		{"trailing slash", "/a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.expr)
			if err == nil {
				t.Fatalf("ParsePath(%q) succeeded, want error", tt.expr)
			}
			if !errors.Is(err, ErrTemplateSyntax) {
				t.Errorf("ParsePath(%q) error = %v, want ErrTemplateSyntax", tt.expr, err)
			}
		})
	}
}

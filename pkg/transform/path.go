package transform

import (
	"fmt"
	"strings"
)

// Path is a parsed path expression: a "/"-delimited location in the source
// document. Paths are immutable once parsed.
type Path struct {
	expr     string
	segments []string
}

// ParsePath parses a path expression. The expression must begin with "/";
// "/" alone denotes the source root.
func ParsePath(expr string) (Path, error) {
	if !strings.HasPrefix(expr, "/") {
		return Path{}, fmt.Errorf("%w: path expression %q must begin with '/'", ErrTemplateSyntax, expr)
	}

	// "/" denotes the root: no segments to apply.
	if expr == "/" {
		return Path{expr: expr}, nil
	}

	segments := strings.Split(expr[1:], "/")
	for _, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("%w: path expression %q contains an empty segment", ErrTemplateSyntax, expr)
		}
	}

	return Path{expr: expr, segments: segments}, nil
}

// String returns the original expression.
func (p Path) String() string {
	return p.expr
}

// Segments returns the path segments in order. The returned slice must not
// be modified.
func (p Path) Segments() []string {
	return p.segments
}

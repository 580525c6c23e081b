package template

import (
	"fmt"
	"strings"
)

// spreadMarker prefixes a key whose resolved sequence feeds the enclosing
// array conversion, e.g. "...item_ids".
const spreadMarker = "..."

// KeyDecoration is the parsed form of a template object key: the
// decoration-free name plus the flags encoded by the raw key.
type KeyDecoration struct {
	// Name is the key with all decoration characters stripped. This is the
	// key that appears in the output document.
	Name string

	// ArrayConversion is set for keys wrapped as "[name]": the object value
	// becomes an array of sibling objects in the output.
	ArrayConversion bool

	// Spread is set for keys prefixed "...name": the entry contributes a
	// sequence to the nearest enclosing array conversion.
	Spread bool
}

// ParseKey parses a raw template key into its decoration. It returns an
// error for malformed decorations: unterminated brackets, empty names, or a
// key carrying both markers at once.
func ParseKey(raw string) (KeyDecoration, error) {
	dec := KeyDecoration{Name: raw}

	hasOpen := strings.HasPrefix(raw, "[")
	hasClose := strings.HasSuffix(raw, "]")
	if hasOpen != hasClose {
		return KeyDecoration{}, fmt.Errorf("unterminated array conversion marker in key %q (expected \"[name]\")", raw)
	}
	if hasOpen {
		dec.ArrayConversion = true
		dec.Name = raw[1 : len(raw)-1]
	}

	if strings.HasPrefix(dec.Name, spreadMarker) {
		dec.Spread = true
		dec.Name = strings.TrimPrefix(dec.Name, spreadMarker)
	}

	if dec.ArrayConversion && dec.Spread {
		return KeyDecoration{}, fmt.Errorf("key %q cannot carry both an array conversion and a spread marker", raw)
	}
	if (dec.ArrayConversion || dec.Spread) && dec.Name == "" {
		return KeyDecoration{}, fmt.Errorf("decorated key %q has an empty name", raw)
	}

	return dec, nil
}

// LeafKind classifies a template leaf string.
type LeafKind int

const (
	// LeafVerbatim is a plain string copied to the output unchanged.
	LeafVerbatim LeafKind = iota
	// LeafLiteral is a quoted literal ('text'): the inner text is emitted
	// verbatim and never resolved, even if it begins with "/".
	LeafLiteral
	// LeafPath is a path expression resolved against the source document.
	LeafPath
)

// ParseLeaf classifies a template leaf string and returns its payload: the
// inner text for literals, the path expression for paths, and the string
// itself for verbatim leaves.
func ParseLeaf(s string) (LeafKind, string) {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return LeafLiteral, s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "/") {
		return LeafPath, s
	}
	return LeafVerbatim, s
}

package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a document serialization format.
type Format string

const (
	// FormatJSON is JSON (with comments and trailing commas tolerated on
	// input).
	FormatJSON Format = "json"
	// FormatYAML is YAML 1.2.
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. Empty input is an error; callers decide
// their own default.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown document format %q (want json or yaml)", s)
	}
}

// DetectFormat guesses the format from a file extension, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses data in the given format into a Value.
func Decode(data []byte, f Format) (Value, error) {
	switch f {
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// Encode serializes a Value in the given format. pretty applies to JSON
// only; YAML output is always indented.
func Encode(v Value, f Format, pretty bool) ([]byte, error) {
	switch f {
	case FormatYAML:
		return EncodeYAML(v)
	default:
		return EncodeJSON(v, pretty)
	}
}

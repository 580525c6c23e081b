// Package document provides the generic tree value used throughout Saturn.
//
// # Overview
//
// Source documents, templates, and transformation results are all represented
// by the same tagged Value type: null, boolean, number, string, sequence, or
// mapping. Mappings preserve insertion order and key uniqueness, which the
// transformation engine relies on when reconstructing output documents.
//
// The package also provides the document-format codecs:
//   - JSON (order-preserving, tolerant of JSONC comments and trailing commas
//     on input)
//   - YAML (order-preserving, via gopkg.in/yaml.v3 nodes)
//
// The engine in pkg/transform is format-agnostic: it consumes and produces
// Value trees and never touches bytes.
//
// # Usage
//
//	src, err := document.DecodeJSON(data)
//	if err != nil { ... }
//	out, err := transform.Transform(src, tmpl, nil)
//	if err != nil { ... }
//	data, err = document.EncodeJSON(out, true)
//
// Values are immutable by convention: codecs and the engine never modify a
// Value after constructing it, so trees can be shared freely across
// goroutines.
package document

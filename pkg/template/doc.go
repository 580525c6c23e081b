// Package template provides parsing and validation of reshaping templates.
//
// # Overview
//
// A template is an ordinary document (pkg/document Value) whose keys and leaf
// strings carry an embedded micro-syntax:
//
//	"/a/b/c"     leaf value: path expression resolved against the source
//	"'text'"     leaf value: literal, emitted verbatim without resolution
//	"[name]"     object key: convert this object into an array of siblings
//	"...name"    object key: spread entry feeding the enclosing conversion
//
// ParseKey and ParseLeaf turn a raw key or leaf string into its structured
// decoration exactly once per visit; the engine in pkg/transform never
// re-inspects raw marker characters.
//
// # Validation
//
// Validate walks a template and accumulates every authoring error it can
// detect statically: malformed decorations, conversion markers on non-object
// values, conversions without a spread descendant, and spread entries outside
// any conversion. Errors carry the template path of the offending entry and,
// where possible, a suggested fix. This backs the "saturn lint" command.
package template

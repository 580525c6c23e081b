// Package transform implements the document reshaping engine.
//
// # Overview
//
// Transform renders a template document against a source document. The
// template declares the structure of the output; its leaf strings are path
// expressions ("/order/id") resolved against the source, quoted literals
// ("'text'") emitted verbatim, or plain values copied unchanged. Object keys
// may carry two decorations: "[name]" converts the object into an array of
// sibling objects, and "...name" marks an entry as a spread sequence feeding
// the nearest enclosing conversion.
//
// Path resolution fans out across sequences: resolving
// "/order/shipments/items/quantity" visits every shipment and every item and
// concatenates the quantities into one flat sequence in document order.
//
// The engine is a pure function of its inputs: it never mutates the source
// or template, holds no state across calls, and returns synchronously. A
// configurable depth limit guards against pathologically nested templates.
//
// # Usage
//
//	out, err := transform.Transform(source, tmpl, nil)
//	if err != nil {
//		var perr *transform.PathError
//		if errors.As(err, &perr) { ... }
//	}
//
// Options control the recursion limit and the missing-field policy; by
// default an unresolvable path aborts the whole transformation.
package transform

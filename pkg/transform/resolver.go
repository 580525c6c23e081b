package transform

import (
	"mercator-hq/saturn/pkg/document"
)

// ResolvedSet is the result of resolving a path expression: either a single
// value, or a flat sequence of values produced by fanning out across one or
// more source sequences.
type ResolvedSet struct {
	flat  bool
	value document.Value
	items []document.Value
}

// IsFlat reports whether resolution fanned out across a sequence.
func (r ResolvedSet) IsFlat() bool { return r.flat }

// Value returns the single resolved value. Valid only when !IsFlat().
func (r ResolvedSet) Value() document.Value { return r.value }

// Items returns the flattened results in document order. Valid only when
// IsFlat().
func (r ResolvedSet) Items() []document.Value { return r.items }

// AsValue converts the set into an output value: the scalar itself, or a
// sequence holding the flattened results.
func (r ResolvedSet) AsValue() document.Value {
	if r.flat {
		return document.Sequence(r.items...)
	}
	return r.value
}

// Sequence extracts the set as a sequence, reporting whether it is one: a
// flat result, or a single value that is itself a sequence. The array
// converter uses this to validate spread entries.
func (r ResolvedSet) Sequence() ([]document.Value, bool) {
	if r.flat {
		return r.items, true
	}
	if r.value.Kind == document.KindSequence {
		return r.value.Items(), true
	}
	return nil, false
}

// Resolve evaluates a path expression against the source document.
//
// Resolution descends segment by segment. A mapping consumes one segment by
// key lookup; a missing key is a PathError wrapping ErrMissingField, except
// inside a sequence fan-out, where it contributes nothing. A sequence with
// segments remaining applies the remaining path to every element and
// concatenates the results in element order, flattening nested sequences
// repeatedly. A path that ends exactly on a sequence returns that sequence
// unchanged.
func Resolve(source document.Value, path Path) (ResolvedSet, error) {
	return resolveSegments(source, path, path.Segments(), false)
}

func resolveSegments(node document.Value, path Path, segments []string, fanout bool) (ResolvedSet, error) {
	if len(segments) == 0 {
		return ResolvedSet{value: node}, nil
	}

	switch node.Kind {
	case document.KindMapping:
		child, ok := node.Get(segments[0])
		if !ok {
			if fanout {
				// Absent under fan-out: this branch contributes nothing.
				return ResolvedSet{flat: true}, nil
			}
			return ResolvedSet{}, &PathError{Expr: path.String(), Segment: segments[0], Err: ErrMissingField}
		}
		return resolveSegments(child, path, segments[1:], fanout)

	case document.KindSequence:
		// Fan out: the remaining path applies to every element, results
		// concatenate depth-first into one flat sequence.
		var items []document.Value
		for _, elem := range node.Items() {
			res, err := resolveSegments(elem, path, segments, true)
			if err != nil {
				return ResolvedSet{}, err
			}
			items = append(items, flattenBranch(res)...)
		}
		return ResolvedSet{flat: true, items: items}, nil

	default:
		// A scalar reached with segments remaining terminates the branch
		// with the scalar itself.
		return ResolvedSet{value: node}, nil
	}
}

// flattenBranch converts one fan-out branch result into the elements it
// contributes: a flat result contributes all its items, a branch ending on a
// sequence contributes that sequence's elements, and any other single value
// contributes itself.
func flattenBranch(res ResolvedSet) []document.Value {
	if res.flat {
		return res.items
	}
	if res.value.Kind == document.KindSequence {
		return res.value.Items()
	}
	return []document.Value{res.value}
}

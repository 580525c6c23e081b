package transform

// MissingFieldPolicy controls what happens when a path expression names an
// absent mapping key outside any flattening fan-out.
type MissingFieldPolicy string

const (
	// MissingFieldFail aborts the transformation with a PathError. This is
	// the default: absence is never silently corrected.
	MissingFieldFail MissingFieldPolicy = "fail"

	// MissingFieldNull emits null for the unresolvable leaf instead of
	// failing. This applies to plain leaf resolution only; spread entries
	// inside an array conversion always fail hard, since a missing spread
	// sequence has no meaningful null substitute.
	MissingFieldNull MissingFieldPolicy = "null"
)

// DefaultMaxDepth bounds template recursion when Options.MaxDepth is unset.
// Template nesting depth is author-controlled input, so the engine never
// relies on unbounded native recursion.
const DefaultMaxDepth = 256

// Options configures a transformation. The zero value (and nil) select the
// defaults: fail on missing fields, DefaultMaxDepth recursion limit.
type Options struct {
	// MaxDepth is the maximum template nesting depth. Zero selects
	// DefaultMaxDepth.
	MaxDepth int

	// OnMissingField selects the missing-field policy. Empty selects
	// MissingFieldFail.
	OnMissingField MissingFieldPolicy
}

// withDefaults resolves unset fields to their defaults.
func (o *Options) withDefaults() Options {
	out := Options{MaxDepth: DefaultMaxDepth, OnMissingField: MissingFieldFail}
	if o == nil {
		return out
	}
	if o.MaxDepth > 0 {
		out.MaxDepth = o.MaxDepth
	}
	if o.OnMissingField != "" {
		out.OnMissingField = o.OnMissingField
	}
	return out
}

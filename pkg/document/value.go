package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindNull is the null value.
	KindNull Kind = iota
	// KindBool is a boolean value.
	KindBool
	// KindNumber is a numeric value, stored as its source text.
	KindNumber
	// KindString is a string value.
	KindString
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is an ordered list of key/value entries with unique keys.
	KindMapping
)

// String returns the kind name as it appears in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a tagged generic tree value. Exactly one of the payload fields is
// meaningful, selected by Kind. The zero Value is null.
//
// Numbers keep their source text so that values round-trip verbatim: the
// engine copies scalars without coercion, and "4" must not become "4.0" on
// the way through.
type Value struct {
	Kind Kind

	boolVal bool
	numVal  string
	strVal  string
	seqVal  []Value
	mapVal  []Entry
}

// Entry is a single key/value pair of a mapping.
type Entry struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, boolVal: b}
}

// Number returns a numeric value from its source text. The text is assumed
// to be a valid JSON/YAML number; codecs validate before calling this.
func Number(text string) Value {
	return Value{Kind: KindNumber, numVal: text}
}

// Int returns a numeric value from an integer.
func Int(i int64) Value {
	return Number(strconv.FormatInt(i, 10))
}

// Float returns a numeric value from a float.
func Float(f float64) Value {
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: KindString, strVal: s}
}

// Sequence returns a sequence value holding the given items.
func Sequence(items ...Value) Value {
	return Value{Kind: KindSequence, seqVal: items}
}

// Mapping returns a mapping value holding the given entries in order.
// Key uniqueness is the caller's responsibility; codecs reject duplicates.
func Mapping(entries ...Entry) Value {
	return Value{Kind: KindMapping, mapVal: entries}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// BoolValue returns the boolean payload. Valid only for KindBool.
func (v Value) BoolValue() bool { return v.boolVal }

// NumberText returns the numeric payload as source text. Valid only for
// KindNumber.
func (v Value) NumberText() string { return v.numVal }

// StringValue returns the string payload. Valid only for KindString.
func (v Value) StringValue() string { return v.strVal }

// Items returns the elements of a sequence. Valid only for KindSequence.
// The returned slice must not be modified.
func (v Value) Items() []Value { return v.seqVal }

// Len returns the number of elements or entries for sequences and mappings,
// and 0 for scalars.
func (v Value) Len() int {
	switch v.Kind {
	case KindSequence:
		return len(v.seqVal)
	case KindMapping:
		return len(v.mapVal)
	default:
		return 0
	}
}

// Entries returns the entries of a mapping in declaration order. Valid only
// for KindMapping. The returned slice must not be modified.
func (v Value) Entries() []Entry { return v.mapVal }

// Get looks up a mapping key and reports whether it was present.
func (v Value) Get(key string) (Value, bool) {
	for _, e := range v.mapVal {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal reports deep equality of two values. Mapping entries must match in
// order as well as content; numbers compare by source text.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.numVal == other.numVal
	case KindString:
		return v.strVal == other.strVal
	case KindSequence:
		if len(v.seqVal) != len(other.seqVal) {
			return false
		}
		for i := range v.seqVal {
			if !v.seqVal[i].Equal(other.seqVal[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.mapVal) != len(other.mapVal) {
			return false
		}
		for i := range v.mapVal {
			if v.mapVal[i].Key != other.mapVal[i].Key {
				return false
			}
			if !v.mapVal[i].Value.Equal(other.mapVal[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns a compact JSON-like rendering for debugging and error
// messages. It is not a serialization; use EncodeJSON for that.
func (v Value) String() string {
	var sb strings.Builder
	v.debugString(&sb)
	return sb.String()
}

func (v Value) debugString(sb *strings.Builder) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.boolVal))
	case KindNumber:
		sb.WriteString(v.numVal)
	case KindString:
		sb.WriteString(strconv.Quote(v.strVal))
	case KindSequence:
		sb.WriteByte('[')
		for i, item := range v.seqVal {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.debugString(sb)
		}
		sb.WriteByte(']')
	case KindMapping:
		sb.WriteByte('{')
		for i, e := range v.mapVal {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteByte(':')
			e.Value.debugString(sb)
		}
		sb.WriteByte('}')
	}
}

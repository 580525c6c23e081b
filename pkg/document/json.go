package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// DecodeJSON parses a JSON document into a Value, preserving mapping key
// order. Input may contain JSONC extensions (// and /* */ comments, trailing
// commas); they are stripped before parsing. Duplicate mapping keys are
// rejected.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	// Reject trailing content after the first document.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("failed to parse JSON document: unexpected content after top-level value")
	}

	return v, nil
}

// decodeJSONValue reads one complete value from the token stream.
func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (Value, error) {
	var entries []Entry
	seen := make(map[string]struct{})

	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return Mapping(entries...), nil
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected object key token %v", tok)
		}
		if _, dup := seen[key]; dup {
			return Value{}, fmt.Errorf("duplicate object key %q", key)
		}
		seen[key] = struct{}{}

		val, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}
}

func decodeJSONArray(dec *json.Decoder) (Value, error) {
	var items []Value

	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Sequence(items...), nil
		}

		val, err := decodeJSONToken(dec, tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, val)
	}
}

// EncodeJSON serializes a Value as JSON, preserving mapping key order.
// When pretty is true the output is indented with two spaces.
func EncodeJSON(v Value, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSONValue(&buf, v, pretty, 0); err != nil {
		return nil, fmt.Errorf("failed to encode JSON document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeJSONValue(buf *bytes.Buffer, v Value, pretty bool, depth int) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.BoolValue() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.NumberText())
	case KindString:
		return encodeJSONString(buf, v.StringValue())
	case KindSequence:
		items := v.Items()
		if len(items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONIndent(buf, pretty, depth+1)
			if err := encodeJSONValue(buf, item, pretty, depth+1); err != nil {
				return err
			}
		}
		writeJSONIndent(buf, pretty, depth)
		buf.WriteByte(']')
	case KindMapping:
		entries := v.Entries()
		if len(entries) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONIndent(buf, pretty, depth+1)
			if err := encodeJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			if err := encodeJSONValue(buf, e.Value, pretty, depth+1); err != nil {
				return err
			}
		}
		writeJSONIndent(buf, pretty, depth)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %v", v.Kind)
	}
	return nil
}

func encodeJSONString(buf *bytes.Buffer, s string) error {
	escaped, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(escaped)
	return nil
}

func writeJSONIndent(buf *bytes.Buffer, pretty bool, depth int) {
	if !pretty {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

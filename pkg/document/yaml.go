package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML document into a Value, preserving mapping key
// order. Only string keys are supported; duplicate keys are rejected.
func DecodeYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, fmt.Errorf("failed to parse YAML document: %w", err)
	}

	// An empty input produces a zero node; treat it as null.
	if root.Kind == 0 {
		return Null(), nil
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Null(), nil
		}
		node = node.Content[0]
	}

	v, err := decodeYAMLNode(node)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse YAML document: %w", err)
	}
	return v, nil
}

func decodeYAMLNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)

	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return Value{}, fmt.Errorf("line %d: invalid boolean %q", node.Line, node.Value)
			}
			return Bool(b), nil
		case "!!int", "!!float":
			return Number(node.Value), nil
		default:
			// Strings and any other scalar tags (timestamps, binary) pass
			// through as their source text.
			return String(node.Value), nil
		}

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := decodeYAMLNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Sequence(items...), nil

	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		seen := make(map[string]struct{})
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			key := keyNode.Value
			if _, dup := seen[key]; dup {
				return Value{}, fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key)
			}
			seen[key] = struct{}{}

			v, err := decodeYAMLNode(valNode)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: key, Value: v})
		}
		return Mapping(entries...), nil

	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

// EncodeYAML serializes a Value as YAML, preserving mapping key order.
func EncodeYAML(v Value) ([]byte, error) {
	node := encodeYAMLNode(v)
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML document: %w", err)
	}
	return data, nil
}

func encodeYAMLNode(v Value) *yaml.Node {
	switch v.Kind {
	case KindBool:
		val := "false"
		if v.BoolValue() {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}

	case KindNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.NumberText()}

	case KindString:
		// The explicit tag makes the encoder quote strings that would
		// otherwise parse as numbers or booleans.
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.StringValue()}

	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.Items() {
			node.Content = append(node.Content, encodeYAMLNode(item))
		}
		return node

	case KindMapping:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range v.Entries() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				encodeYAMLNode(e.Value),
			)
		}
		return node

	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"go.yaml.in/yaml/v4"
)

// marshalNodeAsJSON writes data as compact JSON, taking object key order
// from the matching node of the source tree.
func marshalNodeAsJSON(buf *bytes.Buffer, node *yaml.Node, data any) error {
	if node == nil {
		return writeValue(buf, data)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			return marshalNodeAsJSON(buf, node.Content[0], data)
		}
		return writeValue(buf, data)

	case yaml.MappingNode:
		m, ok := data.(map[string]any)
		if !ok {
			return writeValue(buf, data)
		}
		return writeObject(buf, node, m)

	case yaml.SequenceNode:
		items, ok := data.([]any)
		if !ok {
			return writeValue(buf, data)
		}
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			var child *yaml.Node
			if i < len(node.Content) {
				child = node.Content[i]
			}
			if err := marshalNodeAsJSON(buf, child, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		return writeValue(buf, data)
	}
}

// writeObject writes m with keys in source order followed by any keys the
// source did not have, sorted. node may be nil.
func writeObject(buf *bytes.Buffer, node *yaml.Node, m map[string]any) error {
	dataKeys := make([]string, 0, len(m))
	for k := range m {
		dataKeys = append(dataKeys, k)
	}
	keyOrder := mergeKeyOrder(extractKeyOrder(node), dataKeys)
	idx := buildNodeIndex(node)

	buf.WriteByte('{')
	first := true
	for _, key := range keyOrder {
		val, exists := m[key]
		if !exists {
			continue // removed since parsing
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := writeScalar(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := marshalNodeAsJSON(buf, idx[key], val); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeValue writes v without source ordering. Objects are written with
// sorted keys, recursing so nested objects get the same treatment.
func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		return writeObject(buf, nil, val)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, val)
	}
}

// writeScalar encodes v without HTML escaping.
func writeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// extractKeyOrder returns the keys of a mapping node in source order,
// keeping only the first occurrence of a repeated key.
func extractKeyOrder(node *yaml.Node) []string {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	keys := make([]string, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Kind != yaml.ScalarNode || seen[k.Value] {
			continue
		}
		seen[k.Value] = true
		keys = append(keys, k.Value)
	}
	return keys
}

// nodeIndex maps object keys to their value nodes.
type nodeIndex map[string]*yaml.Node

func buildNodeIndex(node *yaml.Node) nodeIndex {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	idx := make(nodeIndex, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode {
			idx[node.Content[i].Value] = node.Content[i+1]
		}
	}
	return idx
}

// mergeKeyOrder returns sourceKeys followed by the data keys missing from
// the source, sorted for determinism.
func mergeKeyOrder(sourceKeys, dataKeys []string) []string {
	seenKeys := make(map[string]bool, len(sourceKeys))
	for _, k := range sourceKeys {
		seenKeys[k] = true
	}

	var extraKeys []string
	for _, k := range dataKeys {
		if !seenKeys[k] {
			extraKeys = append(extraKeys, k)
		}
	}
	slices.Sort(extraKeys)

	return append(slices.Clip(sourceKeys), extraKeys...)
}

// orderFromTokens builds a node tree carrying the key order of a JSON
// document from the encoding/json token stream. Scalars are left empty;
// values always come from the decoded data.
func orderFromTokens(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readTokenNode(dec)
	if err != nil {
		return nil, err
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}, nil
}

func readTokenNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return &yaml.Node{Kind: yaml.ScalarNode}, nil
	}

	var node *yaml.Node
	switch delim {
	case '{':
		node = &yaml.Node{Kind: yaml.MappingNode}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("fixture: object key is %T, not a string", keyTok)
			}
			value, err := readTokenNode(dec)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
		}
	case '[':
		node = &yaml.Node{Kind: yaml.SequenceNode}
		for dec.More() {
			item, err := readTokenNode(dec)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, item)
		}
	default:
		return nil, fmt.Errorf("fixture: unexpected delimiter %q", delim)
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

package value

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Map is an insertion-ordered string-keyed mapping.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty mapping.
func NewMap() *Map {
	return &Map{vals: map[string]Value{}}
}

// MapOf builds a mapping from alternating key/value pairs.
func MapOf(pairs ...any) *Map {
	m := NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(keyString(pairs[i]), pairs[i+1])
	}
	return m
}

// Set stores v under k. Existing keys keep their position.
func (m *Map) Set(k string, v Value) {
	if m.vals == nil {
		m.vals = map[string]Value{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value stored under k.
func (m *Map) Get(k string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Lookup returns the value stored under k, or Undefined when absent.
func (m *Map) Lookup(k string) Value {
	if v, ok := m.Get(k); ok {
		return v
	}
	return Undefined
}

// Delete removes k.
func (m *Map) Delete(k string) {
	if _, ok := m.vals[k]; !ok {
		return
	}
	delete(m.vals, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every entry in order.
func (m *Map) Each(fn func(k string, v Value)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.vals[k])
	}
}

// Reorder moves the named keys to the front, in the given order. Keys not
// present are ignored and the remaining keys keep their relative order.
func (m *Map) Reorder(first ...string) {
	if m == nil {
		return
	}
	seen := make(map[string]bool, len(first))
	keys := make([]string, 0, len(m.keys))
	for _, k := range first {
		if _, ok := m.vals[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for _, k := range m.keys {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	m.keys = keys
}

// MarshalJSON writes entries in order. Undefined entries are omitted.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range m.keys {
		v := m.vals[k]
		if IsUndefined(v) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalNoEscape(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML produces an ordered mapping node.
func (m *Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		v := m.vals[k]
		if IsUndefined(v) {
			continue
		}
		var child yaml.Node
		if err := child.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&child,
		)
	}
	return node, nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndentJSON renders v as indented JSON without HTML escaping.
func MarshalIndentJSON(v Value, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Package ordered provides an insertion-ordered string-keyed map.
//
// Spreadsheet rows are stored as a Map so that the column order of the
// uploaded file survives storage and is reproduced when the row is rendered
// back to a client. The JSON form is a plain object whose keys appear in
// insertion order.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is a single key/value pair of a Map.
type Entry[V any] struct {
	Key   string
	Value V
}

// Map is a string-keyed map that remembers insertion order.
// The zero value is ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty Map with room for n entries.
func New[V any](n int) *Map[V] {
	return &Map[V]{
		keys:   make([]string, 0, n),
		values: make(map[string]V, n),
	}
}

// SetIfAbsent stores value under key unless key is already present.
// Returns true if the value was stored.
func (m *Map[V]) SetIfAbsent(key string, value V) bool {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, exists := m.values[key]; exists {
		return false
	}
	m.keys = append(m.keys, key)
	m.values[key] = value
	return true
}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (m *Map[V]) Set(key string, value V) {
	if !m.SetIfAbsent(key, value) {
		m.values[key] = value
	}
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns all entries in insertion order.
func (m *Map[V]) Entries() []Entry[V] {
	out := make([]Entry[V], len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry[V]{Key: k, Value: m.values[k]}
	}
	return out
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
// Repeated keys keep the first value, matching SetIfAbsent.
func (m *Map[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ordered map: expected JSON object, got %v", tok)
	}

	m.keys = m.keys[:0]
	m.values = make(map[string]V)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ordered map: expected string key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode value for %q: %w", key, err)
		}
		var v V
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode value for %q: %w", key, err)
		}
		m.SetIfAbsent(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

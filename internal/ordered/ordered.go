// Package ordered decodes JSON and YAML documents into generic values while
// keeping the key order of every object. Result archives and report settings
// are order sensitive: row order, column discovery and model indices all follow
// the order in which keys appear in the source file.
package ordered

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNotFound is returned by Lookup when a path segment is absent or null.
var ErrNotFound = errors.New("key not found")

// Map is an insertion-ordered string-keyed mapping. Objects decoded by this
// package are always *Map; arrays are []any and numbers are int64 or float64.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores v under key. Overwriting an existing key keeps its position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key and returns the value it held.
func (m *Map) Delete(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key order.
func (m *Map) Values() []any {
	if m == nil {
		return nil
	}
	out := make([]any, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Lookup walks nested maps along path. A missing key, a null value or a
// non-map intermediate yields an error wrapping ErrNotFound that names the
// path walked so far.
func (m *Map) Lookup(path ...string) (any, error) {
	var cur any = m
	for i, key := range path {
		node, ok := cur.(*Map)
		if !ok || node == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(path[:i+1], "."))
		}
		v, ok := node.Get(key)
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(path[:i+1], "."))
		}
		cur = v
	}
	return cur, nil
}

// LookupMap is Lookup restricted to results that are themselves maps.
func (m *Map) LookupMap(path ...string) (*Map, error) {
	v, err := m.Lookup(path...)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not an object", ErrNotFound, strings.Join(path, "."), v)
	}
	return sub, nil
}

// Plain converts the map, recursively, into map[string]any and []any values
// for consumers that do not care about order (schema validation, mapstructure).
func (m *Map) Plain() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = PlainValue(m.values[k])
	}
	return out
}

// PlainValue is the element-wise form of Map.Plain.
func PlainValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Plain()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = PlainValue(e)
		}
		return out
	default:
		return v
	}
}

// Number reports the numeric value of v when v holds a decoded number.
// Strings, booleans and null are not numbers here.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return math.NaN(), false
	}
}

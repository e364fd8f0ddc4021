package schema

import (
	"slices"
)

// Schema is one JSON object in a schema document.
type Schema struct {
	keys   []string
	values map[string]any
	parent *Schema
	linked bool
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{values: make(map[string]any)}
}

// FromPairs builds a schema from alternating keys and values, preserving
// the given order. It panics on a non-string key.
//
//	schema.FromPairs("type", "string", "minLength", 1.0)
func FromPairs(kv ...any) *Schema {
	s := New()
	for i := 0; i+1 < len(kv); i += 2 {
		s.Set(kv[i].(string), kv[i+1])
	}
	return s
}

// Get returns the value stored under key.
func (s *Schema) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Value returns the value stored under key, or nil.
func (s *Schema) Value(key string) any {
	v, _ := s.Get(key)
	return v
}

// Has reports whether key is present, even with a null value.
func (s *Schema) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores v under key. An existing key keeps its position.
func (s *Schema) Set(key string, v any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Delete removes key.
func (s *Schema) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	if i := slices.Index(s.keys, key); i >= 0 {
		s.keys = slices.Delete(s.keys, i, i+1)
	}
}

// Keys returns the keywords in insertion order.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

// Len returns the number of keywords.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Parent returns the node this one was linked under, or nil for the root
// and for unlinked nodes.
func (s *Schema) Parent() *Schema {
	return s.parent
}

// Linked reports whether the linker already visited s.
func (s *Schema) Linked() bool {
	return s.linked
}

// Link records p as the parent of s. Only the first call has any effect.
func (s *Schema) Link(p *Schema) {
	if s.linked {
		return
	}
	s.parent = p
	s.linked = true
}

// String returns the string under key.
func (s *Schema) String(key string) (string, bool) {
	v, ok := s.Value(key).(string)
	return v, ok
}

// Number returns the number under key.
func (s *Schema) Number(key string) (float64, bool) {
	v, ok := s.Value(key).(float64)
	return v, ok
}

// Bool returns the boolean under key.
func (s *Schema) Bool(key string) (bool, bool) {
	v, ok := s.Value(key).(bool)
	return v, ok
}

// Object returns the sub-schema under key.
func (s *Schema) Object(key string) (*Schema, bool) {
	v, ok := s.Value(key).(*Schema)
	return v, ok && v != nil
}

// Array returns the array under key.
func (s *Schema) Array(key string) ([]any, bool) {
	v, ok := s.Value(key).([]any)
	return v, ok
}

// Root follows parent links to the top of the document.
func (s *Schema) Root() *Schema {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Clone returns a shallow copy of s: same keys in the same order, same
// values, same parent. Arrays are copied so the clone can be edited
// without touching s.
func (s *Schema) Clone() *Schema {
	c := &Schema{
		keys:   slices.Clone(s.keys),
		values: make(map[string]any, len(s.values)),
		parent: s.parent,
		linked: s.linked,
	}
	for k, v := range s.values {
		if arr, ok := v.([]any); ok {
			v = slices.Clone(arr)
		}
		c.values[k] = v
	}
	return c
}

// DeepClone copies a schema value recursively. Shared nodes stay shared
// and cycles are reproduced, so the copy has the same shape as v. Parent
// links are not copied.
func DeepClone(v any) any {
	return deepClone(v, make(map[*Schema]*Schema))
}

func deepClone(v any, seen map[*Schema]*Schema) any {
	switch x := v.(type) {
	case *Schema:
		if x == nil {
			return x
		}
		if c, ok := seen[x]; ok {
			return c
		}
		c := &Schema{
			keys:   slices.Clone(x.keys),
			values: make(map[string]any, len(x.values)),
		}
		seen[x] = c
		for k, child := range x.values {
			c.values[k] = deepClone(child, seen)
		}
		return c
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = deepClone(item, seen)
		}
		return out
	default:
		return v
	}
}

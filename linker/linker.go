// Package linker attaches parent links to a resolved schema tree.
//
// After linking, every schema node reachable from the root knows the node
// it hangs under, which lets later stages walk upward (for example to find
// the root's $defs). Array elements link to the node that owns the array.
// Linking is idempotent: a node already linked keeps its first parent,
// which is what keeps shared and cyclic nodes from being re-parented.
package linker

import (
	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/schema"
)

// Link sets parent links for root and everything below it and returns the
// number of nodes linked by this call.
func Link(root *schema.Schema, logger json2ts.Logger) int {
	if root == nil {
		return 0
	}
	n := link(root, nil)
	json2ts.OrNop(logger).Debug("linked schema", "nodes", n)
	return n
}

func link(s, parent *schema.Schema) int {
	if s.Linked() {
		return 0
	}
	s.Link(parent)
	n := 1
	for _, k := range s.Keys() {
		n += linkValue(s.Value(k), s)
	}
	return n
}

func linkValue(v any, owner *schema.Schema) int {
	switch x := v.(type) {
	case *schema.Schema:
		if x == nil {
			return 0
		}
		return link(x, owner)
	case []any:
		n := 0
		for _, item := range x {
			n += linkValue(item, owner)
		}
		return n
	}
	return 0
}

// nonSchemaKeys are keywords whose object value is a container or data,
// never a schema in its own right.
var nonSchemaKeys = []string{
	"$defs", "allOf", "anyOf", "definitions", "dependencies", "enum",
	"not", "oneOf", "patternProperties", "properties", "required",
}

// IsSchemaLike reports whether s is a schema rather than a keyword
// container: the properties map itself, for instance, is not a schema even
// though it is a JSON object. The root always counts.
func IsSchemaLike(s *schema.Schema) bool {
	parent := s.Parent()
	if parent == nil {
		return true
	}
	for _, k := range nonSchemaKeys {
		if v, ok := parent.Object(k); ok && v == s {
			return false
		}
	}
	return true
}

package walker

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/erraggy/json2ts/internal/pathutil"
	"github.com/erraggy/json2ts/schema"
)

// Action controls the walker's behavior after visiting a node.
type Action int

const (
	// Continue continues walking normally, visiting children and siblings.
	Continue Action = iota

	// SkipChildren skips all children of the current node but continues with siblings.
	SkipChildren

	// Stop stops the walk immediately. No more nodes will be visited.
	Stop
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case SkipChildren:
		return "SkipChildren"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// WalkContext describes where the current node sits in the document.
type WalkContext struct {
	// JSONPath is the pointer to the node from the root, e.g. "#/properties/name".
	JSONPath string

	// Key is the name the node was reached under: a property or definition
	// name, an array index, or "" for the root and single-schema keywords
	// such as "not" and "additionalProperties".
	Key string

	// Depth is 0 for the root.
	Depth int
}

// SchemaHandler is called once for every schema node.
type SchemaHandler func(wc *WalkContext, s *schema.Schema) Action

// SchemaSkippedHandler is called when a node is reached again through a
// different path.
type SchemaSkippedHandler func(s *schema.Schema, path string)

// Option configures a walk.
type Option func(*Walker)

// WithSchemaSkippedHandler sets the handler called for already-visited nodes.
func WithSchemaSkippedHandler(fn SchemaSkippedHandler) Option {
	return func(w *Walker) { w.onSchemaSkipped = fn }
}

// Walker holds the state of a single traversal.
type Walker struct {
	onSchema        SchemaHandler
	onSchemaSkipped SchemaSkippedHandler

	path    *pathutil.PathBuilder
	visited map[*schema.Schema]bool
	stopped bool
}

// nonContainerKeys are keywords the generic pass must not look inside:
// either the typed pass already handled them or their values are data.
var nonContainerKeys = map[string]bool{
	"id": true, "$defs": true, "$id": true, "$schema": true,
	"title": true, "description": true, "default": true, "examples": true, "const": true,
	"multipleOf": true, "maximum": true, "exclusiveMaximum": true,
	"minimum": true, "exclusiveMinimum": true, "maxLength": true, "minLength": true,
	"pattern": true, "additionalItems": true, "items": true,
	"maxItems": true, "minItems": true, "uniqueItems": true,
	"maxProperties": true, "minProperties": true, "required": true,
	"additionalProperties": true, "definitions": true, "properties": true,
	"patternProperties": true, "dependencies": true, "enum": true, "type": true,
	"allOf": true, "anyOf": true, "oneOf": true, "not": true,
}

// Walk visits root and every sub-schema reachable from it, calling fn
// before each node's children are read.
func Walk(root *schema.Schema, fn SchemaHandler, opts ...Option) error {
	if root == nil {
		return errors.New("walker: nil schema")
	}
	if fn == nil {
		return errors.New("walker: nil handler")
	}

	w := &Walker{
		onSchema: fn,
		path:     pathutil.Get(),
		visited:  make(map[*schema.Schema]bool),
	}
	defer pathutil.Put(w.path)
	for _, opt := range opts {
		opt(w)
	}

	w.walkSchema(root, "")
	return nil
}

func (w *Walker) walkSchema(s *schema.Schema, key string) {
	if w.stopped || s == nil {
		return
	}
	if w.visited[s] {
		if w.onSchemaSkipped != nil {
			w.onSchemaSkipped(s, w.path.String())
		}
		return
	}
	w.visited[s] = true

	wc := &WalkContext{
		JSONPath: w.path.String(),
		Key:      key,
		Depth:    w.path.Len(),
	}
	switch w.onSchema(wc, s) {
	case Stop:
		w.stopped = true
		return
	case SkipChildren:
		return
	}

	w.walkArray(s, "anyOf")
	w.walkArray(s, "allOf")
	w.walkArray(s, "oneOf")
	w.walkMembers(s, "properties")
	w.walkMembers(s, "patternProperties")
	w.walkSingle(s, "additionalProperties")
	if _, ok := s.Array("items"); ok {
		w.walkArray(s, "items")
	} else {
		w.walkSingle(s, "items")
	}
	w.walkSingle(s, "additionalItems")
	if _, ok := s.Array("dependencies"); ok {
		w.walkArray(s, "dependencies")
	} else {
		w.walkMembers(s, "dependencies")
	}
	w.walkMembers(s, "definitions")
	w.walkMembers(s, "$defs")
	w.walkSingle(s, "not")

	for _, k := range s.Keys() {
		if nonContainerKeys[k] {
			continue
		}
		switch s.Value(k).(type) {
		case *schema.Schema:
			w.walkMembers(s, k)
		case []any:
			w.walkArray(s, k)
		}
	}
}

// walkSingle descends into a keyword holding one schema.
func (w *Walker) walkSingle(s *schema.Schema, keyword string) {
	child, ok := s.Object(keyword)
	if !ok {
		return
	}
	w.path.Push(keyword)
	w.walkSchema(child, "")
	w.path.Pop()
}

// walkMembers descends into every schema-valued member of an object
// keyword such as properties or $defs.
func (w *Walker) walkMembers(s *schema.Schema, keyword string) {
	container, ok := s.Object(keyword)
	if !ok {
		return
	}
	w.path.Push(keyword)
	for _, name := range container.Keys() {
		if child, ok := container.Object(name); ok {
			w.path.Push(name)
			w.walkSchema(child, name)
			w.path.Pop()
		}
	}
	w.path.Pop()
}

// walkArray descends into every schema element of an array keyword.
func (w *Walker) walkArray(s *schema.Schema, keyword string) {
	arr, ok := s.Array(keyword)
	if !ok {
		return
	}
	w.path.Push(keyword)
	for i, item := range arr {
		if child, ok := item.(*schema.Schema); ok {
			w.path.PushIndex(i)
			w.walkSchema(child, strconv.Itoa(i))
			w.path.Pop()
		}
	}
	w.path.Pop()
}

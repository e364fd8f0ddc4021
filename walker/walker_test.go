package walker

import (
	"testing"

	"github.com/erraggy/json2ts/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.DecodeSchema([]byte(doc))
	require.NoError(t, err)
	return s
}

func collectPaths(t *testing.T, root *schema.Schema, opts ...Option) []string {
	t.Helper()
	var paths []string
	err := Walk(root, func(wc *WalkContext, _ *schema.Schema) Action {
		paths = append(paths, wc.JSONPath)
		return Continue
	}, opts...)
	require.NoError(t, err)
	return paths
}

func TestWalkOrder(t *testing.T) {
	root := mustDecode(t, `{
		"$defs": {"D": {"type": "string"}},
		"not": {"type": "null"},
		"properties": {"a": {"type": "string"}, "b": {"items": {"type": "number"}}},
		"anyOf": [{"type": "string"}, true],
		"additionalProperties": {"type": "boolean"},
		"items": [{"type": "string"}]
	}`)

	assert.Equal(t, []string{
		"#",
		"#/anyOf/0",
		"#/properties/a",
		"#/properties/b",
		"#/properties/b/items",
		"#/additionalProperties",
		"#/items/0",
		"#/$defs/D",
		"#/not",
	}, collectPaths(t, root))
}

func TestWalkUnknownKeywords(t *testing.T) {
	root := mustDecode(t, `{
		"x-models": {"Pet": {"type": "object"}},
		"x-list": [{"type": "string"}, "literal"],
		"default": {"notASchema": {"type": "string"}},
		"examples": [{"type": "string"}],
		"title": "T"
	}`)

	assert.Equal(t, []string{"#", "#/x-models/Pet", "#/x-list/0"}, collectPaths(t, root))
}

func TestWalkKeys(t *testing.T) {
	root := mustDecode(t, `{"properties": {"name": {"type": "string"}}, "oneOf": [{}], "not": {}}`)

	var keys []string
	require.NoError(t, Walk(root, func(wc *WalkContext, _ *schema.Schema) Action {
		keys = append(keys, wc.Key)
		return Continue
	}))
	assert.Equal(t, []string{"", "0", "name", ""}, keys)
}

func TestWalkCycles(t *testing.T) {
	root := schema.New()
	props := schema.New()
	root.Set("properties", props)
	props.Set("self", root)
	props.Set("again", root)

	var skipped []string
	paths := collectPaths(t, root, WithSchemaSkippedHandler(func(_ *schema.Schema, path string) {
		skipped = append(skipped, path)
	}))
	assert.Equal(t, []string{"#"}, paths)
	assert.Equal(t, []string{"#/properties/self", "#/properties/again"}, skipped)
}

func TestWalkActions(t *testing.T) {
	root := mustDecode(t, `{"properties": {"a": {"properties": {"deep": {}}}, "b": {}}}`)

	t.Run("SkipChildren", func(t *testing.T) {
		var paths []string
		require.NoError(t, Walk(root, func(wc *WalkContext, _ *schema.Schema) Action {
			paths = append(paths, wc.JSONPath)
			if wc.Key == "a" {
				return SkipChildren
			}
			return Continue
		}))
		assert.Equal(t, []string{"#", "#/properties/a", "#/properties/b"}, paths)
	})

	t.Run("Stop", func(t *testing.T) {
		var paths []string
		require.NoError(t, Walk(root, func(wc *WalkContext, _ *schema.Schema) Action {
			paths = append(paths, wc.JSONPath)
			if wc.Depth == 2 {
				return Stop
			}
			return Continue
		}))
		assert.Equal(t, []string{"#", "#/properties/a"}, paths)
	})
}

func TestWalkMutationBeforeChildren(t *testing.T) {
	root := mustDecode(t, `{"definitions": {"A": {"type": "string"}}}`)

	paths := []string{}
	require.NoError(t, Walk(root, func(wc *WalkContext, s *schema.Schema) Action {
		paths = append(paths, wc.JSONPath)
		if defs, ok := s.Object("definitions"); ok {
			s.Delete("definitions")
			s.Set("$defs", defs)
		}
		return Continue
	}))
	assert.Equal(t, []string{"#", "#/$defs/A"}, paths)
}

func TestWalkErrors(t *testing.T) {
	assert.Error(t, Walk(nil, func(*WalkContext, *schema.Schema) Action { return Continue }))
	assert.Error(t, Walk(schema.New(), nil))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Continue", Continue.String())
	assert.Equal(t, "SkipChildren", SkipChildren.String())
	assert.Equal(t, "Stop", Stop.String())
	assert.Equal(t, "Action(9)", Action(9).String())
}

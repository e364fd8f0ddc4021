package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaOrderedKeys(t *testing.T) {
	s := FromPairs("type", "object", "title", "Pet", "required", []any{"name"})
	assert.Equal(t, []string{"type", "title", "required"}, s.Keys())
	assert.Equal(t, 3, s.Len())

	s.Set("title", "Dog")
	assert.Equal(t, []string{"type", "title", "required"}, s.Keys(), "re-set keeps position")

	s.Set("$id", "Dog")
	s.Delete("title")
	assert.Equal(t, []string{"type", "required", "$id"}, s.Keys())

	s.Delete("missing")
	assert.Equal(t, 3, s.Len())
}

func TestSchemaAccessors(t *testing.T) {
	child := FromPairs("type", "string")
	s := FromPairs(
		"title", "Pet",
		"maxItems", 3.0,
		"deprecated", true,
		"items", child,
		"enum", []any{"a", nil},
		"default", nil,
	)

	title, ok := s.String("title")
	assert.True(t, ok)
	assert.Equal(t, "Pet", title)

	n, ok := s.Number("maxItems")
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)

	b, ok := s.Bool("deprecated")
	assert.True(t, ok)
	assert.True(t, b)

	obj, ok := s.Object("items")
	assert.True(t, ok)
	assert.Same(t, child, obj)

	arr, ok := s.Array("enum")
	assert.True(t, ok)
	assert.Len(t, arr, 2)

	assert.True(t, s.Has("default"), "null value still counts as present")
	_, ok = s.String("maxItems")
	assert.False(t, ok)

	var nilSchema *Schema
	assert.False(t, nilSchema.Has("x"))
	assert.Equal(t, 0, nilSchema.Len())
}

func TestSchemaLink(t *testing.T) {
	root := New()
	mid := New()
	leaf := New()

	mid.Link(root)
	leaf.Link(mid)
	leaf.Link(root)

	assert.Same(t, mid, leaf.Parent(), "only the first link counts")
	assert.True(t, leaf.Linked())
	assert.Same(t, root, leaf.Root())
	assert.Same(t, root, root.Root())
}

func TestClone(t *testing.T) {
	parent := New()
	s := FromPairs("type", []any{"string", "null"}, "title", "T")
	s.Link(parent)

	c := s.Clone()
	c.Delete("title")
	c.Set("type", "string")

	assert.Equal(t, "T", s.Value("title"))
	assert.Equal(t, []any{"string", "null"}, s.Value("type"))
	assert.Same(t, parent, c.Parent())
}

func TestDeepCloneKeepsShape(t *testing.T) {
	shared := FromPairs("type", "string")
	s := FromPairs("properties", FromPairs("a", shared, "b", shared))
	props, _ := s.Object("properties")
	props.Set("self", s)

	c := DeepClone(s).(*Schema)
	require.NotSame(t, s, c)

	cProps, _ := c.Object("properties")
	a, _ := cProps.Object("a")
	b, _ := cProps.Object("b")
	self, _ := cProps.Object("self")

	assert.NotSame(t, shared, a)
	assert.Same(t, a, b, "shared nodes stay shared")
	assert.Same(t, c, self, "cycles are reproduced")
	assert.True(t, Equal(s, c))
}

func TestEqual(t *testing.T) {
	a := FromPairs("type", "object", "required", []any{"x"})
	b := FromPairs("required", []any{"x"}, "type", "object")
	assert.True(t, Equal(a, b), "key order is ignored")

	b.Set("title", "B")
	assert.False(t, Equal(a, b))

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, false))
	assert.False(t, Equal(1.0, "1"))
	assert.False(t, Equal([]any{1.0}, []any{1.0, 2.0}))

	loopA := New()
	loopA.Set("next", loopA)
	loopB := New()
	loopB.Set("next", loopB)
	assert.True(t, Equal(loopA, loopB))
}

func TestMarshalJSON(t *testing.T) {
	s := FromPairs(
		"type", "object",
		"properties", FromPairs("b", FromPairs("type", "integer"), "a", true),
		"enum", []any{1.0, 2.5, "x", nil},
	)
	out, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"b":{"type":"integer"},"a":true},"enum":[1,2.5,"x",null]}`, string(out))
	assert.Equal(t, `{"type":"object","properties":{"b":{"type":"integer"},"a":true},"enum":[1,2.5,"x",null]}`, string(out))

	loop := New()
	loop.Set("next", loop)
	_, err = loop.MarshalJSON()
	assert.ErrorIs(t, err, ErrCycle)

	v, err := MarshalValue("a\"b")
	require.NoError(t, err)
	assert.Equal(t, `"a\"b"`, string(v))
}

func TestDecode(t *testing.T) {
	t.Run("json keeps order", func(t *testing.T) {
		s, err := DecodeSchema([]byte(`{"title":"Pet","type":"object","properties":{"z":{"type":"string"},"a":{"type":"integer","maximum":10}}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"title", "type", "properties"}, s.Keys())

		props, _ := s.Object("properties")
		assert.Equal(t, []string{"z", "a"}, props.Keys())

		a, _ := props.Object("a")
		assert.Equal(t, 10.0, a.Value("maximum"))
	})

	t.Run("yaml", func(t *testing.T) {
		s, err := DecodeSchema([]byte("type: array\nitems:\n  type: string\nminItems: 1\nenum: [a, 2, true, null]\nconst: 1.5\n"))
		require.NoError(t, err)
		assert.Equal(t, []any{"a", 2.0, true, nil}, s.Value("enum"))
		assert.Equal(t, 1.5, s.Value("const"))
		assert.Equal(t, 1.0, s.Value("minItems"))
	})

	t.Run("quoted scalars stay strings", func(t *testing.T) {
		s, err := DecodeSchema([]byte(`{"enum":["true","1","null"]}`))
		require.NoError(t, err)
		assert.Equal(t, []any{"true", "1", "null"}, s.Value("enum"))
	})

	t.Run("boolean document", func(t *testing.T) {
		v, err := Decode([]byte("true"))
		require.NoError(t, err)
		assert.Equal(t, true, v)

		_, err = DecodeSchema([]byte("true"))
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Decode([]byte(`{"a": [}`))
		assert.Error(t, err)

		_, err = Decode([]byte(""))
		assert.Error(t, err)
	})
}

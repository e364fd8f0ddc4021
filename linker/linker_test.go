package linker

import (
	"testing"

	"github.com/erraggy/json2ts/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	root, err := schema.DecodeSchema([]byte(`{
		"properties": {"a": {"type": "string"}},
		"anyOf": [{"type": "number"}],
		"not": {"type": "null"}
	}`))
	require.NoError(t, err)

	n := Link(root, nil)
	assert.Equal(t, 5, n, "root, properties, a, anyOf[0], not")

	props, _ := root.Object("properties")
	a, _ := props.Object("a")
	anyOf, _ := root.Array("anyOf")
	not, _ := root.Object("not")

	assert.Nil(t, root.Parent())
	assert.True(t, root.Linked())
	assert.Same(t, root, props.Parent())
	assert.Same(t, props, a.Parent())
	assert.Same(t, root, anyOf[0].(*schema.Schema).Parent(), "array elements link to the owning node")
	assert.Same(t, root, not.Parent())
	assert.Same(t, root, a.Root())
}

func TestLinkIdempotent(t *testing.T) {
	shared := schema.FromPairs("type", "string")
	root := schema.FromPairs(
		"properties", schema.FromPairs("first", shared),
		"$defs", schema.FromPairs("Shared", shared),
	)
	root.Set("self", root)

	assert.Equal(t, 4, Link(root, nil))
	assert.Equal(t, 0, Link(root, nil))

	props, _ := root.Object("properties")
	assert.Same(t, props, shared.Parent(), "first parent wins")
	assert.Nil(t, root.Parent(), "cycle back to root does not re-parent it")
}

func TestIsSchemaLike(t *testing.T) {
	root, err := schema.DecodeSchema([]byte(`{
		"properties": {"a": {"type": "string"}},
		"$defs": {"D": {}},
		"patternProperties": {"^x": {}},
		"additionalProperties": {"type": "number"},
		"not": {},
		"items": {}
	}`))
	require.NoError(t, err)
	Link(root, nil)

	tests := []struct {
		path []string
		want bool
	}{
		{nil, true},
		{[]string{"properties"}, false},
		{[]string{"properties", "a"}, true},
		{[]string{"$defs"}, false},
		{[]string{"$defs", "D"}, true},
		{[]string{"patternProperties"}, false},
		{[]string{"additionalProperties"}, true},
		{[]string{"not"}, false},
		{[]string{"items"}, true},
	}
	for _, tt := range tests {
		cur := root
		for _, p := range tt.path {
			next, ok := cur.Object(p)
			require.True(t, ok)
			cur = next
		}
		assert.Equal(t, tt.want, IsSchemaLike(cur), "%v", tt.path)
	}

	assert.True(t, IsSchemaLike(schema.New()), "unlinked nodes count as roots")
}

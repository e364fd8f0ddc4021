package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTool_ValidSchema(t *testing.T) {
	withConfig(t, nil)

	input := validateInput{Schema: schemaInput{Content: widgetSchema}}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Zero(t, output.ErrorCount)
	assert.Empty(t, output.Errors)
}

func TestValidateTool_InvalidSchema(t *testing.T) {
	withConfig(t, nil)

	content := `properties:
  a:
    type: array
    minItems: -1
  b:
    enum: [1, 2]
    tsEnumNames: [One]
`
	input := validateInput{Schema: schemaInput{Content: content, Name: "list.yaml"}}
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, 2, output.ErrorCount)
	require.Len(t, output.Errors, 2)
	// Violations are grouped by rule, in rule order.
	assert.Equal(t, "#/properties/b", output.Errors[0].Path)
	assert.Equal(t, validateIssue{
		Path:    "#/properties/a",
		Key:     "a",
		Rule:    "When minItems exists, minItems >= 0",
		Message: `Error at key "a" in file "list.yaml": When minItems exists, minItems >= 0`,
	}, output.Errors[1])

	t.Run("paginated", func(t *testing.T) {
		input.Offset, input.Limit = 1, 1
		_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		assert.Equal(t, 2, output.ErrorCount)
		assert.Equal(t, 1, output.Returned)
		require.Len(t, output.Errors, 1)
		assert.Equal(t, "a", output.Errors[0].Key)
	})
}

func TestValidateTool_Errors(t *testing.T) {
	withConfig(t, nil)

	for name, input := range map[string]validateInput{
		"no source":        {},
		"bad content":      {Schema: schemaInput{Content: "{"}},
		"unresolvable ref": {Schema: schemaInput{Content: `{"$ref": "other.json"}`}},
	} {
		t.Run(name, func(t *testing.T) {
			result, _, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

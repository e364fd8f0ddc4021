package validator

import (
	"testing"

	"github.com/erraggy/json2ts/internal/issues"
	"github.com/erraggy/json2ts/internal/severity"
	"github.com/erraggy/json2ts/linker"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.DecodeSchema([]byte(doc))
	require.NoError(t, err)
	linker.Link(s, nil)
	return s
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "valid",
			doc:  `{"type": "array", "minItems": 1, "maxItems": 2, "deprecated": false, "enum": [1, 2], "tsEnumNames": ["One", "Two"]}`,
		},
		{
			name: "enum length mismatch",
			doc:  `{"enum": [1, 2, 3], "tsEnumNames": ["One", "Two"]}`,
			want: []string{"Enum members and tsEnumNames must be of the same length"},
		},
		{
			name: "tsEnumNames not strings",
			doc:  `{"enum": [1, 2], "tsEnumNames": ["One", 2]}`,
			want: []string{"tsEnumNames must be an array of strings"},
		},
		{
			name: "tsEnumNames not an array",
			doc:  `{"enum": [1], "tsEnumNames": "One"}`,
			want: []string{"tsEnumNames must be an array of strings"},
		},
		{
			name: "maxItems below minItems",
			doc:  `{"type": "array", "minItems": 3, "maxItems": 2}`,
			want: []string{"When both maxItems and minItems are present, maxItems >= minItems"},
		},
		{
			name: "negative bounds",
			doc:  `{"type": "array", "minItems": -1, "maxItems": -2}`,
			want: []string{
				"When both maxItems and minItems are present, maxItems >= minItems",
				"When maxItems exists, maxItems >= 0",
				"When minItems exists, minItems >= 0",
			},
		},
		{
			name: "deprecated not boolean",
			doc:  `{"properties": {"a": {"deprecated": "yes"}}}`,
			want: []string{"deprecated must be a boolean"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := Validate(load(t, tt.doc), "test.json", nil)
			var rules []string
			for _, i := range found {
				rules = append(rules, i.Rule)
			}
			assert.Equal(t, tt.want, rules)
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tserrors.ErrValidation)
		})
	}
}

func TestValidateAggregatesRuleMajor(t *testing.T) {
	root := load(t, `{
		"properties": {
			"a": {"deprecated": 1, "minItems": -1},
			"b": {"minItems": -5}
		}
	}`)

	found, err := Validate(root, "pet.json", nil)
	require.Error(t, err)

	var vErr *tserrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		`Error at key "a" in file "pet.json": When minItems exists, minItems >= 0`,
		`Error at key "b" in file "pet.json": When minItems exists, minItems >= 0`,
		`Error at key "a" in file "pet.json": deprecated must be a boolean`,
	}, vErr.Violations)

	require.Len(t, found, 3)
	assert.Equal(t, "#/properties/a", found[0].Path)
	assert.Equal(t, severity.SeverityError, found[0].Severity)
}

func TestToError(t *testing.T) {
	assert.NoError(t, ToError(nil))
	assert.NoError(t, ToError([]issues.Issue{{Severity: severity.SeverityWarning}}))
	assert.Error(t, ToError([]issues.Issue{{Severity: severity.SeverityError}}))
}

package issues

import (
	"testing"

	"github.com/erraggy/json2ts/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssue(t *testing.T) {
	i := Issue{
		Path:     "#/properties/tags",
		Key:      "tags",
		File:     "pet.json",
		Rule:     "When minItems exists, minItems >= 0",
		Severity: severity.SeverityError,
	}

	assert.Equal(t, `Error at key "tags" in file "pet.json": When minItems exists, minItems >= 0`, i.Message())
	assert.Equal(t, "✗ #/properties/tags: When minItems exists, minItems >= 0", i.String())
}

func TestCount(t *testing.T) {
	list := []Issue{
		{Severity: severity.SeverityError},
		{Severity: severity.SeverityWarning},
		{Severity: severity.SeverityError},
	}
	assert.Equal(t, 2, Count(list, severity.SeverityError))
	assert.Equal(t, 1, Count(list, severity.SeverityWarning))
	assert.Equal(t, 0, Count(list, severity.SeverityInfo))
	assert.Equal(t, 0, Count(nil, severity.SeverityError))
}

package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSafeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "already safe", input: "Pet", want: "Pet"},
		{name: "lower first", input: "pet", want: "Pet"},
		{name: "kebab", input: "pet-store", want: "PetStore"},
		{name: "spaces", input: "my cool schema", want: "MyCoolSchema"},
		{name: "dots", input: "pet.schema", want: "PetSchema"},
		{name: "leading digit dropped", input: "123abc", want: "23Abc"},
		{name: "inner digits", input: "v2beta", want: "V2Beta"},
		{name: "snake case", input: "foo_bar", want: "FooBar"},
		{name: "leading underscore", input: "_foo", want: "_Foo"},
		{name: "dollar", input: "$defs", want: "$Defs"},
		{name: "diacritics", input: "élan vital", want: "ElanVital"},
		{name: "only symbols", input: "!!!", want: ""},
		{name: "trailing symbol", input: "Pet!", want: "Pet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSafeString(tt.input))
			// second call comes from the cache
			assert.Equal(t, tt.want, ToSafeString(tt.input))
		})
	}
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "", UpperFirst(""))
	assert.Equal(t, "Abc", UpperFirst("abc"))
	assert.Equal(t, "Über", UpperFirst("über"))
	assert.Equal(t, "ABC", UpperFirst("ABC"))
}

func TestJustName(t *testing.T) {
	assert.Equal(t, "", JustName(""))
	assert.Equal(t, "pet", JustName("pet.json"))
	assert.Equal(t, "pet.schema", JustName("schemas/pet.schema.json"))
	assert.Equal(t, "Pet", JustName("Pet"))
}

func TestGenerateName(t *testing.T) {
	used := UsedNames{}

	assert.Equal(t, "Pet", GenerateName("pet", used))
	assert.Equal(t, "Pet1", GenerateName("Pet", used))
	assert.Equal(t, "Pet2", GenerateName("pet", used))
	assert.Equal(t, "NoName", GenerateName("***", used))
	assert.Equal(t, "NoName1", GenerateName("", used))

	assert.Contains(t, used, "Pet")
	assert.Contains(t, used, "Pet2")
	assert.Len(t, used, 5)
}

package parser

import (
	"github.com/erraggy/json2ts/schema"
)

// schemaType is one classification a schema node can match.
type schemaType int

const (
	typeAllOf schemaType = iota
	typeAny
	typeAnyOf
	typeBoolean
	typeNamedEnum
	typeNamedSchema
	typeNever
	typeNull
	typeNumber
	typeObject
	typeOneOf
	typeReference
	typeString
	typeTypedArray
	typeUnion
	typeUnnamedEnum
	typeUnnamedSchema
	typeUntypedArray
	typeCustomType

	// typeIntersection keys the memo slot of the intersection synthesized
	// for a node with several classifications.
	typeIntersection
)

var schemaTypeNames = map[schemaType]string{
	typeAllOf:         "ALL_OF",
	typeAny:           "ANY",
	typeAnyOf:         "ANY_OF",
	typeBoolean:       "BOOLEAN",
	typeNamedEnum:     "NAMED_ENUM",
	typeNamedSchema:   "NAMED_SCHEMA",
	typeNever:         "NEVER",
	typeNull:          "NULL",
	typeNumber:        "NUMBER",
	typeObject:        "OBJECT",
	typeOneOf:         "ONE_OF",
	typeReference:     "REFERENCE",
	typeString:        "STRING",
	typeTypedArray:    "TYPED_ARRAY",
	typeUnion:         "UNION",
	typeUnnamedEnum:   "UNNAMED_ENUM",
	typeUnnamedSchema: "UNNAMED_SCHEMA",
	typeUntypedArray:  "UNTYPED_ARRAY",
	typeCustomType:    "CUSTOM_TYPE",
	typeIntersection:  "INTERSECTION",
}

func (t schemaType) String() string {
	return schemaTypeNames[t]
}

type matcher struct {
	typ   schemaType
	match func(s *schema.Schema) bool
}

// matchers are evaluated in order; every match contributes one
// classification.
var matchers = []matcher{
	{typeAllOf, func(s *schema.Schema) bool { return s.Has("allOf") }},
	{typeAny, func(s *schema.Schema) bool {
		return s.Len() == 0 || typeName(s) == "any"
	}},
	{typeAnyOf, func(s *schema.Schema) bool { return s.Has("anyOf") }},
	{typeBoolean, func(s *schema.Schema) bool {
		return primitiveMatch(s, "boolean", func(v any) bool { _, ok := v.(bool); return ok })
	}},
	{typeNamedEnum, func(s *schema.Schema) bool {
		return s.Has("enum") && s.Has("tsEnumNames")
	}},
	{typeNamedSchema, func(s *schema.Schema) bool {
		return s.Has("$id") && (s.Has("patternProperties") || s.Has("properties"))
	}},
	{typeNever, func(*schema.Schema) bool { return false }},
	{typeNull, func(s *schema.Schema) bool { return typeName(s) == "null" }},
	{typeNumber, func(s *schema.Schema) bool {
		if s.Has("enum") {
			return false
		}
		if t := typeName(s); t == "integer" || t == "number" {
			return true
		}
		_, isNum := s.Value("default").(float64)
		return !isCompound(s) && isNum
	}},
	{typeObject, func(s *schema.Schema) bool {
		_, apSchema := s.Object("additionalProperties")
		return typeName(s) == "object" &&
			!apSchema &&
			!truthy(s.Value("allOf")) &&
			!truthy(s.Value("anyOf")) &&
			!truthy(s.Value("oneOf")) &&
			!truthy(s.Value("patternProperties")) &&
			!truthy(s.Value("properties")) &&
			!truthy(s.Value("required"))
	}},
	{typeOneOf, func(s *schema.Schema) bool { return s.Has("oneOf") }},
	{typeReference, func(s *schema.Schema) bool { return s.Has("$ref") }},
	{typeString, func(s *schema.Schema) bool {
		return primitiveMatch(s, "string", func(v any) bool { _, ok := v.(string); return ok })
	}},
	{typeTypedArray, func(s *schema.Schema) bool {
		if t, ok := s.Get("type"); ok && truthy(t) && t != "array" {
			return false
		}
		return s.Has("items")
	}},
	{typeUnion, func(s *schema.Schema) bool {
		_, ok := s.Array("type")
		return ok
	}},
	{typeUnnamedEnum, func(s *schema.Schema) bool {
		if s.Has("tsEnumNames") {
			return false
		}
		if t, ok := s.Get("type"); ok && truthy(t) {
			switch t {
			case "boolean", "integer", "number", "string":
			default:
				return false
			}
		}
		return s.Has("enum")
	}},
	{typeUntypedArray, func(s *schema.Schema) bool {
		return typeName(s) == "array" && !s.Has("items")
	}},
}

// typesOf classifies s. A tsType short-circuits everything else; a node
// matching nothing is an unnamed schema.
func typesOf(s *schema.Schema) []schemaType {
	if truthy(s.Value("tsType")) {
		return []schemaType{typeCustomType}
	}
	var out []schemaType
	for _, m := range matchers {
		if m.match(s) {
			out = append(out, m.typ)
		}
	}
	if len(out) == 0 {
		out = append(out, typeUnnamedSchema)
	}
	return out
}

func typeName(s *schema.Schema) string {
	t, _ := s.String("type")
	return t
}

// primitiveMatch matches an explicit type, or an untyped non-compound
// schema whose default has the right JSON type. Enums never match.
func primitiveMatch(s *schema.Schema, name string, isDefault func(any) bool) bool {
	if s.Has("enum") {
		return false
	}
	if typeName(s) == name {
		return true
	}
	d, ok := s.Get("default")
	return ok && !isCompound(s) && isDefault(d)
}

func isCompound(s *schema.Schema) bool {
	_, multi := s.Array("type")
	return multi || s.Has("anyOf") || s.Has("oneOf")
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}

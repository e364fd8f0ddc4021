package normalizer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/json2ts/internal/naming"
	"github.com/erraggy/json2ts/linker"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
)

var rules = []Rule{
	{"Remove `type=[\"null\"]` if `enum=[null]`", removeNullType},
	{"Destructure unary types", destructureUnaryTypes},
	{"Add empty `required` property if none is defined", addEmptyRequired},
	{"Transform `required`=false to `required`=[]", requiredFalseToEmpty},
	{"Default additionalProperties", defaultAdditionalProperties},
	{"Transform id to $id", idToDollarID},
	{"Add an $id to anything that needs it", addID},
	{"Escape closing JSDoc comment", escapeBlockComment},
	{"Add JSDoc comments for minItems and maxItems", annotateItemBounds},
	{"Optionally remove maxItems and minItems", removeItemBounds},
	{"Normalize schema.minItems", defaultMinItems},
	{"Remove maxItems if it is big enough to likely cause OOMs", capMaxItems},
	{"Normalize schema.items", normalizeItems},
	{"Remove extends, if it is empty", removeEmptyExtends},
	{"Make extends always an array, if it is defined", extendsToArray},
	{"Transform definitions to $defs", definitionsToDefs},
	{"Transform const to singleton enum", constToEnum},
	{"Add tsEnumNames to enum types", inferEnumNames},
}

func isObjectType(s *schema.Schema) bool {
	t, _ := s.String("type")
	return s.Has("properties") || t == "object" || t == "any"
}

func isArrayType(s *schema.Schema) bool {
	t, _ := s.String("type")
	return s.Has("items") || t == "array" || t == "any"
}

// truthy mirrors how schemas are usually written: a keyword counts when it
// is present with a non-empty, non-false value.
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

func removeNullType(s *schema.Schema, _ *ruleContext) error {
	enum, ok := s.Array("enum")
	if !ok || !slices.Contains(enum, any(nil)) {
		return nil
	}
	types, ok := s.Array("type")
	if !ok || !slices.Contains(types, any("null")) {
		return nil
	}
	kept := make([]any, 0, len(types))
	for _, t := range types {
		if t != "null" {
			kept = append(kept, t)
		}
	}
	s.Set("type", kept)
	return nil
}

func destructureUnaryTypes(s *schema.Schema, _ *ruleContext) error {
	if types, ok := s.Array("type"); ok && len(types) == 1 {
		s.Set("type", types[0])
	}
	return nil
}

func addEmptyRequired(s *schema.Schema, _ *ruleContext) error {
	if isObjectType(s) && !s.Has("required") {
		s.Set("required", []any{})
	}
	return nil
}

func requiredFalseToEmpty(s *schema.Schema, _ *ruleContext) error {
	if b, ok := s.Bool("required"); ok && !b {
		s.Set("required", []any{})
	}
	return nil
}

func defaultAdditionalProperties(s *schema.Schema, c *ruleContext) error {
	if isObjectType(s) && !s.Has("additionalProperties") && !s.Has("patternProperties") {
		s.Set("additionalProperties", c.opts.AdditionalProperties)
	}
	return nil
}

func idToDollarID(s *schema.Schema, c *ruleContext) error {
	if !linker.IsSchemaLike(s) {
		return nil
	}
	id := s.Value("id")
	dollarID := s.Value("$id")
	if truthy(id) && truthy(dollarID) && !schema.Equal(id, dollarID) {
		return &tserrors.ReferenceError{
			Ref:     "id",
			RefType: "keyword",
			Message: fmt.Sprintf("Schema must define either id or $id, not both. Given id=%v, $id=%v in %s", id, dollarID, c.fileName),
		}
	}
	if truthy(id) {
		s.Set("$id", id)
		s.Delete("id")
	}
	return nil
}

func addID(s *schema.Schema, c *ruleContext) error {
	if !linker.IsSchemaLike(s) {
		return nil
	}
	if !truthy(s.Value("$id")) && s.Parent() == nil {
		name := naming.ToSafeString(naming.JustName(c.fileName))
		if name == "" {
			name = "Root"
		}
		s.Set("$id", name)
		return nil
	}
	if !isArrayType(s) && !isObjectType(s) {
		return nil
	}
	path, ok := c.derefs[s]
	if !ok {
		return nil
	}
	if !truthy(s.Value("$id")) && !truthy(s.Value("title")) {
		s.Set("$id", naming.ToSafeString(naming.JustName(path)))
	}
	delete(c.derefs, s)
	return nil
}

func escapeBlockComment(s *schema.Schema, _ *ruleContext) error {
	if d, ok := s.String("description"); ok && strings.Contains(d, "*/") {
		s.Set("description", strings.ReplaceAll(d, "*/", "* /"))
	}
	return nil
}

func annotateItemBounds(s *schema.Schema, _ *ruleContext) error {
	if !isArrayType(s) {
		return nil
	}
	var lines []string
	if v, ok := s.Get("minItems"); ok {
		lines = append(lines, "@minItems "+formatValue(v))
	}
	if v, ok := s.Get("maxItems"); ok {
		lines = append(lines, "@maxItems "+formatValue(v))
	}
	if len(lines) > 0 {
		existing, _ := s.String("description")
		s.Set("description", appendToDescription(existing, lines...))
	}
	return nil
}

func appendToDescription(existing string, lines ...string) string {
	if existing != "" {
		return existing + "\n\n" + strings.Join(lines, "\n")
	}
	return strings.Join(lines, "\n")
}

func removeItemBounds(s *schema.Schema, c *ruleContext) error {
	if c.opts.IgnoreMinAndMaxItems {
		s.Delete("minItems")
		s.Delete("maxItems")
	}
	return nil
}

func defaultMinItems(s *schema.Schema, c *ruleContext) error {
	if c.opts.IgnoreMinAndMaxItems || !isArrayType(s) {
		return nil
	}
	if _, ok := s.Number("minItems"); !ok {
		// maxItems has no neutral default: 0 means "empty".
		s.Set("minItems", 0.0)
	}
	return nil
}

func capMaxItems(s *schema.Schema, c *ruleContext) error {
	if c.opts.IgnoreMinAndMaxItems || c.opts.MaxItems == -1 || !isArrayType(s) {
		return nil
	}
	maxItems, okMax := s.Number("maxItems")
	minItems, okMin := s.Number("minItems")
	if okMax && okMin && maxItems-minItems > float64(c.opts.MaxItems) {
		s.Delete("maxItems")
	}
	return nil
}

// normalizeItems turns bounded single-schema items into a positional
// tuple and fits positional items to maxItems. Tuples shorter than
// maxItems are padded with additionalItems, or with the last declared
// position when additionalItems is absent or true.
func normalizeItems(s *schema.Schema, c *ruleContext) error {
	if c.opts.IgnoreMinAndMaxItems {
		return nil
	}
	maxItems, okMax := s.Number("maxItems")
	minItems, okMin := s.Number("minItems")
	hasMax := okMax && maxItems >= 0
	hasMin := okMin && minItems > 0

	if item, ok := s.Get("items"); ok && truthy(item) {
		if _, isArray := item.([]any); !isArray && (hasMax || hasMin) {
			n := 0
			switch {
			case okMax && maxItems != 0:
				n = int(maxItems)
			case okMin:
				n = int(minItems)
			}
			tuple := make([]any, n)
			for i := range tuple {
				tuple[i] = item
			}
			if !hasMax {
				s.Set("additionalItems", item)
			}
			s.Set("items", tuple)
		}
	}

	tuple, ok := s.Array("items")
	if !ok || !hasMax {
		return nil
	}
	limit := int(maxItems)
	switch {
	case limit < len(tuple):
		s.Set("items", slices.Clone(tuple[:limit]))
	case limit > len(tuple) && len(tuple) > 0:
		fill := tuple[len(tuple)-1]
		switch extra := s.Value("additionalItems").(type) {
		case *schema.Schema:
			fill = extra
		case bool:
			if !extra {
				return nil
			}
		}
		padded := slices.Clone(tuple)
		for len(padded) < limit {
			padded = append(padded, fill)
		}
		s.Set("items", padded)
	}
	return nil
}

func removeEmptyExtends(s *schema.Schema, _ *ruleContext) error {
	v, ok := s.Get("extends")
	if !ok {
		return nil
	}
	if arr, isArray := v.([]any); v == nil || (isArray && len(arr) == 0) {
		s.Delete("extends")
	}
	return nil
}

func extendsToArray(s *schema.Schema, _ *ruleContext) error {
	v, ok := s.Get("extends")
	if !ok || v == nil {
		return nil
	}
	if _, isArray := v.([]any); !isArray {
		s.Set("extends", []any{v})
	}
	return nil
}

func definitionsToDefs(s *schema.Schema, c *ruleContext) error {
	defs := s.Value("definitions")
	dollarDefs := s.Value("$defs")
	if truthy(defs) && truthy(dollarDefs) && !schema.Equal(defs, dollarDefs) {
		return &tserrors.ReferenceError{
			Ref:     "definitions",
			RefType: "keyword",
			Message: fmt.Sprintf("Schema must define either definitions or $defs, not both. Given id=%v in %s", s.Value("$id"), c.fileName),
		}
	}
	if truthy(defs) {
		s.Set("$defs", defs)
		s.Delete("definitions")
	}
	return nil
}

func constToEnum(s *schema.Schema, _ *ruleContext) error {
	if v, ok := s.Get("const"); ok {
		s.Set("enum", []any{v})
		s.Delete("const")
	}
	return nil
}

func inferEnumNames(s *schema.Schema, c *ruleContext) error {
	if !c.opts.InferStringEnumKeysFromValues || s.Has("tsEnumNames") {
		return nil
	}
	if t, _ := s.String("type"); t != "string" {
		return nil
	}
	enum, ok := s.Array("enum")
	if !ok {
		return nil
	}
	names := make([]any, len(enum))
	for i, v := range enum {
		names[i] = formatValue(v)
	}
	s.Set("tsEnumNames", names)
	return nil
}

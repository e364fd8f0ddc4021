package validator

import (
	"github.com/erraggy/json2ts/schema"
)

// Rule is one structural check. Check returns false when s violates it.
type Rule struct {
	Message string
	Check   func(s *schema.Schema) bool
}

// Rules are applied in this order, each over the whole document.
var Rules = []Rule{
	{
		Message: "Enum members and tsEnumNames must be of the same length",
		Check: func(s *schema.Schema) bool {
			members, ok := s.Array("enum")
			if !ok {
				return true
			}
			names, ok := s.Array("tsEnumNames")
			if !ok {
				return true
			}
			return len(members) == len(names)
		},
	},
	{
		Message: "tsEnumNames must be an array of strings",
		Check: func(s *schema.Schema) bool {
			v, ok := s.Get("tsEnumNames")
			if !ok || v == nil {
				return true
			}
			names, ok := v.([]any)
			if !ok {
				return false
			}
			for _, n := range names {
				if _, ok := n.(string); !ok {
					return false
				}
			}
			return true
		},
	},
	{
		Message: "When both maxItems and minItems are present, maxItems >= minItems",
		Check: func(s *schema.Schema) bool {
			maxItems, okMax := s.Number("maxItems")
			minItems, okMin := s.Number("minItems")
			return !okMax || !okMin || maxItems >= minItems
		},
	},
	{
		Message: "When maxItems exists, maxItems >= 0",
		Check: func(s *schema.Schema) bool {
			maxItems, ok := s.Number("maxItems")
			return !ok || maxItems >= 0
		},
	},
	{
		Message: "When minItems exists, minItems >= 0",
		Check: func(s *schema.Schema) bool {
			minItems, ok := s.Number("minItems")
			return !ok || minItems >= 0
		},
	},
	{
		Message: "deprecated must be a boolean",
		Check: func(s *schema.Schema) bool {
			v, ok := s.Get("deprecated")
			if !ok {
				return true
			}
			_, isBool := v.(bool)
			return isBool
		},
	},
}

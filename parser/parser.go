package parser

import (
	"fmt"
	"strings"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/ast"
	"github.com/erraggy/json2ts/internal/naming"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
)

// Options controls how schemas are turned into AST nodes.
type Options struct {
	// UnknownAny uses unknown instead of any for untyped nodes.
	UnknownAny bool

	// UnreachableDefinitions adds every $defs entry of an interface's
	// schema as a hidden member, so it is declared even when nothing
	// references it.
	UnreachableDefinitions bool

	// CustomName, when set, is asked first for a node's standalone name.
	// keyNameFromDefinition is the $defs key the node sits under, or "".
	CustomName func(s *schema.Schema, keyNameFromDefinition string) string

	Logger json2ts.Logger
}

type memoKey struct {
	s *schema.Schema
	t schemaType
}

// state is everything one Parse call shares across its recursion.
type state struct {
	opts *Options
	memo map[memoKey]*ast.Node
	used naming.UsedNames
}

// Parse converts a normalized, linked schema into an AST. Every
// (schema, classification) pair produces exactly one node, so cycles in
// the schema become cycles in the AST.
func Parse(root *schema.Schema, opts Options) (*ast.Node, error) {
	p := &state{
		opts: &opts,
		memo: make(map[memoKey]*ast.Node),
		used: make(naming.UsedNames),
	}
	n, err := p.parse(root, "")
	if err != nil {
		return nil, err
	}
	json2ts.OrNop(opts.Logger).Debug("parsed schema",
		"nodes", ast.Count(n), "memo", len(p.memo), "names", len(p.used))
	return n, nil
}

func (p *state) parse(v any, keyName string) (*ast.Node, error) {
	s, ok := v.(*schema.Schema)
	if !ok {
		if b, isBool := v.(bool); isBool {
			return p.parseBooleanSchema(b, keyName), nil
		}
		return ast.NewLiteral(v, keyName), nil
	}

	types := typesOf(s)
	if len(types) == 1 {
		return p.parseAsType(s, s, types[0], keyName)
	}

	// The intersection claims its name before the members are parsed.
	key := memoKey{s, typeIntersection}
	if n, ok := p.memo[key]; ok {
		return n, nil
	}
	n := &ast.Node{
		Kind:           ast.Intersection,
		Comment:        description(s),
		Deprecated:     deprecated(s),
		KeyName:        keyName,
		StandaloneName: p.standaloneName(s, keyNameFromDefinition(s)),
	}
	p.memo[key] = n

	stripped := stripNameHints(s)
	for _, t := range types {
		m, err := p.parseAsType(s, stripped, t, keyName)
		if err != nil {
			return nil, err
		}
		n.Params = append(n.Params, m)
	}
	return n, nil
}

func (p *state) parseBooleanSchema(b bool, keyName string) *ast.Node {
	if b {
		n := ast.Untyped(p.opts.UnknownAny)
		n.KeyName = keyName
		return n
	}
	return &ast.Node{Kind: ast.Never, KeyName: keyName}
}

// parseAsType parses s as classification t. key is the node the result
// is memoized under; it differs from s only for intersection members,
// which are parsed from a copy stripped of name hints.
func (p *state) parseAsType(key, s *schema.Schema, t schemaType, keyName string) (*ast.Node, error) {
	mk := memoKey{key, t}
	if n, ok := p.memo[mk]; ok {
		return n, nil
	}
	placeholder := &ast.Node{}
	p.memo[mk] = placeholder

	built, err := p.parseNonLiteral(key, s, t, keyName)
	if err != nil {
		return nil, err
	}
	placeholder.Fill(built)
	return placeholder, nil
}

func (p *state) parseNonLiteral(key, s *schema.Schema, t schemaType, keyName string) (*ast.Node, error) {
	// Intersection members carry no name; the intersection holds it.
	defName := ""
	if s == key {
		defName = keyNameFromDefinition(key)
	}
	n := &ast.Node{
		Comment:    description(s),
		Deprecated: deprecated(s),
		KeyName:    keyName,
	}

	switch t {
	case typeAllOf:
		n.Kind = ast.Intersection
		n.StandaloneName = p.standaloneName(s, defName)
		return p.withParams(n, s, "allOf")

	case typeAny:
		n.Kind = ast.Any
		if p.opts.UnknownAny {
			n.Kind = ast.Unknown
		}
		n.StandaloneName = p.standaloneName(s, defName)

	case typeAnyOf:
		n.Kind = ast.Union
		n.StandaloneName = p.standaloneName(s, defName)
		return p.withParams(n, s, "anyOf")

	case typeOneOf:
		n.Kind = ast.Union
		n.StandaloneName = p.standaloneName(s, defName)
		return p.withParams(n, s, "oneOf")

	case typeBoolean:
		n.Kind = ast.Boolean
		n.StandaloneName = p.standaloneName(s, defName)

	case typeCustomType:
		n.Kind = ast.CustomType
		n.Raw = fmt.Sprint(s.Value("tsType"))
		n.StandaloneName = p.standaloneName(s, defName)

	case typeNamedEnum:
		n.Kind = ast.Enum
		hint := defName
		if hint == "" {
			hint = keyName
		}
		n.StandaloneName = p.standaloneName(s, hint)
		if n.StandaloneName == "" {
			n.StandaloneName = naming.GenerateName("", p.used)
		}
		values, _ := s.Array("enum")
		names, _ := s.Array("tsEnumNames")
		for i, v := range values {
			var name string
			if i < len(names) {
				name = fmt.Sprint(names[i])
			}
			n.Members = append(n.Members, ast.EnumMember{Name: name, Value: ast.NewLiteral(v, "")})
		}

	case typeNamedSchema:
		return p.newInterface(n, s, "")

	case typeUnnamedSchema:
		return p.newInterface(n, s, defName)

	case typeNever:
		n.Kind = ast.Never
		n.StandaloneName = p.standaloneName(s, defName)

	case typeNull:
		n.Kind = ast.Null
		n.StandaloneName = p.standaloneName(s, defName)

	case typeNumber:
		n.Kind = ast.Number
		n.StandaloneName = p.standaloneName(s, defName)

	case typeObject:
		n.Kind = ast.Object
		n.StandaloneName = p.standaloneName(s, defName)

	case typeString:
		n.Kind = ast.String
		n.StandaloneName = p.standaloneName(s, defName)

	case typeReference:
		ref, _ := s.String("$ref")
		return nil, &tserrors.InternalError{
			Stage:   "parse",
			Message: fmt.Sprintf("reference %q should have been resolved before parsing", ref),
		}

	case typeTypedArray:
		n.StandaloneName = p.standaloneName(s, defName)
		return p.parseTypedArray(n, s)

	case typeUnion:
		n.Kind = ast.Union
		n.StandaloneName = p.standaloneName(s, defName)
		types, _ := s.Array("type")
		for _, typ := range types {
			member := s.Clone()
			member.Delete("$id")
			member.Delete("description")
			member.Delete("title")
			member.Set("type", typ)
			stripMismatchedDefault(member)
			m, err := p.parse(member, "")
			if err != nil {
				return nil, err
			}
			n.Params = append(n.Params, m)
		}

	case typeUnnamedEnum:
		n.Kind = ast.Union
		n.StandaloneName = p.standaloneName(s, defName)
		values, _ := s.Array("enum")
		for _, v := range values {
			n.Params = append(n.Params, ast.NewLiteral(v, ""))
		}

	case typeUntypedArray:
		n.StandaloneName = p.standaloneName(s, defName)
		minItems := intKeyword(s, "minItems", 0)
		maxItems := intKeyword(s, "maxItems", -1)
		if minItems > 0 || maxItems >= 0 {
			n.Kind = ast.Tuple
			n.MinItems = minItems
			n.MaxItems = maxItems
			for range max(maxItems, minItems) {
				n.Params = append(n.Params, ast.Untyped(p.opts.UnknownAny))
			}
			if maxItems < 0 {
				n.Spread = ast.Untyped(p.opts.UnknownAny)
			}
		} else {
			n.Kind = ast.Array
			n.Elem = ast.Untyped(p.opts.UnknownAny)
		}

	default:
		return nil, &tserrors.InternalError{Stage: "parse", Message: fmt.Sprintf("unhandled schema type %s", t)}
	}
	return n, nil
}

func (p *state) withParams(n *ast.Node, s *schema.Schema, keyword string) (*ast.Node, error) {
	members, _ := s.Array(keyword)
	for _, m := range members {
		child, err := p.parse(m, "")
		if err != nil {
			return nil, err
		}
		n.Params = append(n.Params, child)
	}
	return n, nil
}

func (p *state) parseTypedArray(n *ast.Node, s *schema.Schema) (*ast.Node, error) {
	items, isTuple := s.Array("items")
	if !isTuple {
		n.Kind = ast.Array
		elem, err := p.parse(s.Value("items"), "")
		if err != nil {
			return nil, err
		}
		n.Elem = elem
		return n, nil
	}

	n.Kind = ast.Tuple
	n.MinItems = intKeyword(s, "minItems", 0)
	n.MaxItems = intKeyword(s, "maxItems", -1)
	for _, item := range items {
		child, err := p.parse(item, "")
		if err != nil {
			return nil, err
		}
		n.Params = append(n.Params, child)
	}
	switch extra := s.Value("additionalItems").(type) {
	case bool:
		if extra {
			n.Spread = ast.Untyped(p.opts.UnknownAny)
		}
	case *schema.Schema:
		spread, err := p.parse(extra, "")
		if err != nil {
			return nil, err
		}
		n.Spread = spread
	}
	return n, nil
}

func (p *state) newInterface(n *ast.Node, s *schema.Schema, defName string) (*ast.Node, error) {
	n.Kind = ast.Interface
	n.StandaloneName = p.standaloneName(s, defName)

	fields, err := p.parseFields(s, n.StandaloneName)
	if err != nil {
		return nil, err
	}
	n.Fields = fields

	supers, _ := s.Array("extends")
	for _, sup := range supers {
		st, err := p.parse(sup, "")
		if err != nil {
			return nil, err
		}
		n.SuperTypes = append(n.SuperTypes, st)
	}
	return n, nil
}

// parseFields builds the members of an interface from properties,
// patternProperties, unreachable $defs and additionalProperties.
func (p *state) parseFields(s *schema.Schema, parentName string) ([]ast.InterfaceParam, error) {
	required := make(map[string]bool)
	if list, ok := s.Array("required"); ok {
		for _, r := range list {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	var fields []ast.InterfaceParam
	if props, ok := s.Object("properties"); ok {
		for _, k := range props.Keys() {
			child, err := p.parse(props.Value(k), k)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.InterfaceParam{
				Node:       child,
				KeyName:    k,
				IsRequired: required[k],
			})
		}
	}

	singlePattern := false
	if patterns, ok := s.Object("patternProperties"); ok {
		// A lone pattern with no additionalProperties can stand in for the
		// index signature.
		singlePattern = !truthy(s.Value("additionalProperties")) && patterns.Len() == 1
		for _, k := range patterns.Keys() {
			child, err := p.parse(patterns.Value(k), k)
			if err != nil {
				return nil, err
			}
			child.Comment = appendComment(child.Comment, fmt.Sprintf(
				"This interface was referenced by `%s`'s JSON-Schema definition\nvia the `patternProperty` \"%s\".",
				parentName, strings.ReplaceAll(k, "*/", `*\/`)))
			keyName := k
			if singlePattern {
				keyName = ast.IndexSignature
			}
			fields = append(fields, ast.InterfaceParam{
				Node:              child,
				KeyName:           keyName,
				IsRequired:        singlePattern || required[k],
				IsPatternProperty: !singlePattern,
			})
		}
	}

	if p.opts.UnreachableDefinitions {
		if defs, ok := s.Object("$defs"); ok {
			for _, k := range defs.Keys() {
				child, err := p.parse(defs.Value(k), k)
				if err != nil {
					return nil, err
				}
				child.Comment = appendComment(child.Comment, fmt.Sprintf(
					"This interface was referenced by `%s`'s JSON-Schema\nvia the `definition` \"%s\".", parentName, k))
				fields = append(fields, ast.InterfaceParam{
					Node:                    child,
					KeyName:                 k,
					IsRequired:              required[k],
					IsUnreachableDefinition: true,
				})
			}
		}
	}

	ap, hasAP := s.Get("additionalProperties")
	switch {
	case !hasAP || ap == nil || ap == true:
		if singlePattern {
			return fields, nil
		}
		idx := ast.Untyped(p.opts.UnknownAny)
		idx.KeyName = ast.IndexSignature
		fields = append(fields, ast.InterfaceParam{Node: idx, KeyName: ast.IndexSignature, IsRequired: true})
	case ap == false:
	default:
		child, err := p.parse(ap, ast.IndexSignature)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.InterfaceParam{Node: child, KeyName: ast.IndexSignature, IsRequired: true})
	}
	return fields, nil
}

// standaloneName picks a declaration name for s: the CustomName hook,
// then title, then $id, then the definition key. The result is made safe
// and unique within this parse.
func (p *state) standaloneName(s *schema.Schema, keyNameFromDefinition string) string {
	var name string
	if p.opts.CustomName != nil {
		name = p.opts.CustomName(s, keyNameFromDefinition)
	}
	if name == "" {
		name, _ = s.String("title")
	}
	if name == "" {
		name, _ = s.String("$id")
	}
	if name == "" {
		name = keyNameFromDefinition
	}
	if name == "" {
		return ""
	}
	return naming.GenerateName(name, p.used)
}

// keyNameFromDefinition returns the key under the root's $defs that holds
// exactly s, or "".
func keyNameFromDefinition(s *schema.Schema) string {
	defs, ok := s.Root().Object("$defs")
	if !ok {
		return ""
	}
	for _, k := range defs.Keys() {
		if d, _ := defs.Value(k).(*schema.Schema); d == s {
			return k
		}
	}
	return ""
}

func stripNameHints(s *schema.Schema) *schema.Schema {
	c := s.Clone()
	for _, k := range []string{"$id", "description", "name", "title"} {
		c.Delete(k)
	}
	return c
}

// stripMismatchedDefault drops a default whose JSON type does not match
// the member's single type.
func stripMismatchedDefault(s *schema.Schema) {
	d, ok := s.Get("default")
	if !ok {
		return
	}
	var keep bool
	switch typeName(s) {
	case "array":
		_, keep = d.([]any)
	case "boolean":
		_, keep = d.(bool)
	case "integer", "number":
		_, keep = d.(float64)
	case "null":
		keep = d == nil
	case "object":
		_, keep = d.(*schema.Schema)
	case "string":
		_, keep = d.(string)
	}
	if !keep {
		s.Delete("default")
	}
}

func description(s *schema.Schema) string {
	d, _ := s.String("description")
	return d
}

func deprecated(s *schema.Schema) bool {
	d, _ := s.Bool("deprecated")
	return d
}

func intKeyword(s *schema.Schema, key string, def int) int {
	if v, ok := s.Number(key); ok {
		return int(v)
	}
	return def
}

func appendComment(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "\n\n" + extra
}

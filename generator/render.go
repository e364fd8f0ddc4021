package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/erraggy/json2ts/ast"
	"github.com/erraggy/json2ts/internal/naming"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
)

// Renderer turns AST nodes into TypeScript type expressions. Results are
// memoized by node identity, so a Renderer must not outlive changes to
// the nodes it has rendered.
type Renderer struct {
	opts   *Options
	memo   map[*ast.Node]string
	active map[*ast.Node]bool
	err    error
}

// NewRenderer returns a Renderer for opts.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:   &opts,
		memo:   make(map[*ast.Node]string),
		active: make(map[*ast.Node]bool),
	}
}

// Err returns the first error met while rendering.
func (r *Renderer) Err() error {
	return r.err
}

// Type renders n as a type expression. Named nodes render as their name.
func (r *Renderer) Type(n *ast.Node) string {
	if s, ok := r.memo[n]; ok {
		return s
	}
	if r.active[n] {
		// An unnamed node containing itself has no finite spelling.
		return r.untyped()
	}
	r.active[n] = true
	t := r.raw(n)
	delete(r.active, n)

	if r.opts.StrictIndexSignatures && n.KeyName == ast.IndexSignature {
		t += " | undefined"
	}
	r.memo[n] = t
	return t
}

// Unnamed renders n as if it had no standalone name.
func (r *Renderer) Unnamed(n *ast.Node) string {
	c := *n
	c.StandaloneName = ""
	return r.Type(&c)
}

// Declared renders the right-hand side of a type alias for n. A top-level
// union or intersection drops its outer parentheses.
func (r *Renderer) Declared(n *ast.Node) string {
	bare := len(n.Params) > 1 &&
		(n.Kind == ast.Union || n.Kind == ast.Intersection) &&
		!(r.opts.StrictIndexSignatures && n.KeyName == ast.IndexSignature)
	if !bare {
		return r.Unnamed(n)
	}
	op := "|"
	if n.Kind == ast.Intersection {
		op = "&"
	}
	return strings.Join(r.members(n.Params), " "+op+" ")
}

func (r *Renderer) untyped() string {
	if r.opts.UnknownAny {
		return "unknown"
	}
	return "any"
}

func (r *Renderer) raw(n *ast.Node) string {
	if n.HasStandaloneName() {
		return naming.ToSafeString(n.StandaloneName)
	}
	switch n.Kind {
	case ast.Any:
		return "any"
	case ast.Unknown:
		return "unknown"
	case ast.Boolean:
		return "boolean"
	case ast.Never:
		return "never"
	case ast.Null:
		return "null"
	case ast.Number:
		return "number"
	case ast.Object:
		return "object"
	case ast.String:
		return "string"
	case ast.Reference, ast.CustomType:
		return n.Raw
	case ast.Literal:
		return r.literal(n.Value)
	case ast.Array:
		return arrayOf(r.Type(n.Elem))
	case ast.Tuple:
		return r.tuple(n)
	case ast.Union:
		return r.setOperation(n.Params, "|", "never")
	case ast.Intersection:
		return r.setOperation(n.Params, "&", "unknown")
	case ast.Interface:
		return r.interfaceBody(n)
	case ast.Enum:
		// Enums always carry a name; reaching here means the parser broke
		// that rule.
		r.fail(fmt.Sprintf("enum without a name at key %q", n.KeyName))
		return "never"
	default:
		r.fail(fmt.Sprintf("cannot render node of kind %s", n.Kind))
		return "never"
	}
}

func (r *Renderer) fail(msg string) {
	if r.err == nil {
		r.err = &tserrors.InternalError{Stage: "generate", Message: msg}
	}
}

func (r *Renderer) literal(v any) string {
	b, err := schema.MarshalValue(v)
	if err != nil {
		r.fail(fmt.Sprintf("cannot encode literal: %v", err))
		return "never"
	}
	return string(b)
}

func (r *Renderer) setOperation(params []*ast.Node, op, empty string) string {
	switch len(params) {
	case 0:
		return empty
	case 1:
		return r.Type(params[0])
	}
	return "(" + strings.Join(r.members(params), " "+op+" ") + ")"
}

func (r *Renderer) members(params []*ast.Node) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = r.Type(p)
	}
	return out
}

// tuple renders a bounded tuple. When more positions are possible than
// required, every allowed length gets its own fixed tuple in a union:
// optional elements would accept explicit undefined holes.
func (r *Renderer) tuple(n *ast.Node) string {
	minItems := n.MinItems
	maxItems := n.MaxItems
	if maxItems == 0 {
		maxItems = -1
	}
	spread := n.Spread
	params := append([]*ast.Node(nil), n.Params...)

	if minItems > 0 && minItems > len(params) && n.Spread == nil && maxItems < 0 {
		spread = ast.Untyped(r.opts.UnknownAny)
	}
	if maxItems > len(params) && n.Spread == nil {
		for len(params) < maxItems {
			params = append(params, ast.Untyped(r.opts.UnknownAny))
		}
	}

	types := make([]string, len(params))
	for i, p := range params {
		types[i] = r.Type(p)
	}
	withSpread := func(list []string) []string {
		if spread != nil {
			return append(list, "..."+arrayOf(r.Type(spread)))
		}
		return list
	}
	bracket := func(list []string) string {
		return "[" + strings.Join(list, ", ") + "]"
	}

	if len(types) <= minItems {
		return bracket(withSpread(types))
	}

	cumulative := append([]string(nil), types[:minItems]...)
	variants := []string{bracket(cumulative)}
	for i := minItems; i < len(types); i++ {
		cumulative = append(cumulative, types[i])
		entry := cumulative
		if i == len(types)-1 {
			entry = withSpread(append([]string(nil), cumulative...))
		}
		variants = append(variants, bracket(entry))
	}
	return strings.Join(variants, " | ")
}

func (r *Renderer) interfaceBody(n *ast.Node) string {
	var lines []string
	for _, f := range n.Fields {
		if f.IsPatternProperty || f.IsUnreachableDefinition {
			continue
		}
		var b strings.Builder
		if f.Node.HasComment() && !f.Node.HasStandaloneName() {
			b.WriteString(comment(f.Node.Comment, f.Node.Deprecated))
			b.WriteByte('\n')
		}
		b.WriteString(escapeKeyName(f.KeyName))
		if !f.IsRequired {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		b.WriteString(r.Type(f.Node))
		lines = append(lines, b.String())
	}
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n" + strings.Join(lines, "\n") + "\n}"
}

// arrayOf appends [] to t, wrapping t in parentheses when the suffix
// would otherwise bind to only part of it.
func arrayOf(t string) string {
	if strings.HasSuffix(t, `"`) || hasTopLevelOperator(t) {
		return "(" + t + ")[]"
	}
	return t + "[]"
}

// hasTopLevelOperator reports whether t contains | or & outside any
// brackets, braces, parentheses or string literal.
func hasTopLevelOperator(t string) bool {
	depth := 0
	var quote rune
	escaped := false
	for _, c := range t {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case (c == '|' || c == '&') && depth == 0:
			return true
		}
	}
	return false
}

var identifierKey = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// escapeKeyName quotes property names that are not plain identifiers.
func escapeKeyName(key string) string {
	if key == ast.IndexSignature || identifierKey.MatchString(key) {
		return key
	}
	b, err := schema.MarshalValue(key)
	if err != nil {
		return `"` + key + `"`
	}
	return string(b)
}

// comment renders a JSDoc block.
func comment(text string, deprecated bool) string {
	lines := []string{"/**"}
	if text != "" {
		for _, l := range strings.Split(text, "\n") {
			lines = append(lines, strings.TrimRight(" * "+l, " "))
		}
	}
	if deprecated {
		lines = append(lines, " * @deprecated")
	}
	lines = append(lines, " */")
	return strings.Join(lines, "\n")
}

package generator

import (
	"strings"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/ast"
	"github.com/erraggy/json2ts/internal/naming"
)

// endOfDeclarationThreshold is the line count above which a declaration
// gets an "// end of" marker when EndOfDeclarationComments is set.
const endOfDeclarationThreshold = 10

// Style controls indentation of formatted output.
type Style struct {
	IndentWidth int `validate:"gte=0,lte=16"`
	UseTabs     bool
}

// DefaultStyle is two-space indentation.
func DefaultStyle() Style {
	return Style{IndentWidth: 2}
}

// Options controls declaration output.
type Options struct {
	BannerComment string

	// DeclareExternallyReferenced declares named types reached from the
	// root, not only the root itself.
	DeclareExternallyReferenced bool

	EnableConstEnums bool

	// Format re-indents the output and terminates members and type
	// aliases with semicolons.
	Format bool
	Style  Style

	StrictIndexSignatures    bool
	UnknownAny               bool
	EndOfDeclarationComments bool

	Logger json2ts.Logger
}

type generator struct {
	opts     *Options
	r        *Renderer
	rootName string
}

// Generate renders the declarations reachable from root: the banner, then
// type aliases, then interfaces, then enums. Each declaration appears once
// however many paths reach it.
func Generate(root *ast.Node, opts Options) (string, error) {
	g := &generator{opts: &opts, r: NewRenderer(opts), rootName: root.StandaloneName}

	var types, interfaces, enums []string
	g.declareNamedTypes(root, make(map[*ast.Node]bool), &types)
	g.declareNamedInterfaces(root, make(map[*ast.Node]bool), &interfaces)
	g.declareEnums(root, make(map[*ast.Node]bool), &enums)
	if err := g.r.Err(); err != nil {
		return "", err
	}

	var sections []string
	if opts.BannerComment != "" {
		sections = append(sections, opts.BannerComment)
	}
	sections = append(sections, types...)
	sections = append(sections, interfaces...)
	sections = append(sections, enums...)
	out := strings.Join(sections, "\n\n") + "\n"

	if opts.Format {
		out = Format(out, opts.Style)
	}
	json2ts.OrNop(opts.Logger).Debug("generated declarations",
		"types", len(types), "interfaces", len(interfaces), "enums", len(enums), "bytes", len(out))
	return out, nil
}

func (g *generator) declares(n *ast.Node) bool {
	return n.StandaloneName == g.rootName || g.opts.DeclareExternallyReferenced
}

func (g *generator) declareNamedTypes(n *ast.Node, seen map[*ast.Node]bool, out *[]string) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true

	switch n.Kind {
	case ast.Array:
		g.declareNamedTypes(n.Elem, seen, out)
		if n.HasStandaloneName() {
			*out = append(*out, g.standaloneType(n))
		}
	case ast.Enum:
	case ast.Interface:
		for _, c := range superTypesAndParams(n) {
			if g.declares(c) {
				g.declareNamedTypes(c, seen, out)
			}
		}
	case ast.Intersection, ast.Tuple, ast.Union:
		if n.HasStandaloneName() {
			*out = append(*out, g.standaloneType(n))
		}
		for _, c := range n.Params {
			g.declareNamedTypes(c, seen, out)
		}
		if n.Kind == ast.Tuple {
			g.declareNamedTypes(n.Spread, seen, out)
		}
	default:
		if n.HasStandaloneName() {
			*out = append(*out, g.standaloneType(n))
		}
	}
}

func (g *generator) declareNamedInterfaces(n *ast.Node, seen map[*ast.Node]bool, out *[]string) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true

	switch n.Kind {
	case ast.Array:
		g.declareNamedInterfaces(n.Elem, seen, out)
	case ast.Interface:
		if n.HasStandaloneName() && g.declares(n) {
			*out = append(*out, g.standaloneInterface(n))
		}
		for _, c := range superTypesAndParams(n) {
			g.declareNamedInterfaces(c, seen, out)
		}
	case ast.Intersection, ast.Tuple, ast.Union:
		for _, c := range n.Params {
			g.declareNamedInterfaces(c, seen, out)
		}
		if n.Kind == ast.Tuple {
			g.declareNamedInterfaces(n.Spread, seen, out)
		}
	}
}

func (g *generator) declareEnums(n *ast.Node, seen map[*ast.Node]bool, out *[]string) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true

	switch n.Kind {
	case ast.Enum:
		*out = append(*out, g.standaloneEnum(n))
	case ast.Array:
		g.declareEnums(n.Elem, seen, out)
	case ast.Intersection, ast.Union:
		for _, c := range n.Params {
			g.declareEnums(c, seen, out)
		}
	case ast.Tuple:
		for _, c := range n.Params {
			g.declareEnums(c, seen, out)
		}
		g.declareEnums(n.Spread, seen, out)
	case ast.Interface:
		for _, c := range superTypesAndParams(n) {
			g.declareEnums(c, seen, out)
		}
	}
}

func superTypesAndParams(n *ast.Node) []*ast.Node {
	out := make([]*ast.Node, 0, len(n.Fields)+len(n.SuperTypes))
	for _, f := range n.Fields {
		out = append(out, f.Node)
	}
	return append(out, n.SuperTypes...)
}

func (g *generator) standaloneType(n *ast.Node) string {
	name := naming.ToSafeString(n.StandaloneName)
	var b strings.Builder
	if n.HasComment() {
		b.WriteString(comment(n.Comment, n.Deprecated))
		b.WriteByte('\n')
	}
	b.WriteString("export type ")
	b.WriteString(name)
	b.WriteString(" = ")
	b.WriteString(g.r.Declared(n))
	return g.endOf(b.String(), name)
}

func (g *generator) standaloneInterface(n *ast.Node) string {
	name := naming.ToSafeString(n.StandaloneName)
	var b strings.Builder
	if n.HasComment() {
		b.WriteString(comment(n.Comment, n.Deprecated))
		b.WriteByte('\n')
	}
	b.WriteString("export interface ")
	b.WriteString(name)
	b.WriteByte(' ')
	if len(n.SuperTypes) > 0 {
		supers := make([]string, len(n.SuperTypes))
		for i, st := range n.SuperTypes {
			supers[i] = g.r.Type(st)
		}
		b.WriteString("extends ")
		b.WriteString(strings.Join(supers, ", "))
		b.WriteByte(' ')
	}
	b.WriteString(g.r.interfaceBody(n))
	return g.endOf(b.String(), name)
}

func (g *generator) standaloneEnum(n *ast.Node) string {
	name := naming.ToSafeString(n.StandaloneName)
	var b strings.Builder
	if n.HasComment() {
		b.WriteString(comment(n.Comment, n.Deprecated))
		b.WriteByte('\n')
	}
	b.WriteString("export ")
	if g.opts.EnableConstEnums {
		b.WriteString("const ")
	}
	b.WriteString("enum ")
	b.WriteString(name)
	b.WriteString(" {\n")
	members := make([]string, len(n.Members))
	for i, m := range n.Members {
		members[i] = escapeKeyName(m.Name) + " = " + g.r.Type(m.Value)
	}
	b.WriteString(strings.Join(members, ",\n"))
	b.WriteString("\n}")
	return g.endOf(b.String(), name)
}

func (g *generator) endOf(decl, name string) string {
	if !g.opts.EndOfDeclarationComments || strings.Count(decl, "\n")+1 <= endOfDeclarationThreshold {
		return decl
	}
	return decl + "\n// end of " + name
}

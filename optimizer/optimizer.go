// Package optimizer simplifies unions and intersections in a parsed AST.
//
// Nodes are rewritten in place, children before parents, so every alias
// of a shared node sees the same result. Members are compared by their
// rendered TypeScript rather than by identity.
package optimizer

import (
	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/ast"
	"github.com/erraggy/json2ts/generator"
)

// Options controls optimization. Render must match the options the
// output will be generated with, since members are compared by their
// rendered form.
type Options struct {
	Render generator.Options
	Logger json2ts.Logger
}

type optimizer struct {
	opts *Options
	seen map[*ast.Node]bool

	collapsed int
	removed   int
}

// Optimize rewrites the unions and intersections reachable from root and
// returns root.
func Optimize(root *ast.Node, opts Options) *ast.Node {
	o := &optimizer{opts: &opts, seen: make(map[*ast.Node]bool)}
	o.optimize(root)
	json2ts.OrNop(opts.Logger).Debug("optimized AST",
		"nodes", len(o.seen), "collapsed", o.collapsed, "removed", o.removed)
	return root
}

func (o *optimizer) optimize(n *ast.Node) {
	if n == nil || o.seen[n] {
		return
	}
	o.seen[n] = true

	for _, c := range n.Children() {
		o.optimize(c)
	}
	if n.Kind == ast.Union || n.Kind == ast.Intersection {
		o.simplify(n)
	}
}

func (o *optimizer) simplify(n *ast.Node) {
	// [A, B, any] -> any, then [A, B, unknown] -> unknown.
	for _, absorbing := range []ast.Kind{ast.Any, ast.Unknown} {
		for _, p := range n.Params {
			if p.Kind == absorbing {
				n.Kind = absorbing
				n.Params = nil
				o.collapsed++
				return
			}
		}
	}

	for {
		before := len(n.Params)
		n.Params = o.preferNamed(n.Params)
		n.Params = o.dedupe(n.Params)
		if len(n.Params) == before {
			return
		}
		o.removed += before - len(n.Params)
	}
}

// preferNamed keeps only the named members when every member renders the
// same once names are ignored: [A (named), A] -> [A (named)].
func (o *optimizer) preferNamed(params []*ast.Node) []*ast.Node {
	if len(params) < 2 {
		return params
	}
	r := generator.NewRenderer(o.opts.Render)
	first := r.Unnamed(params[0])
	anyNamed := false
	for _, p := range params {
		if r.Unnamed(p) != first {
			return params
		}
		anyNamed = anyNamed || p.HasStandaloneName()
	}
	if !anyNamed {
		return params
	}
	named := make([]*ast.Node, 0, len(params))
	for _, p := range params {
		if p.HasStandaloneName() {
			named = append(named, p)
		}
	}
	return named
}

// dedupe drops members whose rendering repeats an earlier member's.
func (o *optimizer) dedupe(params []*ast.Node) []*ast.Node {
	r := generator.NewRenderer(o.opts.Render)
	seen := make(map[string]bool, len(params))
	out := params[:0:0]
	for _, p := range params {
		t := r.Type(p)
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, p)
	}
	return out
}

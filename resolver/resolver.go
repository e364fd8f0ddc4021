package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/internal/pathutil"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
)

// Result is the outcome of a resolution.
type Result struct {
	// Schema is the resolved root. It differs from the input only when the
	// root itself was a $ref.
	Schema *schema.Schema

	// DereferencedPaths maps each node reached through a $ref to the first
	// $ref string that reached it.
	DereferencedPaths map[*schema.Schema]string
}

// document is a loaded schema document and where it came from.
type document struct {
	// location is an absolute file path, a URL, or "" for an anonymous root
	location string
	root     any
}

type resolver struct {
	ctx  context.Context
	opts *Options
	log  json2ts.Logger

	absCwd  string
	fetch   Fetcher
	docs    map[string]*document
	loaded  int
	refs    int
	visited map[*schema.Schema]bool
	// replaced memoizes the node each $ref node resolved to
	replaced map[*schema.Schema]any
	// inFlight holds $ref nodes whose target is still being looked up
	inFlight map[*schema.Schema]bool
	derefs   map[*schema.Schema]string
}

// Resolve replaces every $ref reachable from root, in place.
func Resolve(ctx context.Context, root *schema.Schema, opts Options) (*Result, error) {
	if root == nil {
		return nil, errors.New("resolver: nil schema")
	}
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolver: %w", err)
		}
		cwd = wd
	}
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to resolve working directory: %w", err)
	}

	r := &resolver{
		ctx:      ctx,
		opts:     &opts,
		log:      json2ts.OrNop(opts.Logger),
		absCwd:   absCwd,
		fetch:    opts.Fetcher,
		docs:     make(map[string]*document),
		visited:  make(map[*schema.Schema]bool),
		replaced: make(map[*schema.Schema]any),
		inFlight: make(map[*schema.Schema]bool),
		derefs:   make(map[*schema.Schema]string),
	}
	if r.fetch == nil {
		r.fetch = NewHTTPFetcher(opts.HTTPClient, opts.UserAgent, opts.fileSize())
	}

	rootDoc := &document{root: root}
	if opts.Location != "" {
		rootDoc.location = r.canonical(opts.Location, nil)
		r.docs[rootDoc.location] = rootDoc
	}

	out, err := r.resolveValue(root, rootDoc, 0)
	if err != nil {
		return nil, err
	}
	resolved, ok := out.(*schema.Schema)
	if !ok {
		return nil, &tserrors.ReferenceError{
			Ref:     "#",
			RefType: "local",
			Message: fmt.Sprintf("root resolves to %T, want object", out),
		}
	}

	r.log.Debug("resolved references",
		"refs", r.refs,
		"externalDocuments", r.loaded,
		"dereferencedNodes", len(r.derefs))
	return &Result{Schema: resolved, DereferencedPaths: r.derefs}, nil
}

// resolveValue returns v with all refs replaced. Objects and arrays are
// rewritten in place; a $ref node is returned as its replacement.
func (r *resolver) resolveValue(v any, doc *document, depth int) (any, error) {
	switch x := v.(type) {
	case *schema.Schema:
		if x == nil {
			return x, nil
		}
		if ref, ok := x.String("$ref"); ok {
			return r.resolveRef(x, ref, doc, depth)
		}
		if r.visited[x] {
			return x, nil
		}
		r.visited[x] = true
		for _, k := range x.Keys() {
			child, err := r.resolveValue(x.Value(k), doc, depth)
			if err != nil {
				return nil, err
			}
			x.Set(k, child)
		}
		return x, nil
	case []any:
		for i, item := range x {
			child, err := r.resolveValue(item, doc, depth)
			if err != nil {
				return nil, err
			}
			x[i] = child
		}
		return x, nil
	default:
		return v, nil
	}
}

func (r *resolver) resolveRef(node *schema.Schema, ref string, doc *document, depth int) (any, error) {
	if out, ok := r.replaced[node]; ok {
		return out, nil
	}
	if depth >= r.opts.refDepth() {
		return nil, &tserrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(r.opts.refDepth()),
			Actual:       int64(depth + 1),
			Message:      "while resolving " + ref,
		}
	}
	if r.inFlight[node] {
		return nil, &tserrors.ReferenceError{
			Ref:     ref,
			RefType: refType(ref, doc),
			Message: "reference chain never reaches a schema",
		}
	}
	r.inFlight[node] = true
	defer delete(r.inFlight, node)
	r.refs++

	target, targetDoc, err := r.lookup(ref, doc, depth)
	if err != nil {
		return nil, err
	}

	// Register the replacement before descending so cycles back to node
	// see the final identity.
	var merged *schema.Schema
	if t, ok := target.(*schema.Schema); ok && t != nil {
		if node.Len() > 1 {
			merged = schema.New()
			r.visited[merged] = true
			r.replaced[node] = merged
		} else if _, chained := t.String("$ref"); !chained {
			r.replaced[node] = t
		}
	}

	target, err = r.resolveValue(target, targetDoc, depth+1)
	if err != nil {
		return nil, err
	}
	t, isSchema := target.(*schema.Schema)
	if isSchema {
		if _, seen := r.derefs[t]; !seen {
			r.derefs[t] = ref
		}
	}
	if merged == nil {
		r.replaced[node] = target
		return target, nil
	}

	for _, k := range node.Keys() {
		if k == "$ref" {
			continue
		}
		child, err := r.resolveValue(node.Value(k), doc, depth)
		if err != nil {
			return nil, err
		}
		merged.Set(k, child)
	}
	if isSchema {
		for _, k := range t.Keys() {
			if !merged.Has(k) {
				merged.Set(k, t.Value(k))
			}
		}
	}
	return merged, nil
}

// lookup finds the raw target of ref and the document it lives in.
func (r *resolver) lookup(ref string, doc *document, depth int) (any, *document, error) {
	docPart, fragment := pathutil.SplitRef(ref)

	target := doc
	if docPart != "" {
		loc := r.canonical(docPart, doc)
		if isURL(loc) && !r.opts.ResolveHTTPRefs {
			return nil, nil, &tserrors.ReferenceError{
				Ref:     ref,
				RefType: "http",
				Message: "HTTP references are disabled",
			}
		}
		if !isURL(loc) {
			rel, err := filepath.Rel(r.absCwd, loc)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return nil, nil, &tserrors.ReferenceError{
					Ref:             ref,
					RefType:         "file",
					IsPathTraversal: true,
				}
			}
		}
		loaded, err := r.load(loc, ref)
		if err != nil {
			return nil, nil, err
		}
		target = loaded
	}

	node, err := r.walkPointer(target, ref, fragment, depth)
	if err != nil {
		return nil, nil, err
	}
	return node, target, nil
}

// walkPointer follows a JSON pointer fragment from the root of doc.
// Intermediate $ref nodes are followed so pointers may pass through them,
// except refs still being resolved: a pointer cannot pass through itself.
func (r *resolver) walkPointer(doc *document, ref, fragment string, depth int) (any, error) {
	cur := doc.root
	for _, token := range pathutil.ParsePointer(fragment) {
		if s, ok := cur.(*schema.Schema); ok && !s.Has(token) && !r.inFlight[s] {
			if inner, ok := s.String("$ref"); ok {
				followed, err := r.resolveRef(s, inner, doc, depth+1)
				if err != nil {
					return nil, err
				}
				cur = followed
			}
		}

		switch x := cur.(type) {
		case *schema.Schema:
			next, ok := x.Get(token)
			if !ok {
				return nil, missing(ref, doc)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(x) {
				return nil, missing(ref, doc)
			}
			cur = x[i]
		default:
			return nil, missing(ref, doc)
		}
	}
	return cur, nil
}

func missing(ref string, doc *document) error {
	return &tserrors.ReferenceError{
		Ref:     ref,
		RefType: refType(ref, doc),
		Message: "target not found",
	}
}

// canonical turns a ref's document part into a cache key: a URL or an
// absolute, cleaned file path.
func (r *resolver) canonical(docPart string, from *document) string {
	if isURL(docPart) {
		return docPart
	}
	if from != nil && isURL(from.location) {
		base, err := url.Parse(from.location)
		if err == nil {
			if rel, err := url.Parse(docPart); err == nil {
				return base.ResolveReference(rel).String()
			}
		}
	}
	if filepath.IsAbs(docPart) {
		return filepath.Clean(docPart)
	}
	dir := r.absCwd
	if from != nil && from.location != "" && !isURL(from.location) {
		dir = filepath.Dir(from.location)
	}
	return filepath.Clean(filepath.Join(dir, docPart))
}

// load returns the document at loc, reading and caching it on first use.
func (r *resolver) load(loc, ref string) (*document, error) {
	if doc, ok := r.docs[loc]; ok {
		return doc, nil
	}
	if r.loaded >= r.opts.cachedDocuments() {
		return nil, &tserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(r.opts.cachedDocuments()),
			Actual:       int64(r.loaded + 1),
			Message:      "too many external references",
		}
	}

	var (
		data []byte
		err  error
		kind = "file"
	)
	if isURL(loc) {
		kind = "http"
		r.log.Debug("fetching external schema", "url", loc)
		data, err = r.fetch(r.ctx, loc)
	} else {
		r.log.Debug("reading external schema", "path", loc)
		data, err = os.ReadFile(loc) //nolint:gosec // bounded to cwd above
	}
	if err != nil {
		return nil, &tserrors.ReferenceError{Ref: ref, RefType: kind, Cause: err}
	}
	if int64(len(data)) > r.opts.fileSize() {
		return nil, &tserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        r.opts.fileSize(),
			Actual:       int64(len(data)),
			Message:      loc,
		}
	}

	root, err := schema.Decode(data)
	if err != nil {
		return nil, &tserrors.ParseError{Source: loc, Cause: err}
	}
	doc := &document{location: loc, root: root}
	r.docs[loc] = doc
	r.loaded++
	return doc, nil
}

func refType(ref string, doc *document) string {
	docPart, _ := pathutil.SplitRef(ref)
	switch {
	case docPart == "" && isURL(doc.location):
		return "http"
	case docPart == "":
		return "local"
	case isURL(docPart), isURL(doc.location):
		return "http"
	default:
		return "file"
	}
}

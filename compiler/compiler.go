package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/generator"
	"github.com/erraggy/json2ts/internal/issues"
	"github.com/erraggy/json2ts/linker"
	"github.com/erraggy/json2ts/normalizer"
	"github.com/erraggy/json2ts/optimizer"
	"github.com/erraggy/json2ts/parser"
	"github.com/erraggy/json2ts/resolver"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
	"github.com/erraggy/json2ts/validator"
)

// Violation is one broken structural rule found by Validate.
type Violation struct {
	// Path is the JSON pointer to the offending node
	Path string `json:"path" yaml:"path"`
	// Key is the property or definition name of the node ("" for the root)
	Key string `json:"key" yaml:"key"`
	// File is the compile name
	File string `json:"file" yaml:"file"`
	// Rule is the text of the violated rule
	Rule string `json:"rule" yaml:"rule"`
}

// Message renders the violation the way ValidationError lists it.
func (v Violation) Message() string {
	return issues.Issue{Key: v.Key, File: v.File, Rule: v.Rule}.Message()
}

// Compile converts s into TypeScript declarations. name is the file name
// or type name the root is called after when it has no title or $id.
//
// s is cloned first, so it is never modified and may be shared between
// concurrent calls.
//
// Example:
//
//	ts, err := compiler.Compile(ctx, s, "Widget",
//	    compiler.WithBannerComment(""),
//	    compiler.WithUnknownAny(false),
//	)
func Compile(ctx context.Context, s *schema.Schema, name string, opts ...Option) (string, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return "", err
	}
	return cfg.compile(ctx, s, name, "")
}

// CompileBytes decodes data as JSON or YAML and compiles it.
func CompileBytes(ctx context.Context, data []byte, name string, opts ...Option) (string, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return "", err
	}
	s, err := decode(data, name)
	if err != nil {
		return "", err
	}
	return cfg.compile(ctx, s, name, "")
}

// CompileFile reads and compiles the schema at path. The file name is the
// compile name, and relative references resolve against the file's
// directory unless WithCwd says otherwise.
func CompileFile(ctx context.Context, path string, opts ...Option) (string, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return "", err
	}
	s, location, err := cfg.readFile(path)
	if err != nil {
		return "", err
	}
	return cfg.compile(ctx, s, filepath.Base(path), location)
}

// Validate runs resolution and the structural rules only. A schema that
// breaks rules yields its violations and a nil error; the error reports
// failures that stop validation itself, such as an unresolvable $ref.
func Validate(ctx context.Context, s *schema.Schema, name string, opts ...Option) ([]Violation, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return cfg.validate(ctx, s, name, "")
}

// ValidateFile is Validate for the schema at path.
func ValidateFile(ctx context.Context, path string, opts ...Option) ([]Violation, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	s, location, err := cfg.readFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.validate(ctx, s, filepath.Base(path), location)
}

func decode(data []byte, source string) (*schema.Schema, error) {
	s, err := schema.DecodeSchema(data)
	if err != nil {
		return nil, &tserrors.ParseError{Source: source, Cause: err}
	}
	return s, nil
}

// readFile loads path, defaulting Cwd to its directory. It returns the
// absolute path the resolver uses as the root document's location.
func (o *Options) readFile(path string) (*schema.Schema, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("compiler: failed to resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", &tserrors.ParseError{Source: path, Message: "failed to read file", Cause: err}
	}
	limit := o.RefOptions.MaxFileSize
	if limit <= 0 {
		limit = resolver.MaxFileSize
	}
	if info.Size() > limit {
		return nil, "", &tserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Actual:       info.Size(),
			Message:      path,
		}
	}
	data, err := os.ReadFile(abs) //nolint:gosec // path is caller-provided
	if err != nil {
		return nil, "", &tserrors.ParseError{Source: path, Message: "failed to read file", Cause: err}
	}
	s, err := decode(data, path)
	if err != nil {
		return nil, "", err
	}
	if o.Cwd == "" {
		o.Cwd = filepath.Dir(abs)
	}
	return s, abs, nil
}

// prepare clones s and runs the stages every entry point shares:
// resolution and linking.
func (o *Options) prepare(ctx context.Context, s *schema.Schema, location string, log json2ts.Logger) (*resolver.Result, error) {
	if s == nil {
		return nil, &tserrors.ConfigError{Option: "schema", Message: "schema cannot be nil"}
	}
	root, _ := schema.DeepClone(s).(*schema.Schema)

	res, err := resolver.Resolve(ctx, root, resolver.Options{
		Cwd:                o.Cwd,
		Location:           location,
		ResolveHTTPRefs:    o.RefOptions.ResolveHTTPRefs,
		HTTPClient:         o.RefOptions.HTTPClient,
		UserAgent:          o.RefOptions.UserAgent,
		Fetcher:            o.RefOptions.Fetcher,
		MaxRefDepth:        o.RefOptions.MaxRefDepth,
		MaxCachedDocuments: o.RefOptions.MaxCachedDocuments,
		MaxFileSize:        o.RefOptions.MaxFileSize,
		Logger:             log.With("stage", "resolve"),
	})
	if err != nil {
		return nil, err
	}
	linker.Link(res.Schema, log.With("stage", "link"))
	return res, nil
}

func (o *Options) validate(ctx context.Context, s *schema.Schema, name, location string) ([]Violation, error) {
	log := json2ts.OrNop(o.Logger)
	res, err := o.prepare(ctx, s, location, log)
	if err != nil {
		return nil, err
	}
	found, err := validator.Validate(res.Schema, name, log.With("stage", "validate"))
	if err != nil && !errors.Is(err, tserrors.ErrValidation) {
		return nil, err
	}
	out := make([]Violation, 0, len(found))
	for _, i := range found {
		out = append(out, Violation{Path: i.Path, Key: i.Key, File: i.File, Rule: i.Rule})
	}
	return out, nil
}

func (o *Options) compile(ctx context.Context, s *schema.Schema, name, location string) (string, error) {
	log := json2ts.OrNop(o.Logger)
	log.Debug("compiling schema", "name", name)

	res, err := o.prepare(ctx, s, location, log)
	if err != nil {
		return "", err
	}
	root := res.Schema

	if _, err := validator.Validate(root, name, log.With("stage", "validate")); err != nil {
		return "", err
	}

	err = normalizer.Normalize(root, name, res.DereferencedPaths, normalizer.Options{
		AdditionalProperties:          o.AdditionalProperties,
		IgnoreMinAndMaxItems:          o.IgnoreMinAndMaxItems,
		MaxItems:                      o.MaxItems,
		InferStringEnumKeysFromValues: o.InferStringEnumKeysFromValues,
		Logger:                        log.With("stage", "normalize"),
	})
	if err != nil {
		return "", err
	}

	tree, err := parser.Parse(root, parser.Options{
		UnknownAny:             o.UnknownAny,
		UnreachableDefinitions: o.UnreachableDefinitions,
		CustomName:             o.CustomName,
		Logger:                 log.With("stage", "parse"),
	})
	if err != nil {
		return "", err
	}

	gen := generator.Options{
		BannerComment:               o.BannerComment,
		DeclareExternallyReferenced: o.DeclareExternallyReferenced,
		EnableConstEnums:            o.EnableConstEnums,
		Format:                      o.Format,
		Style:                       o.Style,
		StrictIndexSignatures:       o.StrictIndexSignatures,
		UnknownAny:                  o.UnknownAny,
		EndOfDeclarationComments:    o.EndOfDeclarationComments,
		Logger:                      log.With("stage", "generate"),
	}
	optimizer.Optimize(tree, optimizer.Options{Render: gen, Logger: log.With("stage", "optimize")})

	out, err := generator.Generate(tree, gen)
	if err != nil {
		return "", err
	}
	log.Debug("compiled schema", "name", name, "bytes", len(out))
	return out, nil
}

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/json2ts/compiler"
)

type compileInput struct {
	Schema                        schemaInput `json:"schema"                                       jsonschema:"The JSON Schema to compile"`
	BannerComment                 *string     `json:"banner_comment,omitempty"                     jsonschema:"Comment written above the declarations; empty string disables it"`
	UnknownAny                    *bool       `json:"unknown_any,omitempty"                        jsonschema:"Use unknown instead of any for untyped schemas"`
	AdditionalProperties          *bool       `json:"additional_properties,omitempty"              jsonschema:"Default additionalProperties for object schemas"`
	MaxItems                      *int        `json:"max_items,omitempty"                          jsonschema:"Largest tuple length generated from maxItems (-1 for no limit)"`
	StrictIndexSignatures         bool        `json:"strict_index_signatures,omitempty"            jsonschema:"Add | undefined to index signatures"`
	UnreachableDefinitions        bool        `json:"unreachable_definitions,omitempty"            jsonschema:"Declare $defs entries nothing references"`
	IgnoreMinAndMaxItems          bool        `json:"ignore_min_and_max_items,omitempty"           jsonschema:"Ignore minItems and maxItems instead of generating tuples"`
	InferStringEnumKeysFromValues bool        `json:"infer_string_enum_keys_from_values,omitempty" jsonschema:"Name string enum members after their values"`
	NoConstEnums                  bool        `json:"no_const_enums,omitempty"                     jsonschema:"Emit enum instead of const enum"`
	ResolveHTTPRefs               bool        `json:"resolve_http_refs,omitempty"                  jsonschema:"Resolve http:// and https:// $ref targets"`
}

type compileOutput struct {
	Name       string `json:"name"`
	TypeScript string `json:"typescript"`
	Bytes      int    `json:"bytes"`
}

// baseOptions are the options every tool call starts from: the JSON2TS_*
// defaults, the input's directory, and the SSRF-safe client.
func baseOptions(l *loadedSchema, resolveHTTP bool) []compiler.Option {
	opts := []compiler.Option{
		compiler.WithBannerComment(cfg.BannerComment),
		compiler.WithUnknownAny(cfg.UnknownAny),
		compiler.WithAdditionalProperties(cfg.AdditionalProperties),
		compiler.WithMaxItems(cfg.MaxItems),
		compiler.WithResolveHTTPRefs(resolveHTTP),
		compiler.WithHTTPClient(refClient()),
	}
	if l.Dir != "" {
		opts = append(opts, compiler.WithCwd(l.Dir))
	}
	return opts
}

func (in compileInput) options(l *loadedSchema) []compiler.Option {
	opts := baseOptions(l, in.ResolveHTTPRefs)
	if in.BannerComment != nil {
		opts = append(opts, compiler.WithBannerComment(*in.BannerComment))
	}
	if in.UnknownAny != nil {
		opts = append(opts, compiler.WithUnknownAny(*in.UnknownAny))
	}
	if in.AdditionalProperties != nil {
		opts = append(opts, compiler.WithAdditionalProperties(*in.AdditionalProperties))
	}
	if in.MaxItems != nil {
		opts = append(opts, compiler.WithMaxItems(*in.MaxItems))
	}
	return append(opts,
		compiler.WithStrictIndexSignatures(in.StrictIndexSignatures),
		compiler.WithUnreachableDefinitions(in.UnreachableDefinitions),
		compiler.WithIgnoreMinAndMaxItems(in.IgnoreMinAndMaxItems),
		compiler.WithInferStringEnumKeysFromValues(in.InferStringEnumKeysFromValues),
		compiler.WithEnableConstEnums(!in.NoConstEnums),
	)
}

func handleCompile(ctx context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	l, err := input.Schema.load(ctx)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	ts, err := compiler.Compile(ctx, l.Schema, l.Name, input.options(l)...)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	return nil, compileOutput{Name: l.Name, TypeScript: ts, Bytes: len(ts)}, nil
}

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/json2ts/compiler"
)

type validateInput struct {
	Schema          schemaInput `json:"schema"                      jsonschema:"The JSON Schema to validate"`
	ResolveHTTPRefs bool        `json:"resolve_http_refs,omitempty" jsonschema:"Resolve http:// and https:// $ref targets"`
	Offset          int         `json:"offset,omitempty"            jsonschema:"Skip the first N violations (for pagination)"`
	Limit           int         `json:"limit,omitempty"             jsonschema:"Maximum number of violations to return (default 100)"`
}

type validateIssue struct {
	Path    string `json:"path"`
	Key     string `json:"key,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type validateOutput struct {
	Valid      bool            `json:"valid"`
	ErrorCount int             `json:"error_count"`
	Returned   int             `json:"returned"`
	Errors     []validateIssue `json:"errors,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	l, err := input.Schema.load(ctx)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	violations, err := compiler.Validate(ctx, l.Schema, l.Name, baseOptions(l, input.ResolveHTTPRefs)...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:      len(violations) == 0,
		ErrorCount: len(violations),
	}
	output.Errors = makeSlice[validateIssue](len(violations))
	for _, v := range violations {
		output.Errors = append(output.Errors, validateIssue{
			Path:    v.Path,
			Key:     v.Key,
			Rule:    v.Rule,
			Message: v.Message(),
		})
	}
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	output.Returned = len(output.Errors)

	return nil, output, nil
}

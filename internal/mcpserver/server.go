// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the json2ts compiler as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/json2ts"
)

const serverInstructions = `json2ts MCP server: compiles JSON Schema documents into TypeScript declarations and checks them against the compiler's structural rules.

Configuration: defaults come from JSON2TS_* environment variables set in your MCP client config.

Key settings:
- JSON2TS_UNKNOWN_ANY (default: true) - use unknown instead of any
- JSON2TS_ADDITIONAL_PROPERTIES (default: true) - default additionalProperties
- JSON2TS_MAX_ITEMS (default: 20) - largest tuple generated from maxItems, -1 for no limit
- JSON2TS_BANNER_COMMENT - banner written above the output, "none" to omit it
- JSON2TS_CACHE_ENABLED (default: true) - cache decoded schemas per session
- JSON2TS_ALLOW_PRIVATE_IPS (default: false) - allow url inputs and HTTP $refs to reach private addresses

Caching: decoded schemas are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		schemaCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "json2ts", Version: json2ts.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile a JSON Schema (draft-04 style, JSON or YAML) into TypeScript declarations. Provide the schema as file, url, or inline content. $refs are resolved first; http(s) $refs only when resolve_http_refs is set. Returns the TypeScript source. Run validate first on unfamiliar schemas to see rule violations with their JSON pointers.",
	}, handleCompile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Check a JSON Schema against the rules the compiler enforces (minItems/maxItems bounds, tsEnumNames shape, deprecated type). Returns every violation with its JSON pointer. Use offset/limit to paginate through results.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ValidateLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ValidateLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths so error messages do not
// leak the server's directory layout to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

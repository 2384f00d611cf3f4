// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apiids capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sdmap/apiids"
	"github.com/sdmap/apiids/normalizer"
	"github.com/sdmap/apiids/patterns"
)

const serverInstructions = `apiids MCP server: maps service endpoint URLs to API IDs and normalizes fixture files.

Endpoints are matched against an ordered pattern table; the first entry whose pattern matches the start of the endpoint wins. Path parameters written as :name match any single path segment. Matches flagged needs_review come from entries whose ID depends on context the endpoint does not carry, or from duplicate patterns with different IDs.

Configuration: defaults are configurable via APIIDS_MCP_* environment variables set in your MCP client config.

Key settings:
- APIIDS_MCP_ALLOW_WRITE (default: false): let normalize_fixture rewrite files on disk
- APIIDS_MCP_LIST_LIMIT (default: 100): default page size for list_patterns
- APIIDS_MCP_MAX_INLINE_SIZE (default: 10MiB): maximum inline table or fixture size
- APIIDS_MCP_CACHE_FILE_TTL (default: 15m): cache TTL for table files`

// toolset holds the state shared by the tool handlers.
type toolset struct {
	table  *patterns.Table
	logger normalizer.Logger
}

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled. table is used by every tool call that does not
// supply its own table.
func Run(ctx context.Context, table *patterns.Table, logger normalizer.Logger) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apiids", Version: apiids.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, newToolset(table, logger))
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newToolset(table *patterns.Table, logger normalizer.Logger) *toolset {
	if table == nil {
		table = patterns.Default()
	}
	if logger == nil {
		logger = normalizer.NopLogger{}
	}
	return &toolset{table: table, logger: logger}
}

func registerAllTools(server *mcp.Server, ts *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lookup_endpoint",
		Description: "Look up the API ID for one or more endpoint URLs. Returns the canonical form of each endpoint (path parameters such as :nino become {nino}), the matched API ID and table position, or matched=false. Use a custom table via table.file or table.content, and table.duplicates=first to resolve duplicate patterns to their first declaration.",
	}, ts.handleLookup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_patterns",
		Description: "List the entries of the pattern table in match order, with the service each belongs to and review notes. Filter by service (first path segment) or api_id. Also returns duplicate pattern conflicts. Use offset/limit to paginate; the default limit is configurable via APIIDS_MCP_LIST_LIMIT.",
	}, ts.handleListPatterns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_fixture",
		Description: "Replace the endpoint fields of a fixture document's interactions and externalDependencies with apiId fields. Returns every replacement and every endpoint left unresolved. Inline content is never written. File input is rewritten in place only when dry_run=false and the server allows writes (APIIDS_MCP_ALLOW_WRITE). Use include_document=true to receive the normalized JSON.",
	}, ts.handleNormalize)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
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

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
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

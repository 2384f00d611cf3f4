package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sdmap/apiids/patterns"
)

type lookupInput struct {
	Endpoints []string   `json:"endpoints"       jsonschema:"Endpoint URLs to look up, e.g. /citizen-details/:nino/designatory-details"`
	Table     tableInput `json:"table,omitempty" jsonschema:"Pattern table to use instead of the server's table"`
}

type lookupMatch struct {
	Endpoint    string `json:"endpoint"`
	Canonical   string `json:"canonical"`
	Matched     bool   `json:"matched"`
	APIID       string `json:"api_id,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Index       *int   `json:"index,omitempty"`
	Note        string `json:"note,omitempty"`
	NeedsReview bool   `json:"needs_review,omitempty"`
}

type lookupOutput struct {
	Matched   int           `json:"matched"`
	Unmatched int           `json:"unmatched"`
	Results   []lookupMatch `json:"results"`
}

func (ts *toolset) handleLookup(_ context.Context, _ *mcp.CallToolRequest, input lookupInput) (*mcp.CallToolResult, lookupOutput, error) {
	if len(input.Endpoints) == 0 {
		return errResult(fmt.Errorf("at least one endpoint must be provided")), lookupOutput{}, nil
	}
	if len(input.Endpoints) > cfg.MaxEndpoints {
		return errResult(fmt.Errorf("%d endpoints exceeds maximum %d; set APIIDS_MCP_MAX_ENDPOINTS to increase",
			len(input.Endpoints), cfg.MaxEndpoints)), lookupOutput{}, nil
	}

	table, err := input.Table.resolve(ts.table)
	if err != nil {
		return errResult(err), lookupOutput{}, nil
	}

	output := lookupOutput{Results: make([]lookupMatch, 0, len(input.Endpoints))}
	for _, endpoint := range input.Endpoints {
		result := lookupMatch{Endpoint: endpoint, Canonical: patterns.Canonicalize(endpoint)}
		if m, ok := table.Match(endpoint); ok {
			index := m.Index
			result.Matched = true
			result.APIID = m.Entry.APIID
			result.Pattern = m.Entry.Pattern
			result.Index = &index
			result.Note = m.Entry.Note
			result.NeedsReview = m.NeedsReview()
			output.Matched++
		} else {
			output.Unmatched++
		}
		output.Results = append(output.Results, result)
	}

	ts.logger.Debug("lookup_endpoint", "endpoints", len(input.Endpoints), "matched", output.Matched)
	return nil, output, nil
}

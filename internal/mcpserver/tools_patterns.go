package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sdmap/apiids/patterns"
)

type listPatternsInput struct {
	Service string     `json:"service,omitempty" jsonschema:"Only list entries whose pattern starts with this path segment, e.g. citizen-details"`
	APIID   string     `json:"api_id,omitempty"  jsonschema:"Only list entries mapping to this API ID"`
	Table   tableInput `json:"table,omitempty"   jsonschema:"Pattern table to use instead of the server's table"`
	Offset  int        `json:"offset,omitempty"  jsonschema:"Skip the first N results (for pagination)"`
	Limit   int        `json:"limit,omitempty"   jsonschema:"Maximum number of results to return (default 100)"`
}

type patternSummary struct {
	// Index is the declaration position, as reported by lookup_endpoint
	Index     int    `json:"index"`
	Pattern   string `json:"pattern"`
	APIID     string `json:"api_id"`
	Service   string `json:"service"`
	Note      string `json:"note,omitempty"`
	Ambiguous bool   `json:"ambiguous,omitempty"`
}

type conflictSummary struct {
	Pattern  string   `json:"pattern"`
	Indexes  []int    `json:"indexes"`
	APIIDs   []string `json:"api_ids"`
	Resolved string   `json:"resolved"`
}

type listPatternsOutput struct {
	Policy    string            `json:"duplicate_policy"`
	Total     int               `json:"total"`
	Matches   int               `json:"matches"`
	Returned  int               `json:"returned"`
	Patterns  []patternSummary  `json:"patterns,omitempty"`
	Conflicts []conflictSummary `json:"conflicts,omitempty"`
}

func (ts *toolset) handleListPatterns(_ context.Context, _ *mcp.CallToolRequest, input listPatternsInput) (*mcp.CallToolResult, listPatternsOutput, error) {
	table, err := input.Table.resolve(ts.table)
	if err != nil {
		return errResult(err), listPatternsOutput{}, nil
	}

	entries := table.Entries()
	positions := table.Positions()
	var all []patternSummary
	for i, e := range entries {
		service := patterns.Service(e.Pattern)
		if input.Service != "" && service != input.Service {
			continue
		}
		if input.APIID != "" && e.APIID != input.APIID {
			continue
		}
		all = append(all, patternSummary{
			Index:     positions[i],
			Pattern:   e.Pattern,
			APIID:     e.APIID,
			Service:   service,
			Note:      e.Note,
			Ambiguous: e.Ambiguous,
		})
	}

	page := paginate(all, input.Offset, input.Limit)
	output := listPatternsOutput{
		Policy:   string(table.Policy()),
		Total:    len(entries),
		Matches:  len(all),
		Returned: len(page),
		Patterns: page,
	}

	conflicts := table.Conflicts()
	output.Conflicts = makeSlice[conflictSummary](len(conflicts))
	for _, c := range conflicts {
		output.Conflicts = append(output.Conflicts, conflictSummary{
			Pattern:  c.Pattern,
			Indexes:  c.Indexes,
			APIIDs:   c.APIIDs,
			Resolved: c.Resolved,
		})
	}

	return nil, output, nil
}

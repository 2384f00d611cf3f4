package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sdmap/apiids/normalizer"
)

type normalizeInput struct {
	Fixture         fixtureInput `json:"fixture"                    jsonschema:"The fixture document to normalize"`
	Table           tableInput   `json:"table,omitempty"            jsonschema:"Pattern table to use instead of the server's table"`
	DryRun          bool         `json:"dry_run,omitempty"          jsonschema:"Report replacements without writing the file"`
	IncludeDocument bool         `json:"include_document,omitempty" jsonschema:"Return the normalized document as JSON text"`
}

type replacementSummary struct {
	Collection  string `json:"collection"`
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Endpoint    string `json:"endpoint"`
	APIID       string `json:"api_id"`
	NeedsReview bool   `json:"needs_review,omitempty"`
	Note        string `json:"note,omitempty"`
}

type unresolvedSummary struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
	Label      string `json:"label"`
	Endpoint   string `json:"endpoint,omitempty"`
	Reason     string `json:"reason"`
}

type normalizeOutput struct {
	Modified     bool                 `json:"modified"`
	Written      bool                 `json:"written"`
	Replacements []replacementSummary `json:"replacements,omitempty"`
	Unresolved   []unresolvedSummary  `json:"unresolved,omitempty"`
	Document     string               `json:"document,omitempty"`
}

func (ts *toolset) handleNormalize(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	table, err := input.Table.resolve(ts.table)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	dryRun := input.DryRun || !cfg.AllowWrite
	n := normalizer.New(table, normalizer.WithLogger(ts.logger), normalizer.WithDryRun(dryRun))

	res, err := input.Fixture.normalize(n)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	output := normalizeOutput{
		Modified:     res.Modified(),
		Written:      res.Written,
		Replacements: makeSlice[replacementSummary](len(res.Replacements)),
		Unresolved:   makeSlice[unresolvedSummary](len(res.Unresolved)),
	}
	for _, r := range res.Replacements {
		output.Replacements = append(output.Replacements, replacementSummary{
			Collection:  r.Collection,
			Index:       r.Index,
			Label:       r.Label,
			Endpoint:    r.Endpoint,
			APIID:       r.APIID,
			NeedsReview: r.NeedsReview,
			Note:        r.Note,
		})
	}
	for _, u := range res.Unresolved {
		output.Unresolved = append(output.Unresolved, unresolvedSummary{
			Collection: u.Collection,
			Index:      u.Index,
			Label:      u.Label,
			Endpoint:   u.Endpoint,
			Reason:     u.Reason,
		})
	}

	if input.IncludeDocument {
		data, err := res.Document.Marshal()
		if err != nil {
			return errResult(err), normalizeOutput{}, nil
		}
		output.Document = string(data)
	}

	return nil, output, nil
}

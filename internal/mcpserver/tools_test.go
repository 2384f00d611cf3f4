package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdmap/apiids/patterns"
)

const testFixture = `{
  "id": "ACR03",
  "interactions": [
    {
      "step": 3,
      "endpoint": "/citizen-details/AB123456C/designatory-details"
    },
    {
      "step": 4,
      "endpoint": "/unmapped-service/foo/bar"
    }
  ],
  "externalDependencies": [
    {
      "name": "enrolment-lookup",
      "endpoint": "/enrolment-store-proxy/enrolment-store/groups"
    }
  ]
}`

const testTableYAML = `patterns:
  - pattern: '/widgets/[^/]+'
    apiId: W01
  - pattern: '/widgets'
    apiId: W02
`

func newTestToolset() *toolset {
	return newToolset(patterns.Default(), nil)
}

// allowWrites enables file writes for the duration of the test.
func allowWrites(t *testing.T) {
	t.Helper()
	prev := cfg.AllowWrite
	cfg.AllowWrite = true
	t.Cleanup(func() { cfg.AllowWrite = prev })
}

func TestLookupTool(t *testing.T) {
	input := lookupInput{Endpoints: []string{
		"/citizen-details/:nino/designatory-details",
		"/unmapped-service/foo/bar",
		"/etmp/RESTAdapter/rosm/agent-relationship?regime=ITSA",
	}}
	result, output, err := newTestToolset().handleLookup(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.Equal(t, 2, output.Matched)
	assert.Equal(t, 1, output.Unmatched)
	require.Len(t, output.Results, 3)

	first := output.Results[0]
	assert.True(t, first.Matched)
	assert.Equal(t, "CD01", first.APIID)
	assert.Equal(t, "/citizen-details/{nino}/designatory-details", first.Canonical)
	require.NotNil(t, first.Index)
	assert.False(t, first.NeedsReview)

	assert.False(t, output.Results[1].Matched)
	assert.Nil(t, output.Results[1].Index)

	assert.Equal(t, "ETMP03", output.Results[2].APIID)
	assert.True(t, output.Results[2].NeedsReview)
}

func TestLookupTool_DuplicatePolicy(t *testing.T) {
	endpoint := "/agent-fi-relationship/relationships/agent/:arn/service/:service/client/:clientId"
	ts := newTestToolset()

	_, keyed, err := ts.handleLookup(context.Background(), &mcp.CallToolRequest{}, lookupInput{Endpoints: []string{endpoint}})
	require.NoError(t, err)
	assert.Equal(t, "AFR03", keyed.Results[0].APIID)

	_, first, err := ts.handleLookup(context.Background(), &mcp.CallToolRequest{}, lookupInput{
		Endpoints: []string{endpoint},
		Table:     tableInput{Duplicates: "first"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AFR01", first.Results[0].APIID)
}

func TestLookupTool_InlineTable(t *testing.T) {
	input := lookupInput{
		Endpoints: []string{"/widgets/:id", "/widgets"},
		Table:     tableInput{Content: testTableYAML},
	}
	_, output, err := newTestToolset().handleLookup(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, "W01", output.Results[0].APIID)
	assert.Equal(t, "W02", output.Results[1].APIID)
}

func TestLookupTool_Errors(t *testing.T) {
	ts := newTestToolset()

	tests := []struct {
		name  string
		input lookupInput
	}{
		{name: "no endpoints", input: lookupInput{}},
		{name: "bad policy", input: lookupInput{Endpoints: []string{"/x"}, Table: tableInput{Duplicates: "latest"}}},
		{name: "file and content", input: lookupInput{Endpoints: []string{"/x"}, Table: tableInput{File: "a.yaml", Content: testTableYAML}}},
		{name: "bad table", input: lookupInput{Endpoints: []string{"/x"}, Table: tableInput{Content: "patterns:\n  - pattern: '('\n    apiId: X\n"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := ts.handleLookup(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestListPatternsTool(t *testing.T) {
	ts := newTestToolset()

	_, output, err := ts.handleListPatterns(context.Background(), &mcp.CallToolRequest{}, listPatternsInput{})
	require.NoError(t, err)
	assert.Equal(t, "keyed", output.Policy)
	assert.Equal(t, 38, output.Total)
	assert.Equal(t, 38, output.Returned)
	assert.Equal(t, "ES3", output.Patterns[0].APIID)
	assert.Equal(t, "enrolment-store-proxy", output.Patterns[0].Service)

	require.Len(t, output.Conflicts, 1)
	assert.Equal(t, []string{"AFR01", "AFR03"}, output.Conflicts[0].APIIDs)
	assert.Equal(t, "AFR03", output.Conflicts[0].Resolved)
}

func TestListPatternsTool_Filters(t *testing.T) {
	ts := newTestToolset()

	_, output, err := ts.handleListPatterns(context.Background(), &mcp.CallToolRequest{}, listPatternsInput{Service: "citizen-details"})
	require.NoError(t, err)
	assert.Equal(t, 3, output.Matches)
	assert.Equal(t, []string{"CD01", "CD03", "CD02"},
		[]string{output.Patterns[0].APIID, output.Patterns[1].APIID, output.Patterns[2].APIID})

	_, output, err = ts.handleListPatterns(context.Background(), &mcp.CallToolRequest{}, listPatternsInput{APIID: "DES08"})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Matches)

	_, output, err = ts.handleListPatterns(context.Background(), &mcp.CallToolRequest{}, listPatternsInput{Offset: 36, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 38, output.Matches)
	assert.Equal(t, 2, output.Returned)
	assert.Equal(t, "EMAIL01", output.Patterns[1].APIID)
}

func TestListPatternsTool_IndexMatchesLookup(t *testing.T) {
	ts := newTestToolset()

	_, lookup, err := ts.handleLookup(context.Background(), &mcp.CallToolRequest{}, lookupInput{Endpoints: []string{
		"/agent-fi-relationship/relationships/agent/:arn/service/:service/client/:clientId",
		"/hmrc/email",
	}})
	require.NoError(t, err)

	_, listing, err := ts.handleListPatterns(context.Background(), &mcp.CallToolRequest{}, listPatternsInput{})
	require.NoError(t, err)
	byIndex := make(map[int]patternSummary, len(listing.Patterns))
	for _, p := range listing.Patterns {
		byIndex[p.Index] = p
	}

	for _, r := range lookup.Results {
		require.NotNil(t, r.Index, r.Endpoint)
		row, ok := byIndex[*r.Index]
		require.True(t, ok, "no list_patterns row at index %d", *r.Index)
		assert.Equal(t, r.APIID, row.APIID)
		assert.Equal(t, r.Pattern, row.Pattern)
	}
	assert.Equal(t, 15, *lookup.Results[0].Index)
}

func TestNormalizeTool_Inline(t *testing.T) {
	input := normalizeInput{
		Fixture:         fixtureInput{Content: testFixture},
		IncludeDocument: true,
	}
	result, output, err := newTestToolset().handleNormalize(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.True(t, output.Modified)
	assert.False(t, output.Written)
	require.Len(t, output.Replacements, 2)
	assert.Equal(t, "Step 3", output.Replacements[0].Label)
	assert.Equal(t, "CD01", output.Replacements[0].APIID)
	assert.Equal(t, "Dependency 'enrolment-lookup'", output.Replacements[1].Label)
	assert.Equal(t, "ES3", output.Replacements[1].APIID)

	require.Len(t, output.Unresolved, 1)
	assert.Equal(t, "/unmapped-service/foo/bar", output.Unresolved[0].Endpoint)

	assert.Contains(t, output.Document, `"apiId": "CD01"`)
	assert.Contains(t, output.Document, `"endpoint": "/unmapped-service/foo/bar"`)
}

func TestNormalizeTool_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACR03.json")
	require.NoError(t, os.WriteFile(path, []byte(testFixture), 0o600))
	ts := newTestToolset()

	t.Run("writes are disabled by default", func(t *testing.T) {
		_, output, err := ts.handleNormalize(context.Background(), &mcp.CallToolRequest{}, normalizeInput{
			Fixture: fixtureInput{File: path},
		})
		require.NoError(t, err)
		assert.True(t, output.Modified)
		assert.False(t, output.Written)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, testFixture, string(data))
	})

	t.Run("dry run", func(t *testing.T) {
		allowWrites(t)
		_, output, err := ts.handleNormalize(context.Background(), &mcp.CallToolRequest{}, normalizeInput{
			Fixture: fixtureInput{File: path},
			DryRun:  true,
		})
		require.NoError(t, err)
		assert.False(t, output.Written)
	})

	t.Run("write", func(t *testing.T) {
		allowWrites(t)
		_, output, err := ts.handleNormalize(context.Background(), &mcp.CallToolRequest{}, normalizeInput{
			Fixture: fixtureInput{File: path},
		})
		require.NoError(t, err)
		assert.True(t, output.Written)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"apiId": "ES3"`)
	})
}

func TestNormalizeTool_Errors(t *testing.T) {
	ts := newTestToolset()

	tests := []struct {
		name    string
		input   normalizeInput
		message string
	}{
		{name: "no input", input: normalizeInput{}, message: "exactly one of file or content"},
		{name: "both inputs", input: normalizeInput{Fixture: fixtureInput{File: "x.json", Content: "{}"}}, message: "exactly one of file or content"},
		{name: "invalid JSON", input: normalizeInput{Fixture: fixtureInput{Content: `{"interactions": [`}}, message: "invalid JSON"},
		{name: "missing file", input: normalizeInput{Fixture: fixtureInput{File: "/tmp/does-not-exist/ACR01.json"}}, message: "read error for <path>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := ts.handleNormalize(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text, ok := result.Content[0].(*mcp.TextContent)
			require.True(t, ok)
			assert.Contains(t, text.Text, tt.message)
		})
	}
}

package patterns

import (
	"errors"
	"testing"

	"github.com/sdmap/apiids/apierrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		expected string
	}{
		{
			name:     "no parameters",
			endpoint: "/enrolment-store-proxy/enrolment-store/groups",
			expected: "/enrolment-store-proxy/enrolment-store/groups",
		},
		{
			name:     "single parameter",
			endpoint: "/citizen-details/:nino/designatory-details",
			expected: "/citizen-details/{nino}/designatory-details",
		},
		{
			name:     "multiple parameters",
			endpoint: "/agent-permissions/arn/:arn/client/:enrolmentKey/groups",
			expected: "/agent-permissions/arn/{arn}/client/{enrolmentKey}/groups",
		},
		{
			name:     "parameter with underscore and digits",
			endpoint: "/pillar2/subscription/:plr_ref2",
			expected: "/pillar2/subscription/{plr_ref2}",
		},
		{
			name:     "bare colon is left alone",
			endpoint: "/a/:/b",
			expected: "/a/:/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.endpoint))
		})
	}
}

func TestParamNames(t *testing.T) {
	assert.Equal(t, []string{"arn", "clientId"}, ParamNames("/x/arn/:arn/client/:clientId"))
	assert.Nil(t, ParamNames("/x/y"))
}

func TestDefaultTable_Lookup(t *testing.T) {
	table := Default()

	tests := []struct {
		endpoint string
		expected string
	}{
		{"/citizen-details/AB123456C/designatory-details", "CD01"},
		{"/citizen-details/:nino/designatory-details", "CD01"},
		{"/citizen-details/nino-no-suffix/AB123456", "CD03"},
		{"/citizen-details/:nino", "CD02"},
		{"/enrolment-store-proxy/enrolment-store/groups", "ES3"},
		{"/enrolment-store-proxy/enrolment-store/enrolments/:enrolmentKey/groups", "ES1"},
		{"/enrolment-store-proxy/enrolment-store/users/:userId/enrolments", "ES2"},
		{"/enrolment-store-proxy/enrolment-store/enrolments/:key/allocated-principal-users", "ES19"},
		{"/enrolment-store-proxy/enrolment-store/enrolments", "ES8"},
		{"/agent-user-client-details/arn/:arn/client/:clientId", "AUCD08"},
		{"/agent-user-client-details/arn/:arn/client/:clientId/user/:userId", "AUCD09"},
		{"/agent-mapping/mappings/sa/:arn", "AM09"},
		{"/agent-mapping/mappings/:arn", "AM08"},
		{"/registration/relationship/nino/:nino", "DES08"},
		{"/sa/agents/nino/:nino", "DES08"},
		{"/plastic-packaging-tax/subscriptions/:ref/status", "IF02"},
		{"/plastic-packaging-tax/subscriptions/:ref", "IF03"},
		{"/individuals/details/nino/:nino", "ETMP06"},
		{"/agent-fi-relationship/relationships", "AFR02"},
		{"/hmrc/email", "EMAIL01"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			id, ok := table.Lookup(tt.endpoint)
			require.True(t, ok, "expected a match for %s", tt.endpoint)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestTable_NoMatch(t *testing.T) {
	table := Default()

	for _, endpoint := range []string{"/unmapped-service/foo/bar", "", "citizen-details/AB123456C"} {
		id, ok := table.Lookup(endpoint)
		assert.False(t, ok, "expected no match for %q", endpoint)
		assert.Empty(t, id)
	}
}

func TestTable_PrefixMatch(t *testing.T) {
	table := Default()

	// Trailing segments and query strings do not prevent a match.
	id, ok := table.Lookup("/hmrc/email/send?template=x")
	require.True(t, ok)
	assert.Equal(t, "EMAIL01", id)

	m, ok := table.Match("/etmp/RESTAdapter/rosm/agent-relationship?regime=ITSA&idType=MTDBSA")
	require.True(t, ok)
	assert.Equal(t, "ETMP03", m.Entry.APIID)
	assert.True(t, m.NeedsReview(), "ETMP03 is ambiguous and needs review")
}

func TestTable_OrderSensitivity(t *testing.T) {
	ninoFirst := []Entry{
		{Pattern: `/registration/relationship/nino/[^/]+`, APIID: "DES-NINO"},
		{Pattern: `/registration/relationship`, APIID: "DES-UTR"},
	}
	utrFirst := []Entry{ninoFirst[1], ninoFirst[0]}
	endpoint := "/registration/relationship/nino/AA000000A"

	id, ok := MustNew(ninoFirst).Lookup(endpoint)
	require.True(t, ok)
	assert.Equal(t, "DES-NINO", id)

	id, ok = MustNew(utrFirst).Lookup(endpoint)
	require.True(t, ok)
	assert.Equal(t, "DES-UTR", id, "the earlier entry must win even when a later one is more specific")
}

func TestTable_ParameterGeneralization(t *testing.T) {
	table := Default()

	pairs := [][2]string{
		{"/citizen-details/:nino/designatory-details", "/citizen-details/AB123456C/designatory-details"},
		{"/agent-permissions/arn/:arn/client/:key/groups", "/agent-permissions/arn/TARN0000001/client/HMRC-MTD-IT~MTDITID~X/groups"},
		{"/trusts/agent-known-fact-check/:utr/:postcode", "/trusts/agent-known-fact-check/1234567890/AA11AA"},
		{"/users-groups-search/groups/:groupId/users", "/users-groups-search/groups/G-1/users"},
	}

	for _, p := range pairs {
		withParam, okParam := table.Match(p[0])
		withLiteral, okLiteral := table.Match(p[1])
		require.True(t, okParam, p[0])
		require.True(t, okLiteral, p[1])
		assert.Equal(t, withLiteral.Entry, withParam.Entry, "%s and %s should match the same entry", p[0], p[1])
		assert.Equal(t, withLiteral.Index, withParam.Index)
	}
}

func TestTable_Determinism(t *testing.T) {
	table := Default()
	first, ok := table.Lookup("/organisations/trust/:utr")
	require.True(t, ok)
	for range 10 {
		id, ok := table.Lookup("/organisations/trust/:utr")
		require.True(t, ok)
		assert.Equal(t, first, id)
	}
}

func TestTable_DuplicatePolicies(t *testing.T) {
	endpoint := "/agent-fi-relationship/relationships/agent/:arn/service/:service/client/:clientId"

	t.Run("keyed keeps first position and last ID", func(t *testing.T) {
		table := Default()
		assert.Equal(t, DuplicateKeyed, table.Policy())

		m, ok := table.Match(endpoint)
		require.True(t, ok)
		assert.Equal(t, "AFR03", m.Entry.APIID)
		assert.Equal(t, 15, m.Index)
		assert.True(t, m.Conflict)
		assert.True(t, m.NeedsReview())
	})

	t.Run("first keeps first declaration", func(t *testing.T) {
		table, err := New(DefaultEntries(), WithDuplicatePolicy(DuplicateFirst))
		require.NoError(t, err)

		id, ok := table.Lookup(endpoint)
		require.True(t, ok)
		assert.Equal(t, "AFR01", id)
	})

	t.Run("conflicts are reported", func(t *testing.T) {
		table := Default()
		conflicts := table.Conflicts()
		require.Len(t, conflicts, 1)
		c := conflicts[0]
		assert.Equal(t, `/agent-fi-relationship/relationships/agent/[^/]+/service/[^/]+/client/[^/]+`, c.Pattern)
		assert.Equal(t, []int{15, 17}, c.Indexes)
		assert.Equal(t, []string{"AFR01", "AFR03"}, c.APIIDs)
		assert.Equal(t, "AFR03", c.Resolved)
	})

	t.Run("identical duplicates are not conflicts", func(t *testing.T) {
		table := MustNew([]Entry{
			{Pattern: "/a", APIID: "A1"},
			{Pattern: "/a", APIID: "A1"},
		})
		assert.Empty(t, table.Conflicts())
		assert.Equal(t, 1, table.Len())
	})

	t.Run("three-way conflict", func(t *testing.T) {
		table := MustNew([]Entry{
			{Pattern: "/a", APIID: "A1"},
			{Pattern: "/b", APIID: "B1"},
			{Pattern: "/a", APIID: "A2"},
			{Pattern: "/a", APIID: "A1"},
		})
		conflicts := table.Conflicts()
		require.Len(t, conflicts, 1)
		assert.Equal(t, []int{0, 2, 3}, conflicts[0].Indexes)
		assert.Equal(t, "A1", conflicts[0].Resolved)
	})
}

func TestTable_Positions(t *testing.T) {
	table := MustNew([]Entry{
		{Pattern: `/a`, APIID: "A1"},
		{Pattern: `/b`, APIID: "B1"},
		{Pattern: `/a`, APIID: "A2"},
		{Pattern: `/c`, APIID: "C1"},
	})

	assert.Equal(t, []int{0, 1, 3}, table.Positions())
	m, ok := table.Match("/c")
	require.True(t, ok)
	assert.Equal(t, table.Positions()[2], m.Index)
}

func TestDefaultTable_Shape(t *testing.T) {
	table := Default()
	assert.Len(t, table.Declared(), 39)
	assert.Equal(t, 38, table.Len())

	entries := table.Entries()
	assert.Equal(t, "ES3", entries[0].APIID)
	assert.Equal(t, "EMAIL01", entries[len(entries)-1].APIID)

	// Mutating the returned slices does not affect the table.
	entries[0].APIID = "CHANGED"
	declared := table.Declared()
	declared[0].APIID = "CHANGED"
	id, _ := table.Lookup("/enrolment-store-proxy/enrolment-store/groups")
	assert.Equal(t, "ES3", id)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		index   int
		message string
	}{
		{
			name:    "invalid regular expression",
			entries: []Entry{{Pattern: "/ok", APIID: "OK"}, {Pattern: "/bad/[", APIID: "BAD"}},
			index:   1,
		},
		{
			name:    "empty pattern",
			entries: []Entry{{APIID: "X"}},
			index:   0,
			message: "empty pattern",
		},
		{
			name:    "empty API ID",
			entries: []Entry{{Pattern: "/x"}},
			index:   0,
			message: "empty API ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierrors.ErrPattern))

			var patErr *apierrors.PatternError
			require.True(t, errors.As(err, &patErr))
			assert.Equal(t, tt.index, patErr.Index)
			if tt.message != "" {
				assert.Equal(t, tt.message, patErr.Message)
			}
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew([]Entry{{Pattern: "(", APIID: "X"}})
	})
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicateKeyed, p)

	p, err = ParseDuplicatePolicy("first")
	require.NoError(t, err)
	assert.Equal(t, DuplicateFirst, p)

	_, err = ParseDuplicatePolicy("last")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierrors.ErrConfig))

	_, err = New(DefaultEntries(), WithDuplicatePolicy("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid options")
}

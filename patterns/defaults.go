package patterns

import "slices"

// defaultEntries is the agent-client-relationships table. Order is
// significant and duplicates are intentional; see Table.Conflicts.
var defaultEntries = []Entry{
	// Enrolment Store Proxy
	{Pattern: `/enrolment-store-proxy/enrolment-store/groups`, APIID: "ES3"},
	{Pattern: `/enrolment-store-proxy/enrolment-store/enrolments/[^/]+/groups`, APIID: "ES1"},
	{Pattern: `/enrolment-store-proxy/enrolment-store/users/[^/]+/enrolments`, APIID: "ES2"},
	{Pattern: `/enrolment-store-proxy/enrolment-store/enrolments/[^/]+/allocated-principal-users`, APIID: "ES19"},
	{Pattern: `/enrolment-store-proxy/enrolment-store/enrolments`, APIID: "ES8"},

	// ETMP
	{Pattern: `/etmp/RESTAdapter/rosm/agent-relationship`, APIID: "ETMP03",
		Note: "default; the exact ID depends on query parameters", Ambiguous: true},
	{Pattern: `/etmp/RESTAdapter/itsa/taxpayer/business-details`, APIID: "ETMP05",
		Note: "also could be ETMP06 or ETMP07", Ambiguous: true},

	// Agent Permissions
	{Pattern: `/agent-permissions/arn/[^/]+/client/[^/]+/groups`, APIID: "AP06"},
	{Pattern: `/agent-permissions/arn/[^/]+/user/[^/]+/clients`, APIID: "AP13"},
	{Pattern: `/agent-permissions/arn/[^/]+/client/[^/]+/user/[^/]+`, APIID: "AP16"},

	// Agent User Client Details
	{Pattern: `/agent-user-client-details/arn/[^/]+/client/[^/]+/user/[^/]+`, APIID: "AUCD09"},
	{Pattern: `/agent-user-client-details/arn/[^/]+/user-check`, APIID: "AUCD04"},
	{Pattern: `/agent-user-client-details/arn/[^/]+/client/[^/]+`, APIID: "AUCD08"},
	{Pattern: `/agent-user-client-details/arn/[^/]+/work-items-exist`, APIID: "AUCD16"},
	{Pattern: `/agent-user-client-details/arn/[^/]+/cache-refresh`, APIID: "AUCD18"},

	// Agent FI Relationship
	{Pattern: `/agent-fi-relationship/relationships/agent/[^/]+/service/[^/]+/client/[^/]+`, APIID: "AFR01"},
	{Pattern: `/agent-fi-relationship/relationships`, APIID: "AFR02"},
	{Pattern: `/agent-fi-relationship/relationships/agent/[^/]+/service/[^/]+/client/[^/]+`, APIID: "AFR03"},

	// Agent Assurance
	{Pattern: `/agent-assurance/agent-record`, APIID: "AA27"},
	{Pattern: `/agent-assurance/acceptableNumberOfClients/utr/[^/]+/agentCode/[^/]+`, APIID: "AA04"},

	// Agent Mapping
	{Pattern: `/agent-mapping/mappings/sa/[^/]+`, APIID: "AM09"},
	{Pattern: `/agent-mapping/mappings/[^/]+`, APIID: "AM08"},

	// DES
	{Pattern: `/registration/relationship/nino/[^/]+`, APIID: "DES08"},
	{Pattern: `/sa/agents/nino/[^/]+`, APIID: "DES08"},
	{Pattern: `/vat/customer/vrn/[^/]+/information`, APIID: "DES09"},
	{Pattern: `/registration/business-details/utr/[^/]+`, APIID: "DES05"},

	// IF
	{Pattern: `/individuals/details/nino/[^/]+`, APIID: "ETMP06", Note: "served by ETMP via HIP"},
	{Pattern: `/organisations/trust/[^/]+`, APIID: "IF01"},
	{Pattern: `/plastic-packaging-tax/subscriptions/[^/]+/status`, APIID: "IF02"},
	{Pattern: `/plastic-packaging-tax/subscriptions/[^/]+`, APIID: "IF03"},
	{Pattern: `/pillar2/subscription/[^/]+`, APIID: "IF04"},
	{Pattern: `/trusts/agent-known-fact-check/[^/]+/[^/]+`, APIID: "IF05"},
	{Pattern: `/dac6/dct50d/v1`, APIID: "IF06"},

	// Citizen Details
	{Pattern: `/citizen-details/[^/]+/designatory-details`, APIID: "CD01"},
	{Pattern: `/citizen-details/nino-no-suffix/[^/]+`, APIID: "CD03"},
	{Pattern: `/citizen-details/[^/]+`, APIID: "CD02"},

	// Users Groups Search
	{Pattern: `/users-groups-search/groups/[^/]+/users`, APIID: "UGS01"},
	{Pattern: `/users-groups-search/groups/[^/]+`, APIID: "UGS02"},

	// Email
	{Pattern: `/hmrc/email`, APIID: "EMAIL01"},
}

// DefaultEntries returns a copy of the built-in table rows in declaration order.
func DefaultEntries() []Entry {
	return slices.Clone(defaultEntries)
}

// Default returns the built-in table resolved with DuplicateKeyed.
func Default() *Table {
	return MustNew(defaultEntries)
}

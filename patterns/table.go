package patterns

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/sdmap/apiids/apierrors"
)

// Entry is one row of the pattern table.
type Entry struct {
	// Pattern is a regular expression over canonical endpoint paths
	Pattern string `yaml:"pattern" json:"pattern"`
	// APIID is the short code substituted for matching endpoints
	APIID string `yaml:"apiId" json:"apiId"`
	// Note is a free-form reviewer annotation
	Note string `yaml:"note,omitempty" json:"note,omitempty"`
	// Ambiguous marks entries whose ID depends on context the endpoint
	// string does not carry (query parameters, request body)
	Ambiguous bool `yaml:"ambiguous,omitempty" json:"ambiguous,omitempty"`
}

// DuplicatePolicy selects how a pattern declared more than once is resolved.
type DuplicatePolicy string

const (
	// DuplicateKeyed resolves a duplicate group the way a keyed table does:
	// the group keeps the position of its first declaration and takes the
	// API ID (and annotations) of its last declaration.
	DuplicateKeyed DuplicatePolicy = "keyed"

	// DuplicateFirst resolves a duplicate group to its first declaration.
	DuplicateFirst DuplicatePolicy = "first"
)

// ValidDuplicatePolicies returns the accepted policy names.
func ValidDuplicatePolicies() []string {
	return []string{string(DuplicateKeyed), string(DuplicateFirst)}
}

// ParseDuplicatePolicy converts a policy name to a DuplicatePolicy.
// The empty string selects DuplicateKeyed.
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(name) {
	case "", DuplicateKeyed:
		return DuplicateKeyed, nil
	case DuplicateFirst:
		return DuplicateFirst, nil
	default:
		return "", &apierrors.ConfigError{
			Option:  "duplicates",
			Value:   name,
			Message: fmt.Sprintf("must be one of %v", ValidDuplicatePolicies()),
		}
	}
}

// Conflict describes a pattern declared more than once with different IDs.
type Conflict struct {
	// Pattern is the duplicated regular expression
	Pattern string `json:"pattern" yaml:"pattern"`
	// Indexes are the declaration positions, in order
	Indexes []int `json:"indexes" yaml:"indexes"`
	// APIIDs are the declared IDs, parallel to Indexes
	APIIDs []string `json:"apiIds" yaml:"apiIds"`
	// Resolved is the ID the table's policy selected
	Resolved string `json:"resolved" yaml:"resolved"`
}

// Match is the result of a successful table lookup.
type Match struct {
	// Entry is the resolved table entry that matched
	Entry Entry
	// Index is the declaration position of the matching rule
	Index int
	// Endpoint is the endpoint as given
	Endpoint string
	// Canonical is the endpoint after parameter canonicalization
	Canonical string
	// Conflict is true when the matched pattern is part of a duplicate group
	Conflict bool
}

// NeedsReview reports whether the match was made against an ambiguous or
// conflicting entry and should be checked by a person.
func (m Match) NeedsReview() bool {
	return m.Entry.Ambiguous || m.Conflict
}

// rule is a compiled, resolved table row.
type rule struct {
	entry    Entry
	index    int
	re       *regexp.Regexp
	conflict bool
}

// Table is an ordered, immutable pattern table.
// It is safe for concurrent use.
type Table struct {
	declared  []Entry
	rules     []rule
	conflicts []Conflict
	policy    DuplicatePolicy
}

// Option configures table construction.
type Option func(*tableConfig) error

type tableConfig struct {
	policy DuplicatePolicy
}

// WithDuplicatePolicy sets how duplicate patterns are resolved.
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(cfg *tableConfig) error {
		p, err := ParseDuplicatePolicy(string(policy))
		if err != nil {
			return err
		}
		cfg.policy = p
		return nil
	}
}

// New compiles entries into a Table. Entries are matched in the order given.
// A pattern that does not compile, or an entry without a pattern or API ID,
// fails with *apierrors.PatternError.
func New(entries []Entry, opts ...Option) (*Table, error) {
	cfg := &tableConfig{policy: DuplicateKeyed}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("patterns: invalid options: %w", err)
		}
	}

	t := &Table{
		declared: slices.Clone(entries),
		policy:   cfg.policy,
	}

	// position of each distinct pattern within t.rules
	byPattern := make(map[string]int, len(entries))
	conflictIdx := make(map[string]int)

	for i, e := range entries {
		if e.Pattern == "" {
			return nil, &apierrors.PatternError{Index: i, APIID: e.APIID, Message: "empty pattern"}
		}
		if e.APIID == "" {
			return nil, &apierrors.PatternError{Index: i, Pattern: e.Pattern, Message: "empty API ID"}
		}

		if pos, seen := byPattern[e.Pattern]; seen {
			existing := &t.rules[pos]
			if existing.entry.APIID != e.APIID || conflictIdx[e.Pattern] > 0 {
				t.recordConflict(conflictIdx, existing, i, e)
			}
			if t.policy == DuplicateKeyed {
				existing.entry = e
			}
			continue
		}

		re, err := regexp.Compile("^(?:" + e.Pattern + ")")
		if err != nil {
			return nil, &apierrors.PatternError{Index: i, Pattern: e.Pattern, APIID: e.APIID, Cause: err}
		}
		byPattern[e.Pattern] = len(t.rules)
		t.rules = append(t.rules, rule{entry: e, index: i, re: re})
	}

	for i := range t.conflicts {
		c := &t.conflicts[i]
		c.Resolved = t.rules[byPattern[c.Pattern]].entry.APIID
	}

	return t, nil
}

// recordConflict adds declaration i to the conflict group of existing,
// opening the group on first sight. conflictIdx maps a pattern to its
// position in t.conflicts plus one.
func (t *Table) recordConflict(conflictIdx map[string]int, existing *rule, i int, e Entry) {
	existing.conflict = true
	pos := conflictIdx[e.Pattern]
	if pos == 0 {
		t.conflicts = append(t.conflicts, Conflict{
			Pattern: e.Pattern,
			Indexes: []int{existing.index},
			APIIDs:  []string{t.declared[existing.index].APIID},
		})
		pos = len(t.conflicts)
		conflictIdx[e.Pattern] = pos
	}
	c := &t.conflicts[pos-1]
	c.Indexes = append(c.Indexes, i)
	c.APIIDs = append(c.APIIDs, e.APIID)
}

// MustNew is like New but panics on error. It is intended for tables
// declared in source code.
func MustNew(entries []Entry, opts ...Option) *Table {
	t, err := New(entries, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Match canonicalizes endpoint and returns the first entry, in table order,
// whose pattern matches at the start of the canonical string.
func (t *Table) Match(endpoint string) (Match, bool) {
	canonical := Canonicalize(endpoint)
	for _, r := range t.rules {
		if r.re.MatchString(canonical) {
			return Match{
				Entry:     r.entry,
				Index:     r.index,
				Endpoint:  endpoint,
				Canonical: canonical,
				Conflict:  r.conflict,
			}, true
		}
	}
	return Match{}, false
}

// Lookup returns the API ID for endpoint, or false when nothing matches.
func (t *Table) Lookup(endpoint string) (string, bool) {
	m, ok := t.Match(endpoint)
	if !ok {
		return "", false
	}
	return m.Entry.APIID, true
}

// Entries returns the resolved entries in matching order. Duplicate
// patterns appear once, carrying the ID selected by the policy.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.entry
	}
	return out
}

// Positions returns the declaration position of each resolved entry,
// parallel to Entries. It is the same position Match reports as Index.
func (t *Table) Positions() []int {
	out := make([]int, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.index
	}
	return out
}

// Declared returns the entries exactly as they were declared.
func (t *Table) Declared() []Entry {
	return slices.Clone(t.declared)
}

// Conflicts returns the duplicate pattern groups whose IDs disagree.
func (t *Table) Conflicts() []Conflict {
	return slices.Clone(t.conflicts)
}

// Policy returns the duplicate resolution policy the table was built with.
func (t *Table) Policy() DuplicatePolicy {
	return t.policy
}

// Len returns the number of distinct patterns.
func (t *Table) Len() int {
	return len(t.rules)
}

// Package patterns holds the ordered endpoint-pattern table that maps
// endpoint URL paths to short API IDs.
//
// A [Table] is built once from a list of [Entry] values and is immutable
// afterwards. Every pattern is a regular expression over URL paths in which
// path parameters are written as a "[^/]+" wildcard. Matching is a prefix
// match against the canonical form of an endpoint (see [Canonicalize]) and
// the first matching entry in table order wins, so specific patterns must be
// declared before the general ones that share their prefix.
//
// # Quick Start
//
//	table := patterns.Default()
//	id, ok := table.Lookup("/citizen-details/:nino/designatory-details")
//	// id == "CD01", ok == true
//
// # Duplicates and ambiguity
//
// The same pattern may be declared more than once with different IDs. Such
// groups are reported by [Table.Conflicts] and resolved by the table's
// [DuplicatePolicy]. Entries flagged Ambiguous map to an ID that depends on
// context an endpoint string does not carry (for example query parameters);
// matches against them report [Match.NeedsReview].
//
// # Table files
//
// [LoadFile] reads a table from YAML (or JSON):
//
//	patterns:
//	  - pattern: /hmrc/email
//	    apiId: EMAIL01
package patterns

// Package fixture reads and writes the JSON fixture documents that describe
// the interactions and external dependencies of one scenario.
//
// A [Document] keeps the parsed data together with the key order of the
// source text, so that a document can be re-serialized with its fields in
// their original order. Keys that were not present in the source are
// written after the source keys.
//
// Numbers are decoded as [encoding/json.Number] and written back verbatim;
// strings are written without HTML escaping.
package fixture

// Package normalizer replaces the endpoint URLs recorded in fixture documents
// with the API IDs of a [patterns.Table].
//
// Records in the interactions and externalDependencies collections whose
// endpoint matches a table entry lose their endpoint field and gain an
// apiId field. Records that do not match are left exactly as they were and
// reported as [Unresolved].
//
// # Usage
//
//	n := normalizer.New(patterns.Default(), normalizer.WithDryRun(true))
//	res, err := n.ProcessFile("ACR03/ACR03.json")
//	if err != nil {
//		return err
//	}
//	for _, r := range res.Replacements {
//		fmt.Println(r)
//	}
//
// [Normalizer.Normalize] never modifies its input; it returns a new document
// sharing the source key order, so a normalized file keeps its field order
// with apiId appended at the end of each rewritten record.
package normalizer

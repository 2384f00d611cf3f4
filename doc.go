// Package apiids replaces the endpoint fields of test fixture documents with
// short API identifiers.
//
// Fixtures are JSON documents stored as <dir>/ACRNN/ACRNN.json. Each one may
// carry an "interactions" array and an "externalDependencies" array whose
// records name the downstream endpoint they exercise:
//
//	{"step": 3, "endpoint": "/citizen-details/AB123456C/designatory-details"}
//
// apiids matches every endpoint against an ordered table of path patterns
// and rewrites the record in place, removing "endpoint" and adding the ID:
//
//	{"step": 3, "apiId": "CD01"}
//
// Records whose endpoint matches no pattern are left untouched, so a run can
// be repeated safely.
//
// # Packages
//
//   - patterns: the pattern table, endpoint canonicalization and matching
//   - fixture: reading and writing fixture documents with key order preserved
//   - normalizer: replacing endpoints in one document or file
//   - runner: walking the ACR01..ACR34 fixture layout and summarizing a run
//   - apierrors: structured error types shared by the packages above
//
// # Command line
//
// The apiids command normalizes the fixtures below the current directory
// when run without arguments. Subcommands look up single endpoints (lookup),
// list the table (table) and serve the same operations as MCP tools (mcp).
//
// # Quick start
//
//	table := patterns.Default()
//	n := normalizer.New(table)
//	res, err := n.ProcessFile("ACR03/ACR03.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range res.Replacements {
//		fmt.Println(r)
//	}
//
// Whole fixture trees are handled by runner.Run:
//
//	summary, err := runner.Run(ctx, runner.Config{
//		Layout:   runner.DefaultLayout("."),
//		Progress: os.Stdout,
//	})
package apiids

package patterns

import "regexp"

// paramSegment matches a colon-prefixed named path parameter such as ":arn".
var paramSegment = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// Canonicalize rewrites every colon-prefixed parameter in endpoint to a
// "{name}" placeholder. The placeholder holds no '/', so a "[^/]+" wildcard
// in a pattern matches it exactly as it matches a literal value in the same
// position: "/citizen-details/:nino" and "/citizen-details/AB123456C" are
// matched by the same entries.
func Canonicalize(endpoint string) string {
	return paramSegment.ReplaceAllString(endpoint, "{${1}}")
}

// ParamNames returns the names of the colon-prefixed parameters in endpoint,
// in order of appearance.
func ParamNames(endpoint string) []string {
	matches := paramSegment.FindAllStringSubmatch(endpoint, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

package patterns

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Group is a run of table entries that share a service, the first path
// segment of their pattern.
type Group struct {
	Service string  `json:"service" yaml:"service"`
	Title   string  `json:"title" yaml:"title"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Service returns the first path segment of pattern, or "other" when the
// segment is itself a wildcard.
func Service(pattern string) string {
	seg := strings.TrimPrefix(pattern, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if seg == "" || strings.ContainsAny(seg, `[]()*+?\^$|{}.`) {
		return "other"
	}
	return seg
}

// ServiceTitle turns a service segment such as "agent-fi-relationship"
// into a heading ("Agent Fi Relationship").
func ServiceTitle(service string) string {
	titleCaser := cases.Title(language.English)
	return titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(service))
}

// Groups returns the resolved entries grouped by service. Groups appear in
// the order their first entry appears in the table; entry order within a
// group is table order.
func (t *Table) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, e := range t.Entries() {
		svc := Service(e.Pattern)
		i, ok := index[svc]
		if !ok {
			i = len(groups)
			index[svc] = i
			groups = append(groups, Group{Service: svc, Title: ServiceTitle(svc)})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

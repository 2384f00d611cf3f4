package normalizer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sdmap/apiids/apierrors"
	"github.com/sdmap/apiids/fixture"
	"github.com/sdmap/apiids/internal/fileutil"
	"github.com/sdmap/apiids/patterns"
)

// Reasons recorded for endpoints left in place.
const (
	ReasonNoMatch   = "no matching pattern"
	ReasonEmpty     = "empty endpoint"
	ReasonNotString = "endpoint is not a string"
)

// Replacement records one endpoint that was replaced by an API ID.
type Replacement struct {
	// Collection is the document field holding the record
	Collection string `json:"collection" yaml:"collection"`
	// Index is the record's position within the collection
	Index int `json:"index" yaml:"index"`
	// Label identifies the record for people ("Step 3", "Dependency 'x'")
	Label string `json:"label" yaml:"label"`
	// Endpoint is the original endpoint value
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// APIID is the value written in its place
	APIID string `json:"apiId" yaml:"apiId"`
	// NeedsReview is set when the match came from an ambiguous or
	// conflicting table entry
	NeedsReview bool `json:"needsReview,omitempty" yaml:"needsReview,omitempty"`
	// Note is the matched entry's annotation, if any
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// String renders the replacement as a progress line fragment.
func (r Replacement) String() string {
	return fmt.Sprintf("%s - %s → %s", r.Label, r.Endpoint, r.APIID)
}

// Unresolved records an endpoint that was left in place.
type Unresolved struct {
	Collection string `json:"collection" yaml:"collection"`
	Index      int    `json:"index" yaml:"index"`
	Label      string `json:"label" yaml:"label"`
	// Endpoint is the value as found; non-string values are formatted
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Result is the outcome of normalizing one document.
type Result struct {
	// Path is the file the document was read from (empty for in-memory input)
	Path string
	// Document is the normalized document. The input document is never modified.
	Document *fixture.Document
	// Replacements lists every endpoint replaced, in document order
	Replacements []Replacement
	// Unresolved lists every endpoint left in place, in document order
	Unresolved []Unresolved
	// Written is true when the normalized document was saved to Path
	Written bool
}

// Modified reports whether at least one endpoint was replaced.
func (r *Result) Modified() bool {
	return len(r.Replacements) > 0
}

// Reviews returns the replacements that should be checked by a person.
func (r *Result) Reviews() []Replacement {
	var out []Replacement
	for _, rep := range r.Replacements {
		if rep.NeedsReview {
			out = append(out, rep)
		}
	}
	return out
}

// collection describes one record list scanned for endpoints.
type collection struct {
	field string
	label func(rec map[string]any) string
}

// collections are scanned in this order.
var collections = []collection{
	{field: fixture.FieldInteractions, label: func(rec map[string]any) string {
		return "Step " + labelValue(rec, fixture.FieldStep)
	}},
	{field: fixture.FieldExternalDependencies, label: func(rec map[string]any) string {
		return "Dependency '" + labelValue(rec, fixture.FieldName) + "'"
	}},
}

// labelValue formats rec[key] for a record label, or "?" when absent.
func labelValue(rec map[string]any, key string) string {
	v, ok := rec[key]
	if !ok {
		return "?"
	}
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}

// Normalizer replaces endpoint fields in fixture documents with API IDs.
type Normalizer struct {
	// Table is the pattern table used for matching
	Table *patterns.Table
	// Logger receives diagnostic output. Defaults to NopLogger.
	Logger Logger
	// DryRun computes results without writing files
	DryRun bool
	// Write saves a normalized document. Defaults to fileutil.WriteFileAtomic
	// with ReadableByAll for new files.
	Write WriteFunc
}

// WriteFunc saves data as the new content of the fixture at path.
type WriteFunc func(path string, data []byte) error

func writeAtomic(path string, data []byte) error {
	return fileutil.WriteFileAtomic(path, data, fileutil.ReadableByAll)
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.Logger = l
		}
	}
}

// WithDryRun disables writing normalized documents.
func WithDryRun(dryRun bool) Option {
	return func(n *Normalizer) {
		n.DryRun = dryRun
	}
}

// WithWriteFunc replaces how normalized documents are saved.
func WithWriteFunc(fn WriteFunc) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.Write = fn
		}
	}
}

// New creates a Normalizer for table.
func New(table *patterns.Table, opts ...Option) *Normalizer {
	n := &Normalizer{Table: table, Logger: NopLogger{}, Write: writeAtomic}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns a copy of doc in which every matched endpoint field in
// the interactions and externalDependencies records is replaced by an apiId
// field. Records that do not match are carried over unchanged. doc itself
// is not modified.
func (n *Normalizer) Normalize(doc *fixture.Document) *Result {
	res := &Result{Path: doc.Source}
	data := maps.Clone(doc.Data)
	log := n.logger().With("source", doc.Source)

	for _, coll := range collections {
		raw, present := doc.Data[coll.field]
		if !present {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			log.Warn("collection is not an array, skipping", "collection", coll.field)
			continue
		}

		var out []any
		for i, item := range items {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			value, has := rec[fixture.FieldEndpoint]
			if !has {
				continue
			}

			label := coll.label(rec)
			unresolved := Unresolved{Collection: coll.field, Index: i, Label: label}

			endpoint, isString := value.(string)
			switch {
			case !isString:
				unresolved.Endpoint = fmt.Sprint(value)
				unresolved.Reason = ReasonNotString
				log.Warn("endpoint is not a string", "collection", coll.field, "index", i)
				res.Unresolved = append(res.Unresolved, unresolved)
				continue
			case endpoint == "":
				unresolved.Reason = ReasonEmpty
				res.Unresolved = append(res.Unresolved, unresolved)
				continue
			}

			m, found := n.Table.Match(endpoint)
			if !found {
				unresolved.Endpoint = endpoint
				unresolved.Reason = ReasonNoMatch
				log.Debug("no pattern matched", "label", label, "endpoint", endpoint, "canonical", patterns.Canonicalize(endpoint))
				res.Unresolved = append(res.Unresolved, unresolved)
				continue
			}

			if out == nil {
				out = slices.Clone(items)
			}
			next := maps.Clone(rec)
			delete(next, fixture.FieldEndpoint)
			next[fixture.FieldAPIID] = m.Entry.APIID
			out[i] = next

			res.Replacements = append(res.Replacements, Replacement{
				Collection:  coll.field,
				Index:       i,
				Label:       label,
				Endpoint:    endpoint,
				APIID:       m.Entry.APIID,
				NeedsReview: m.NeedsReview(),
				Note:        m.Entry.Note,
			})
			log.Debug("replaced endpoint", "label", label, "endpoint", endpoint, "apiId", m.Entry.APIID)
		}

		if out != nil {
			data[coll.field] = out
		}
	}

	res.Document = doc.WithData(data)
	return res
}

// NormalizeBytes parses data as a fixture document named source and
// normalizes it. Nothing is written.
func (n *Normalizer) NormalizeBytes(data []byte, source string) (*Result, error) {
	doc, err := fixture.Parse(data, source)
	if err != nil {
		return nil, err
	}
	return n.Normalize(doc), nil
}

// ProcessFile reads the fixture at path, normalizes it and, when at least
// one endpoint was replaced and DryRun is off, writes the result back in
// place. Unmodified files are never rewritten.
func (n *Normalizer) ProcessFile(path string) (*Result, error) {
	doc, err := fixture.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := n.Normalize(doc)
	if !res.Modified() || n.DryRun {
		return res, nil
	}

	out, err := res.Document.Marshal()
	if err != nil {
		return res, fmt.Errorf("normalizer: encoding %s: %w", path, err)
	}
	write := n.Write
	if write == nil {
		write = writeAtomic
	}
	if err := write(path, out); err != nil {
		return res, &apierrors.IOError{Path: path, Op: "write", Cause: err}
	}
	res.Written = true
	n.logger().Debug("wrote fixture", "path", path, "replacements", len(res.Replacements))
	return res, nil
}

func (n *Normalizer) logger() Logger {
	if n.Logger == nil {
		return NopLogger{}
	}
	return n.Logger
}

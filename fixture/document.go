package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/sdmap/apiids/apierrors"
)

// Field names used by fixture documents.
const (
	FieldInteractions         = "interactions"
	FieldExternalDependencies = "externalDependencies"
	FieldEndpoint             = "endpoint"
	FieldAPIID                = "apiId"
	FieldStep                 = "step"
	FieldName                 = "name"
)

// Indent is the indentation used when writing documents.
const Indent = "  "

// Document is a parsed fixture file.
type Document struct {
	// Data is the decoded JSON object. Numbers are json.Number values.
	Data map[string]any
	// Source is the path or identifier the document was read from
	Source string

	// sourceNode records the key order of the source text; nil when the
	// order could not be recovered.
	sourceNode *yaml.Node
}

// ReadFile reads and parses the fixture at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: fixture paths come from the configured layout
	if err != nil {
		return nil, &apierrors.IOError{Path: path, Op: "read", Cause: err}
	}
	return Parse(data, path)
}

// Parse decodes a fixture document. The root value must be a JSON object.
func Parse(data []byte, source string) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, syntaxError(data, source, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		line, col := position(data, dec.InputOffset())
		return nil, &apierrors.ParseError{
			Path:    source,
			Line:    line,
			Column:  col,
			Message: "unexpected data after top-level value",
		}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &apierrors.ParseError{Path: source, Message: "document root must be a JSON object"}
	}

	doc := &Document{Data: obj, Source: source}

	// The node tree only supplies key order. YAML rejects some valid JSON
	// (the \/ escape, for one); the token stream recovers order for those.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err == nil {
		doc.sourceNode = &node
	} else if tokens, tokErr := orderFromTokens(data); tokErr == nil {
		doc.sourceNode = tokens
	}
	return doc, nil
}

// syntaxError converts a decoding failure into a ParseError with position.
func syntaxError(data []byte, source string, err error) error {
	pe := &apierrors.ParseError{Path: source, Message: "invalid JSON", Cause: err}

	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &synErr):
		pe.Line, pe.Column = position(data, synErr.Offset)
	case errors.As(err, &typeErr):
		pe.Line, pe.Column = position(data, typeErr.Offset)
	case errors.Is(err, io.EOF):
		pe.Message = "empty document"
		pe.Cause = nil
	}
	return pe
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// HasPreservedOrder reports whether the source key order was recovered.
// When false, Marshal writes object keys in sorted order.
func (d *Document) HasPreservedOrder() bool {
	return d.sourceNode != nil
}

// WithData returns a new Document holding data and sharing d's source
// key order. d is not modified.
func (d *Document) WithData(data map[string]any) *Document {
	return &Document{Data: data, Source: d.Source, sourceNode: d.sourceNode}
}

// Collection returns the array stored under name, if present.
func (d *Document) Collection(name string) ([]any, bool) {
	items, ok := d.Data[name].([]any)
	return items, ok
}

// Marshal writes the document as indented JSON with keys in source order.
// The output has no trailing newline.
func (d *Document) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	if err := marshalNodeAsJSON(&compact, d.sourceNode, d.Data); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", Indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

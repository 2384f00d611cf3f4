package patterns

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/sdmap/apiids/apierrors"
)

// tableFile is the on-disk shape of a pattern table.
type tableFile struct {
	Patterns []Entry `yaml:"patterns"`
}

// LoadFile reads a pattern table from a YAML or JSON file.
func LoadFile(path string, opts ...Option) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: table path is operator supplied
	if err != nil {
		return nil, &apierrors.IOError{Path: path, Op: "read", Cause: err}
	}
	return Load(data, path, opts...)
}

// Load parses a pattern table document. source names the document in errors.
func Load(data []byte, source string, opts ...Option) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, &apierrors.ParseError{Path: source, Message: "invalid pattern table", Cause: err}
	}
	if len(tf.Patterns) == 0 {
		return nil, &apierrors.ParseError{Path: source, Message: "no patterns defined"}
	}

	t, err := New(tf.Patterns, opts...)
	if err != nil {
		return nil, fmt.Errorf("patterns: loading %s: %w", source, err)
	}
	return t, nil
}

// Marshal renders entries in the table file format accepted by Load.
func Marshal(entries []Entry) ([]byte, error) {
	return yaml.Marshal(tableFile{Patterns: entries})
}

// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// Interaction returns a fixture interaction record.
func Interaction(step int, endpoint string) map[string]any {
	return map[string]any{
		"step":     step,
		"endpoint": endpoint,
	}
}

// Dependency returns a fixture external dependency record.
func Dependency(name, endpoint string) map[string]any {
	return map[string]any{
		"name":     name,
		"endpoint": endpoint,
	}
}

// NewFixture creates a fixture document with the given records.
// Nil slices are written as empty arrays.
func NewFixture(id string, interactions, dependencies []map[string]any) map[string]any {
	if interactions == nil {
		interactions = []map[string]any{}
	}
	if dependencies == nil {
		dependencies = []map[string]any{}
	}
	return map[string]any{
		"id":                   id,
		"interactions":         interactions,
		"externalDependencies": dependencies,
	}
}

// FixtureJSON marshals a fixture document with two-space indentation.
func FixtureJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal fixture to JSON: %v", err)
	}
	return string(data)
}

// WriteFixtureTree creates a temporary base directory holding one fixture
// per entry of files, laid out as <base>/<name>/<name>.json. It returns the
// base directory.
func WriteFixtureTree(t *testing.T, files map[string]string) string {
	t.Helper()

	base := t.TempDir()
	for name, content := range files {
		WriteFixtureFile(t, base, name, content)
	}
	return base
}

// WriteFixtureFile writes <base>/<name>/<name>.json and returns its path.
func WriteFixtureFile(t *testing.T, base, name, content string) string {
	t.Helper()

	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write fixture file: %v", err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // G304: test paths
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// WriteTempYAML marshals doc to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "table.yaml")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary YAML file: %v", err)
	}

	return tmpFile
}

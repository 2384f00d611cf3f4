package runner

import (
	"fmt"
	"path/filepath"

	"github.com/sdmap/apiids/apierrors"
)

// Default layout values.
const (
	DefaultPrefix = "ACR"
	DefaultWidth  = 2
	DefaultFirst  = 1
	DefaultLast   = 34
	DefaultExt    = ".json"
)

// Layout describes where fixture files live. Fixture n is expected at
// <BaseDir>/<Prefix><n>/<Prefix><n><Ext>, with n zero-padded to Width digits.
type Layout struct {
	BaseDir string
	Prefix  string
	Width   int
	First   int
	Last    int
	Ext     string
}

// DefaultLayout returns the ACR01..ACR34 layout rooted at baseDir.
func DefaultLayout(baseDir string) Layout {
	return Layout{
		BaseDir: baseDir,
		Prefix:  DefaultPrefix,
		Width:   DefaultWidth,
		First:   DefaultFirst,
		Last:    DefaultLast,
		Ext:     DefaultExt,
	}
}

// Candidate is one fixture location produced by a Layout.
type Candidate struct {
	Number int
	// Name is the directory and file stem, e.g. "ACR03"
	Name string
	Path string
}

// FileName returns the base name of the candidate file, e.g. "ACR03.json".
func (c Candidate) FileName() string {
	return filepath.Base(c.Path)
}

// Validate checks the layout for values that cannot produce candidates.
func (l Layout) Validate() error {
	switch {
	case l.Prefix == "":
		return &apierrors.ConfigError{Option: "prefix", Message: "must not be empty"}
	case filepath.Base(l.Prefix) != l.Prefix:
		return &apierrors.ConfigError{Option: "prefix", Value: l.Prefix, Message: "must not contain path separators"}
	case l.Width < 0:
		return &apierrors.ConfigError{Option: "width", Value: fmt.Sprint(l.Width), Message: "must not be negative"}
	case l.First < 0:
		return &apierrors.ConfigError{Option: "first", Value: fmt.Sprint(l.First), Message: "must not be negative"}
	case l.Last < l.First:
		return &apierrors.ConfigError{
			Option:  "last",
			Value:   fmt.Sprint(l.Last),
			Message: fmt.Sprintf("must not be less than first (%d)", l.First),
		}
	}
	return nil
}

// Name returns the directory and file stem for fixture n.
func (l Layout) Name(n int) string {
	return fmt.Sprintf("%s%0*d", l.Prefix, l.Width, n)
}

// Path returns the fixture path for fixture n.
func (l Layout) Path(n int) string {
	name := l.Name(n)
	return filepath.Join(l.BaseDir, name, name+l.Ext)
}

// Candidates returns every location in [First, Last], in ascending order.
// It does not check whether the files exist.
func (l Layout) Candidates() []Candidate {
	if l.Last < l.First {
		return nil
	}
	out := make([]Candidate, 0, l.Last-l.First+1)
	for n := l.First; n <= l.Last; n++ {
		out = append(out, Candidate{Number: n, Name: l.Name(n), Path: l.Path(n)})
	}
	return out
}

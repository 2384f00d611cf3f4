// Package fileutil provides file permission constants and safe file writes.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// OwnerReadWrite is the file permission mode for report files written by
// the tool (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for fixture files that did not
// exist before they were written.
const ReadableByAll os.FileMode = 0o644

// WriteFileAtomic replaces the file at path with data, so readers see either
// the old or the new content. A symlink is followed and its target is
// replaced; the link itself stays in place. An existing file keeps its
// permission bits; a new file gets perm.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	target, err := ResolvePath(path)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(target); statErr == nil {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("fileutil: %s is not a regular file", path)
		}
		perm = info.Mode().Perm()
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	return renameio.WriteFile(target, data, perm)
}

// ResolvePath returns the file that a write to path should replace: path
// itself, or the final target when path is a symlink. A dangling link
// resolves to the file it points at.
func ResolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	info, lerr := os.Lstat(path)
	if lerr != nil || info.Mode()&os.ModeSymlink == 0 {
		// A file that does not exist yet is written where it was named.
		return path, nil
	}
	dest, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return dest, nil
}

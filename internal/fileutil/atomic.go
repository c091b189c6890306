// Package fileutil provides filesystem helpers for the code
// generation commands.
package fileutil

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to filename via a temp file in the same
// directory followed by a rename, so readers observe either the old
// file or the new one, never a partial write.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}

	// Same-directory temp file keeps the rename on one filesystem.
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// WriteSourceAtomic formats src with gofmt and writes it atomically.
// When formatting fails the raw source is still written so the bad
// generator output can be inspected, and the error is returned.
func WriteSourceAtomic(filename string, src []byte, perm os.FileMode) error {
	formatted, err := format.Source(src)
	if err != nil {
		if werr := WriteFileAtomic(filename, src, perm); werr != nil {
			return fmt.Errorf("failed to write unformatted source: %w", werr)
		}
		return fmt.Errorf("generated invalid Go source (written unformatted): %w", err)
	}
	return WriteFileAtomic(filename, formatted, perm)
}

// Package fileutil writes generated files.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReadableByAll is the file permission mode for generated declaration
// files, which are read by the TypeScript toolchain and other users.
const ReadableByAll os.FileMode = 0o644

// WriteGenerated writes data to path with ReadableByAll permissions and
// returns the cleaned absolute path written. Symlinked targets are refused.
func WriteGenerated(path string, data []byte) (string, error) {
	abs, err := outputPath(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, ReadableByAll); err != nil {
		return "", fmt.Errorf("fileutil: writing %s: %w", abs, err)
	}
	return abs, nil
}

// outputPath cleans path into an absolute path. An existing symlink at
// that path is an error; a missing file is fine.
func outputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("fileutil: cannot resolve absolute path: %w", err)
	}
	info, err := os.Lstat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return abs, nil
	case err != nil:
		return "", fmt.Errorf("fileutil: cannot stat path: %w", err)
	case info.Mode()&os.ModeSymlink != 0:
		return "", fmt.Errorf("fileutil: refusing to write to symlink: %s", abs)
	}
	return abs, nil
}

// Package pathutil provides path helpers shared by the version store and
// the change debouncer.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve expands a leading ~ and returns the absolute, cleaned form of path.
func Resolve(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		rest := strings.TrimPrefix(path, "~")
		rest = strings.TrimPrefix(rest, "/")
		rest = strings.TrimPrefix(rest, string(os.PathSeparator))
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}

// Contains reports whether child lies within parent (or equals it). Both
// paths must be absolute. Paths on different volumes are never considered
// nested, which makes cross-drive comparisons safe on Windows.
func Contains(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if filepath.VolumeName(parent) != filepath.VolumeName(child) {
		return false
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

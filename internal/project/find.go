package project

import (
	"os"
	"path/filepath"
)

// Lookup reports whether the candidate path qualifies as a match.
type Lookup func(path string) bool

// FindUp checks start and then each of its ancestors for an entry called
// name, returning the first candidate accepted by lookup. It never touches
// the file system itself.
func FindUp(start, name string, lookup Lookup) (string, bool) {
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, name)
		if lookup(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// IsFile is a Lookup accepting existing regular files.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir is a Lookup accepting existing directories.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists is a Lookup accepting any existing entry.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

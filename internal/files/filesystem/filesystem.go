// Package filesystem provides a filesystem abstraction for PUMF discovery.
//
// The production implementation wraps the OS filesystem; the in-memory
// implementation lets loader tests run against synthetic survey files
// without touching disk.
package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// FileSystemProvider abstracts the filesystem operations the loader needs:
// discovering data files and reading their raw bytes.
type FileSystemProvider interface {
	// Glob returns the paths under dir whose names match the glob pattern,
	// sorted lexicographically. Directories are excluded. The sorted order
	// is what makes batch loads deterministic, so implementations must not
	// relax it.
	Glob(dir, pattern string) ([]string, error)

	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}

package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// memoryFile holds one in-memory file's content and metadata
type memoryFile struct {
	absPath string
	content []byte
	info    fs.FileInfo
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Content is stored as raw bytes so binary survey files round-trip intact.
type MemoryFileSystem struct {
	files map[string]*memoryFile // map of absolute path -> file
	root  string                 // root directory path
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to use forward slashes for virtual filesystem consistency.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	// Normalize root to forward slashes (virtual filesystem convention)
	root = filepath.ToSlash(root)
	root = path.Clean(root)

	mfs := &MemoryFileSystem{
		files: make(map[string]*memoryFile),
		root:  root,
	}

	// Create the root directory entry
	mfs.files[root] = &memoryFile{
		absPath: root,
		content: nil,
		info: &memoryFileInfo{
			name:    path.Base(root),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}

	return mfs
}

// AddFile adds a file to the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content []byte) {
	mfs.AddFileWithTime(filePath, content, time.Now())
}

// AddFileWithTime adds a file with a specific modification time
func (mfs *MemoryFileSystem) AddFileWithTime(filePath string, content []byte, modTime time.Time) {
	absPath := mfs.abs(filePath)

	mfs.files[absPath] = &memoryFile{
		absPath: absPath,
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    0644,
			modTime: modTime,
			isDir:   false,
		},
	}

	// Also add parent directories
	mfs.ensureDirectoriesExist(absPath)
}

// abs resolves a path against the virtual root and normalizes it.
func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") && !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// ensureDirectoriesExist creates directory entries for all parent directories
func (mfs *MemoryFileSystem) ensureDirectoriesExist(filePath string) {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" || dir == mfs.root {
		return
	}

	// Check if directory entry already exists
	if _, exists := mfs.files[dir]; exists {
		return
	}

	mfs.files[dir] = &memoryFile{
		absPath: dir,
		content: nil,
		info: &memoryFileInfo{
			name:    path.Base(dir),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}

	// Recursively create parent directories
	mfs.ensureDirectoriesExist(dir)
}

// Glob implements FileSystemProvider.Glob. The pattern is matched against
// paths relative to dir, so separator-free patterns match direct children
// only, mirroring filepath.Glob.
func (mfs *MemoryFileSystem) Glob(dir, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, "probe"); err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	absDir := mfs.abs(dir)
	var matches []string
	for p, f := range mfs.files {
		if f.info.IsDir() {
			continue
		}
		rel := strings.TrimPrefix(p, absDir+"/")
		if rel == p {
			continue // not under absDir
		}
		ok, err := path.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, p)
		}
	}

	sort.Strings(matches)
	return matches, nil
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	absPath := mfs.abs(filePath)

	file, exists := mfs.files[absPath]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}

	if file.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	return file.content, nil
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	absPath := mfs.abs(statPath)

	file, exists := mfs.files[absPath]
	if !exists {
		return nil, fmt.Errorf("path not found: %s", statPath)
	}

	return file.info, nil
}

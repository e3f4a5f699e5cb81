package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem abstracts filesystem operations for testability.
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (fs.FileInfo, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is built from the saved file's ancestors
	return os.ReadFile(path)
}

// MapFSAdapter serves an fs.FS as if it were mounted at Root.
type MapFSAdapter struct {
	FS   fs.FS
	Root string
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys fs.FS) *MapFSAdapter {
	return &MapFSAdapter{FS: fsys, Root: filepath.Clean(root)}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (fs.FileInfo, error) {
	rel, ok := m.toRelPath(path)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return fs.Stat(m.FS, rel)
}

// ReadFile reads the entire file at path.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	rel, ok := m.toRelPath(path)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(m.FS, rel)
}

// toRelPath maps an absolute path below Root into the fs.FS namespace.
// Paths outside Root do not exist.
func (m *MapFSAdapter) toRelPath(absPath string) (string, bool) {
	if absPath == m.Root {
		return ".", true
	}

	prefix := m.Root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(absPath, prefix) {
		return "", false
	}
	return filepath.ToSlash(strings.TrimPrefix(absPath, prefix)), true
}

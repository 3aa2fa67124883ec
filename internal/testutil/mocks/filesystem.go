package mocks

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// FileSystem is a thread-safe test double for ports.FileSystem.
type FileSystem struct {
	mu         sync.RWMutex
	files      map[string][]byte
	dirs       map[string]bool
	mkdirErrs  map[string]error
	restoreErr error
	restored   []string
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		mkdirErrs: make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// FailMkdir makes MkdirAll(path) return err.
func (fs *FileSystem) FailMkdir(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mkdirErrs[path] = err
}

// FailRestore makes RestoreWritable return err.
func (fs *FileSystem) FailRestore(err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.restoreErr = err
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// Exists checks if a file or directory exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// MkdirAll creates a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err, ok := fs.mkdirErrs[path]; ok {
		return err
	}
	fs.dirs[path] = true
	return nil
}

// RestoreWritable records the call.
func (fs *FileSystem) RestoreWritable(root string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.restored = append(fs.restored, root)
	return fs.restoreErr
}

// Dirs returns every directory in the mock filesystem, sorted.
func (fs *FileSystem) Dirs() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, 0, len(fs.dirs))
	for d := range fs.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Restored returns the roots passed to RestoreWritable.
func (fs *FileSystem) Restored() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return append([]string(nil), fs.restored...)
}

// Reset clears all files, directories, and recorded calls.
func (fs *FileSystem) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files = make(map[string][]byte)
	fs.dirs = make(map[string]bool)
	fs.mkdirErrs = make(map[string]error)
	fs.restoreErr = nil
	fs.restored = nil
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)

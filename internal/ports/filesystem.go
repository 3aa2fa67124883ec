package ports

import (
	"os"
)

// FileSystem provides the file system operations a build attempt needs.
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	ReadFile(path string) ([]byte, error)

	// RestoreWritable walks root and adds owner write permission to every
	// directory and regular file. Missing roots are not an error.
	RestoreWritable(root string) error
}

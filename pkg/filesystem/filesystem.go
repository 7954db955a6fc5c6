// Package filesystem provides an abstraction layer over the local data directory and the
// remote storage endpoint so the sync engine can be exercised without real I/O.
package filesystem

import (
	"io"
	"time"
)

// LocalStore abstracts the local data directory.
// Stat and ReadFile report a missing file with an error matching fs.ErrNotExist.
type LocalStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Stat(path string) (*FileInfo, error)
	Chtimes(path string, modTime time.Time) error
}

// RemoteStorage is the capability set the sync engine needs from a remote endpoint.
// Stat is only defined for paths where Exists reports true.
type RemoteStorage interface {
	io.Closer

	Exists(path string) (bool, error)
	Stat(path string) (*FileInfo, error)
	GetFileContents(path string) ([]byte, error)
	PutFileContents(path string, data []byte, overwrite bool) error
	CreateDirectory(path string) error
}

// FileInfo is the metadata the sync engine compares.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Exported constants.
const (
	// LocalDirPerm is the permission used when the local data directory has to be created
	LocalDirPerm os.FileMode = 0o755
	// LocalFilePerm is the permission used for files written by a pull
	LocalFilePerm os.FileMode = 0o600
)

// AferoStore implements LocalStore on top of an afero filesystem.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore wraps the given afero filesystem.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewOSStore returns a LocalStore backed by the operating system.
func NewOSStore() *AferoStore {
	return NewAferoStore(afero.NewOsFs())
}

// ReadFile reads the whole file.
func (s *AferoStore) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

// Stat returns file information.
func (s *AferoStore) Stat(path string) (*FileInfo, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return &FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Chtimes sets the access and modification times of the file to modTime.
func (s *AferoStore) Chtimes(path string, modTime time.Time) error {
	if err := s.fs.Chtimes(path, modTime, modTime); err != nil {
		return fmt.Errorf("failed to set times on %s: %w", path, err)
	}

	return nil
}

// WriteFile creates or replaces the file, creating the parent directory when needed.
func (s *AferoStore) WriteFile(path string, data []byte) error {
	err := s.fs.MkdirAll(filepath.Dir(path), LocalDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	err = afero.WriteFile(s.fs, path, data, LocalFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

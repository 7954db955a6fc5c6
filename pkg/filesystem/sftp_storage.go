package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/sftp"
)

// SFTPStorage implements RemoteStorage over an SFTP session.
type SFTPStorage struct {
	client *sftp.Client
	root   string
	closer io.Closer
}

// NewSFTPStorage resolves remote paths against root. closer (optional) is closed by Close,
// which lets the storage own the SSH connection it was built on.
func NewSFTPStorage(client *sftp.Client, root string, closer io.Closer) *SFTPStorage {
	return &SFTPStorage{
		client: client,
		root:   root,
		closer: closer,
	}
}

// Close closes the owned connection, if any.
func (s *SFTPStorage) Close() error {
	if s.closer == nil {
		return nil
	}

	err := s.closer.Close()
	s.closer = nil

	return err
}

// CreateDirectory creates a remote directory and all necessary parents.
func (s *SFTPStorage) CreateDirectory(p string) error {
	err := s.client.MkdirAll(s.resolve(p))
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", p, err)
	}

	return nil
}

// Exists reports whether the remote path exists.
func (s *SFTPStorage) Exists(p string) (bool, error) {
	_, err := s.client.Stat(s.resolve(p))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("failed to check remote path %s: %w", p, err)
}

// GetFileContents downloads the remote file.
func (s *SFTPStorage) GetFileContents(p string) ([]byte, error) {
	file, err := s.client.Open(s.resolve(p))
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", p, err)
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote file %s: %w", p, err)
	}

	return data, nil
}

// PutFileContents uploads data to the remote path.
// When overwrite is false the file is created exclusively.
func (s *SFTPStorage) PutFileContents(p string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	file, err := s.client.OpenFile(s.resolve(p), flags)
	if err != nil {
		if !overwrite && errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, p)
		}
		return fmt.Errorf("failed to create remote file %s: %w", p, err)
	}

	_, err = file.Write(data)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write remote file %s: %w", p, err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("failed to close remote file %s: %w", p, err)
	}

	return nil
}

// Stat returns metadata for a remote path.
func (s *SFTPStorage) Stat(p string) (*FileInfo, error) {
	info, err := s.client.Stat(s.resolve(p))
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", p, err)
	}

	return &FileInfo{
		Path:    p,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

func (s *SFTPStorage) resolve(p string) string {
	return path.Join("/", s.root, p)
}

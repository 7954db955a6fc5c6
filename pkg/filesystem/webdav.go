package filesystem

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/studio-b12/gowebdav"
)

// Exported variables.
var (
	ErrAlreadyExists = errors.New("remote file already exists")
)

// WebDAVStorage implements RemoteStorage for WebDAV endpoints.
type WebDAVStorage struct {
	client *gowebdav.Client
	url    string
}

// NewWebDAVStorage creates a WebDAV client bound to the given credentials.
// No request is made until the first operation.
func NewWebDAVStorage(baseURL string, creds Credentials, timeout time.Duration) *WebDAVStorage {
	// Digest mode answers the server's challenge; basic mode skips the round trip.
	var client *gowebdav.Client
	if creds.AuthMode == AuthDigest {
		client = gowebdav.NewClient(baseURL, creds.Username, creds.Password)
	} else {
		auth := &basicAuth{user: creds.Username, password: creds.Password}
		client = gowebdav.NewAuthClient(baseURL, gowebdav.NewPreemptiveAuth(auth))
	}

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &WebDAVStorage{
		client: client,
		url:    baseURL,
	}
}

// basicAuth sends Basic credentials with every request.
type basicAuth struct {
	user     string
	password string
}

func (a *basicAuth) Authorize(_ *http.Client, rq *http.Request, _ string) error {
	rq.SetBasicAuth(a.user, a.password)
	return nil
}

func (a *basicAuth) Verify(_ *http.Client, rs *http.Response, path string) (bool, error) {
	if rs.StatusCode == http.StatusUnauthorized {
		return false, gowebdav.NewPathError("Authorize", path, rs.StatusCode)
	}

	return false, nil
}

func (a *basicAuth) Clone() gowebdav.Authenticator {
	return a
}

func (a *basicAuth) Close() error {
	return nil
}

// Close releases nothing; WebDAV requests are stateless.
func (s *WebDAVStorage) Close() error {
	return nil
}

// CreateDirectory creates a remote collection and any missing parents.
func (s *WebDAVStorage) CreateDirectory(path string) error {
	err := s.client.MkdirAll(path, LocalDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", path, err)
	}

	return nil
}

// Exists reports whether the remote path exists.
func (s *WebDAVStorage) Exists(path string) (bool, error) {
	_, err := s.client.Stat(path)
	if err == nil {
		return true, nil
	}

	if gowebdav.IsErrNotFound(err) {
		return false, nil
	}

	return false, fmt.Errorf("failed to check remote path %s: %w", path, err)
}

// GetFileContents downloads the remote file.
func (s *WebDAVStorage) GetFileContents(path string) ([]byte, error) {
	data, err := s.client.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote file %s: %w", path, err)
	}

	return data, nil
}

// PutFileContents uploads data to the remote path.
// When overwrite is false an existing remote file is left alone and ErrAlreadyExists returned.
func (s *WebDAVStorage) PutFileContents(path string, data []byte, overwrite bool) error {
	if !overwrite {
		exists, err := s.Exists(path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
	}

	err := s.client.Write(path, data, LocalFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write remote file %s: %w", path, err)
	}

	return nil
}

// Stat returns metadata for a remote path.
func (s *WebDAVStorage) Stat(path string) (*FileInfo, error) {
	info, err := s.client.Stat(path)
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("failed to stat remote file %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return &FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// URL returns the base URL the client talks to.
func (s *WebDAVStorage) URL() string {
	return s.url
}

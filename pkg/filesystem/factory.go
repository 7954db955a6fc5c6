package filesystem

import (
	"errors"
	"fmt"
	"time"
)

// Exported variables.
var (
	ErrIncompleteCredentials = errors.New("endpoint URL, username and password are required")
)

// DefaultWebDAVTimeout is the per-request timeout applied to WebDAV clients.
const DefaultWebDAVTimeout = 60 * time.Second

// NewRemoteStorage creates the RemoteStorage for the credentials' endpoint.
// http(s):// endpoints get a WebDAV client (no request is made yet);
// sftp:// endpoints dial immediately and own the SSH connection.
func NewRemoteStorage(creds Credentials) (RemoteStorage, error) {
	if !creds.Complete() {
		return nil, ErrIncompleteCredentials
	}

	endpoint, err := ParseEndpoint(creds.URL)
	if err != nil {
		return nil, err
	}

	if !endpoint.IsSFTP() {
		return NewWebDAVStorage(endpoint.BaseURL, creds, DefaultWebDAVTimeout), nil
	}

	conn, err := Connect(endpoint.Host, endpoint.Port, creds.Username, creds.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			creds.Username, endpoint.Host, endpoint.Port, err)
	}

	return NewSFTPStorage(conn.Client(), endpoint.Root, conn), nil
}

package syncengine

import (
	"strings"

	"github.com/joe/davsync/pkg/filesystem"
)

// Dialer builds a remote storage client bound to a set of credentials.
type Dialer func(creds filesystem.Credentials) (filesystem.RemoteStorage, error)

// RemoteConnectionFactory owns the current remote connection. A connection
// exists only when the endpoint URL, username and password are all set.
// It is not safe for concurrent use; Engine guards it with its own lock.
type RemoteConnectionFactory struct {
	dial    Dialer
	current filesystem.RemoteStorage
}

// NewRemoteConnectionFactory creates a factory. A nil dialer uses filesystem.NewRemoteStorage.
func NewRemoteConnectionFactory(dial Dialer) *RemoteConnectionFactory {
	if dial == nil {
		dial = filesystem.NewRemoteStorage
	}

	return &RemoteConnectionFactory{dial: dial}
}

// Reconnect drops the current connection and, when creds are complete, dials a
// new one. The dropped connection is returned unclosed so the caller can close
// it once nothing uses it. Incomplete credentials leave no connection and no error.
func (f *RemoteConnectionFactory) Reconnect(creds filesystem.Credentials) (filesystem.RemoteStorage, error) {
	previous := f.Discard()

	if !creds.Complete() {
		return previous, nil
	}

	storage, err := f.dial(creds)
	if err != nil {
		return previous, err
	}

	f.current = storage

	return previous, nil
}

// Discard forgets the current connection and returns it unclosed.
func (f *RemoteConnectionFactory) Discard() filesystem.RemoteStorage {
	previous := f.current
	f.current = nil

	return previous
}

// Current returns the live connection, or nil.
func (f *RemoteConnectionFactory) Current() filesystem.RemoteStorage {
	return f.current
}

// NormalizeRemoteDir strips exactly one trailing slash and makes the path absolute.
//
//	"foo/" -> "/foo", "/foo/" -> "/foo", "a/b" -> "/a/b", "" -> "/"
func NormalizeRemoteDir(dir string) string {
	dir = strings.TrimSuffix(dir, "/")
	if !strings.HasPrefix(dir, "/") {
		dir = "/" + dir
	}

	return dir
}

// remotePath joins the remote base directory and a tracked file name.
func remotePath(dir, name string) string {
	return strings.TrimSuffix(dir, "/") + "/" + name
}

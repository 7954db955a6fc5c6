package filesystem

import (
	"fmt"
	"os"
	"path"
	"sort"
	"sync"
	"time"
)

// Operation names used for error injection on MemoryStorage.
const (
	OpExists          = "exists"
	OpStat            = "stat"
	OpGetFileContents = "get"
	OpPutFileContents = "put"
	OpCreateDirectory = "mkdir"
)

// MemoryStorage is an in-memory RemoteStorage for tests and dry runs.
type MemoryStorage struct {
	mu       sync.RWMutex
	entries  map[string]*memoryEntry
	failures map[string]error
	closed   bool

	// Now stamps the modification time of written entries. Defaults to time.Now.
	Now func() time.Time
}

// memoryEntry represents a file or directory in the store.
type memoryEntry struct {
	data    []byte
	modTime time.Time
	isDir   bool
}

// NewMemoryStorage creates an empty store containing only the root directory.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: map[string]*memoryEntry{
			"/": {isDir: true},
		},
		failures: make(map[string]error),
		Now:      time.Now,
	}
}

// Close marks the store closed; further calls still work so tests can inspect state.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryStorage) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.closed
}

// CreateDirectory creates a directory and all necessary parents.
func (m *MemoryStorage) CreateDirectory(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpCreateDirectory, p); err != nil {
		return err
	}

	m.mkdirAllLocked(clean(p))
	return nil
}

// Exists reports whether the path exists.
func (m *MemoryStorage) Exists(p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure(OpExists, p); err != nil {
		return false, err
	}

	_, exists := m.entries[clean(p)]
	return exists, nil
}

// GetFileContents returns a copy of the file's content.
func (m *MemoryStorage) GetFileContents(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure(OpGetFileContents, p); err != nil {
		return nil, err
	}

	entry, exists := m.entries[clean(p)]
	if !exists {
		return nil, fmt.Errorf("failed to read remote file %s: %w", p, os.ErrNotExist)
	}
	if entry.isDir {
		return nil, fmt.Errorf("failed to read remote file %s: is a directory", p) //nolint:err113 // Mirrors server error
	}

	return append([]byte(nil), entry.data...), nil
}

// PutFileContents stores data at the path, creating parent directories.
func (m *MemoryStorage) PutFileContents(p string, data []byte, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure(OpPutFileContents, p); err != nil {
		return err
	}

	p = clean(p)
	if existing, exists := m.entries[p]; exists {
		if existing.isDir {
			return fmt.Errorf("failed to write remote file %s: is a directory", p) //nolint:err113 // Mirrors server error
		}
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, p)
		}
	}

	m.mkdirAllLocked(path.Dir(p))
	m.entries[p] = &memoryEntry{
		data:    append([]byte(nil), data...),
		modTime: m.Now(),
	}

	return nil
}

// Stat returns file information.
func (m *MemoryStorage) Stat(p string) (*FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure(OpStat, p); err != nil {
		return nil, err
	}

	entry, exists := m.entries[clean(p)]
	if !exists {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", p, os.ErrNotExist)
	}

	return &FileInfo{
		Path:    p,
		Size:    int64(len(entry.data)),
		ModTime: entry.modTime,
		IsDir:   entry.isDir,
	}, nil
}

// Helper methods for testing

// AddFile adds a file with the given content and modtime.
func (m *MemoryStorage) AddFile(p string, content []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = clean(p)
	m.mkdirAllLocked(path.Dir(p))
	m.entries[p] = &memoryEntry{
		data:    append([]byte(nil), content...),
		modTime: modTime,
	}
}

// GetFile retrieves a file's content and modtime.
func (m *MemoryStorage) GetFile(p string) ([]byte, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[clean(p)]
	if !exists || entry.isDir {
		return nil, time.Time{}, os.ErrNotExist
	}

	return append([]byte(nil), entry.data...), entry.modTime, nil
}

// FailOn makes every call of op on path return err until cleared with a nil err.
func (m *MemoryStorage) FailOn(op, p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := op + " " + clean(p)
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// ListFiles returns all paths in the store, sorted.
func (m *MemoryStorage) ListFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.entries))
	for p := range m.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// failure returns the injected error for op on p. Assumes the lock is held.
func (m *MemoryStorage) failure(op, p string) error {
	return m.failures[op+" "+clean(p)]
}

// mkdirAllLocked creates p and its parents. Assumes the write lock is held.
func (m *MemoryStorage) mkdirAllLocked(p string) {
	if p == "/" || p == "." {
		return
	}

	m.mkdirAllLocked(path.Dir(p))

	if _, exists := m.entries[p]; !exists {
		m.entries[p] = &memoryEntry{
			modTime: m.Now(),
			isDir:   true,
		}
	}
}

func clean(p string) string {
	return path.Clean("/" + p)
}

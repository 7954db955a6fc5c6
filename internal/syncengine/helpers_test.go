package syncengine_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/joe/davsync/internal/config"
	"github.com/joe/davsync/internal/syncengine"
	"github.com/joe/davsync/pkg/filesystem"
)

const (
	testLocalDir  = "/data"
	testRemoteDir = "/sync"
)

//nolint:gochecknoglobals // Shared fixture values
var (
	errInjected = errors.New("injected failure")
	testCreds   = filesystem.Credentials{
		URL:      "https://dav.example.com/remote.php/webdav",
		Username: "joe",
		Password: "secret",
	}
	oldTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

// spyLocal counts calls made to the wrapped local store.
type spyLocal struct {
	filesystem.LocalStore

	calls atomic.Int32
}

func (s *spyLocal) ReadFile(path string) ([]byte, error) {
	s.calls.Add(1)
	return s.LocalStore.ReadFile(path)
}

func (s *spyLocal) WriteFile(path string, data []byte) error {
	s.calls.Add(1)
	return s.LocalStore.WriteFile(path, data)
}

func (s *spyLocal) Stat(path string) (*filesystem.FileInfo, error) {
	s.calls.Add(1)
	return s.LocalStore.Stat(path)
}

func (s *spyLocal) Chtimes(path string, modTime time.Time) error {
	s.calls.Add(1)
	return s.LocalStore.Chtimes(path, modTime)
}

// spyRemote counts calls and tracks how many run at the same time.
type spyRemote struct {
	filesystem.RemoteStorage

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	delay       time.Duration
	gate        chan struct{} // when set, PutFileContents waits for a receive
}

func (s *spyRemote) enter() func() {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	for {
		peak := s.maxInFlight.Load()
		if n <= peak || s.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	return func() { s.inFlight.Add(-1) }
}

func (s *spyRemote) Exists(path string) (bool, error) {
	defer s.enter()()
	return s.RemoteStorage.Exists(path)
}

func (s *spyRemote) Stat(path string) (*filesystem.FileInfo, error) {
	defer s.enter()()
	return s.RemoteStorage.Stat(path)
}

func (s *spyRemote) GetFileContents(path string) ([]byte, error) {
	defer s.enter()()
	return s.RemoteStorage.GetFileContents(path)
}

func (s *spyRemote) PutFileContents(path string, data []byte, overwrite bool) error {
	defer s.enter()()
	if s.gate != nil {
		<-s.gate
	}
	return s.RemoteStorage.PutFileContents(path, data, overwrite)
}

func (s *spyRemote) CreateDirectory(path string) error {
	defer s.enter()()
	return s.RemoteStorage.CreateDirectory(path)
}

// fakeDialer hands out a fresh in-memory remote per dial and remembers them.
type fakeDialer struct {
	mu     sync.Mutex
	err    error
	dialed []filesystem.Credentials
	conns  []filesystem.RemoteStorage
	wrap   func(*filesystem.MemoryStorage) filesystem.RemoteStorage
	shared *filesystem.MemoryStorage // when set, every dial returns a view of it
}

func (d *fakeDialer) Dial(creds filesystem.Credentials) (filesystem.RemoteStorage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialed = append(d.dialed, creds)
	if d.err != nil {
		return nil, d.err
	}

	remote := d.shared
	if remote == nil {
		remote = filesystem.NewMemoryStorage()
	}

	var conn filesystem.RemoteStorage = &closeTracker{MemoryStorage: remote}
	if d.wrap != nil {
		conn = d.wrap(remote)
	}
	d.conns = append(d.conns, conn)

	return conn, nil
}

// Conn returns the connection handed out by the i-th dial.
func (d *fakeDialer) Conn(i int) filesystem.RemoteStorage {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.conns[i]
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.dialed)
}

// closeTracker lets a shared MemoryStorage report closes per connection.
type closeTracker struct {
	*filesystem.MemoryStorage

	closed atomic.Bool
}

func (c *closeTracker) Close() error {
	c.closed.Store(true)
	return nil
}

// fixture is an engine over an in-memory local dir and an in-memory remote.
type fixture struct {
	engine *syncengine.Engine
	fs     afero.Fs
	remote *filesystem.MemoryStorage
	dialer *fakeDialer
}

func newFixture(t *testing.T, strategy config.Strategy) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	remote := filesystem.NewMemoryStorage()
	dialer := &fakeDialer{shared: remote}

	engine := syncengine.NewEngine(filesystem.NewAferoStore(fs), dialer.Dial)
	enableAll(engine)
	engine.SetLocalDir(testLocalDir)
	engine.SetRemoteDir(testRemoteDir)
	engine.SetStrategy(strategy)

	if err := engine.ApplyCredentials(testCreds); err != nil {
		t.Fatalf("ApplyCredentials: %v", err)
	}

	t.Cleanup(engine.Close)

	return &fixture{engine: engine, fs: fs, remote: remote, dialer: dialer}
}

func enableAll(engine *syncengine.Engine) {
	for _, syncType := range config.AllSyncTypes() {
		engine.SetSyncType(syncType, true)
	}
}

func (f *fixture) writeLocal(t *testing.T, name, content string, modTime time.Time) {
	t.Helper()

	path := testLocalDir + "/" + name
	if err := afero.WriteFile(f.fs, path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := f.fs.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func (f *fixture) readLocal(t *testing.T, name string) string {
	t.Helper()

	data, err := afero.ReadFile(f.fs, testLocalDir+"/"+name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}

	return string(data)
}

func (f *fixture) readRemote(t *testing.T, name string) string {
	t.Helper()

	data, _, err := f.remote.GetFile(testRemoteDir + "/" + name)
	if err != nil {
		t.Fatalf("read remote %s: %v", name, err)
	}

	return string(data)
}

// recorder captures emitted events.
type recorder struct {
	mu     sync.Mutex
	events []syncengine.Event
}

func (r *recorder) Emit(event syncengine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *recorder) Events() []syncengine.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]syncengine.Event(nil), r.events...)
}

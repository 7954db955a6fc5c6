// Package syncengine decides, for each tracked data file, whether the local or
// the remote copy wins and performs the transfer.
package syncengine

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/joe/davsync/internal/config"
	"github.com/joe/davsync/pkg/filesystem"
)

// Exported constants.
const (
	// LogMaxSizeMB is the size at which the sync log rotates
	LogMaxSizeMB = 5
	// LogMaxBackups is the number of rotated sync logs kept
	LogMaxBackups = 3
)

// Settings is a point-in-time copy of the engine configuration.
type Settings struct {
	LocalDir    string
	RemoteDir   string
	Strategy    config.Strategy
	Tolerance   time.Duration
	Include     string
	Credentials filesystem.Credentials
	Files       []string
	Connected   bool
}

// Engine owns the sync configuration, the remote connection and the run loop.
// Setters may be called from any goroutine; Sync calls run one at a time.
type Engine struct {
	mu     sync.RWMutex // guards every field below except syncMu
	syncMu sync.Mutex   // serializes Sync

	localDir   string
	remoteDir  string
	strategy   config.Strategy
	tolerance  time.Duration
	filter     *GlobFilter
	creds      filesystem.Credentials
	credsDirty bool
	tracked    *TrackedFileSet
	conn       *RemoteConnectionFactory

	local     filesystem.LocalStore
	clock     clockwork.Clock
	logger    *logrus.Logger
	logCloser io.Closer
	emitter   EventEmitter

	running bool
	retired []filesystem.RemoteStorage // replaced during a run, closed when it ends
}

// NewEngine creates an engine over a local store and a remote dialer.
// A nil local store uses the OS filesystem; a nil dialer uses filesystem.NewRemoteStorage.
// No sync type starts enabled and the strategy is overwrite_older.
func NewEngine(local filesystem.LocalStore, dial Dialer) *Engine {
	if local == nil {
		local = filesystem.NewOSStore()
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Engine{
		remoteDir: "/",
		strategy:  config.OverwriteOlder,
		tolerance: config.DefaultTolerance,
		filter:    NewGlobFilter(""),
		tracked:   NewTrackedFileSet(),
		conn:      NewRemoteConnectionFactory(dial),
		local:     local,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
	}
}

// Configure applies a parsed configuration. Credentials are stored but not
// dialed; the next Reconnect or Sync builds the connection.
func (e *Engine) Configure(cfg *config.Config) error {
	if err := config.ValidateFilePattern(cfg.Include); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.localDir = cfg.LocalDir
	e.remoteDir = NormalizeRemoteDir(cfg.RemoteDir)
	e.strategy = cfg.Strategy
	e.tolerance = max(cfg.Tolerance, 0)
	e.filter = NewGlobFilter(cfg.Include)

	e.tracked = NewTrackedFileSet(cfg.SyncTypes...)

	creds := cfg.Credentials()
	creds.URL = filesystem.TrimEndpointURL(creds.URL)
	if creds != e.creds {
		e.creds = creds
		e.invalidateLocked()
	}

	if cfg.Verbose {
		e.logger.SetLevel(logrus.DebugLevel)
	}

	return nil
}

// SetEventEmitter sets the event emitter for TUI communication.
// The emitter is optional - if nil, no events will be emitted.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.emitter = emitter
}

// SetClock replaces the clock used for run timing.
func (e *Engine) SetClock(clock clockwork.Clock) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clock = clock
}

// Logger returns the engine's logger so collaborators share its output.
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Settings returns a snapshot of the current configuration.
func (e *Engine) Settings() Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Settings{
		LocalDir:    e.localDir,
		RemoteDir:   e.remoteDir,
		Strategy:    e.strategy,
		Tolerance:   e.tolerance,
		Include:     e.filter.Pattern(),
		Credentials: e.creds,
		Files:       e.tracked.Files(),
		Connected:   e.conn.Current() != nil,
	}
}

// Credential setters. Each returns true when the value changed, in which case
// the current connection has already been dropped and Reconnect is warranted.

// SetEndpointURL sets the remote endpoint, stripping one trailing slash.
func (e *Engine) SetEndpointURL(url string) bool {
	return e.updateCredentials(func(c *filesystem.Credentials) {
		c.URL = filesystem.TrimEndpointURL(url)
	})
}

// SetUsername sets the remote username.
func (e *Engine) SetUsername(username string) bool {
	return e.updateCredentials(func(c *filesystem.Credentials) {
		c.Username = username
	})
}

// SetPassword sets the remote password.
func (e *Engine) SetPassword(password string) bool {
	return e.updateCredentials(func(c *filesystem.Credentials) {
		c.Password = password
	})
}

// SetAuthMode switches between basic and digest authentication.
func (e *Engine) SetAuthMode(mode filesystem.AuthMode) bool {
	return e.updateCredentials(func(c *filesystem.Credentials) {
		c.AuthMode = mode
	})
}

// ApplyCredentials replaces all credential fields at once and reconnects once.
func (e *Engine) ApplyCredentials(creds filesystem.Credentials) error {
	creds.URL = filesystem.TrimEndpointURL(creds.URL)

	e.mu.Lock()
	if creds == e.creds && !e.credsDirty {
		e.mu.Unlock()
		return nil
	}

	e.creds = creds
	connected, err := e.reconnectLocked()
	emitter := e.emitter
	e.mu.Unlock()

	e.emitTo(emitter, connected)

	return err
}

// Reconnect rebuilds the remote connection from the current credentials.
// Incomplete credentials leave the engine without a connection and return nil.
func (e *Engine) Reconnect() error {
	e.mu.Lock()
	connected, err := e.reconnectLocked()
	emitter := e.emitter
	e.mu.Unlock()

	e.emitTo(emitter, connected)

	return err
}

// SetRemoteDir sets the remote base directory, normalized to an absolute path.
func (e *Engine) SetRemoteDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.remoteDir = NormalizeRemoteDir(dir)
}

// SetLocalDir sets the directory holding the tracked files.
func (e *Engine) SetLocalDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.localDir = dir
}

// SetStrategy sets the conflict-resolution strategy.
func (e *Engine) SetStrategy(strategy config.Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.strategy = strategy
}

// SetTolerance sets the timestamp tolerance window. Negative values become zero.
func (e *Engine) SetTolerance(tolerance time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tolerance = max(tolerance, 0)
}

// SetInclude narrows syncs to tracked files matching pattern. Empty includes all.
func (e *Engine) SetInclude(pattern string) error {
	if err := config.ValidateFilePattern(pattern); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.filter = NewGlobFilter(pattern)

	return nil
}

// SetSyncType enables or disables syncing of one data category.
func (e *Engine) SetSyncType(syncType config.SyncType, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tracked.SetEnabled(syncType, enabled)
}

// TrackedFiles returns the enabled file names in order.
func (e *Engine) TrackedFiles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.tracked.Files()
}

// run is the state one Sync works from, captured under the lock.
type run struct {
	id        string
	remote    filesystem.RemoteStorage
	local     filesystem.LocalStore
	localDir  string
	remoteDir string
	strategy  config.Strategy
	tolerance time.Duration
	files     []string
	clock     clockwork.Clock
	emitter   EventEmitter
	connected Event
}

// Sync brings every tracked file in line with the configured strategy.
// Overlapping calls run one after another. On failure the result holds the
// files handled before the error.
func (e *Engine) Sync() (*SyncResult, error) {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	r, err := e.beginRun()
	e.emitTo(r.emitter, r.connected)

	if err != nil {
		e.logger.WithError(err).Warn("sync not started")
		e.emitTo(r.emitter, ErrorOccurred{Phase: "connect", Err: err})

		return nil, err
	}
	defer e.endRun()

	log := e.logger.WithFields(logrus.Fields{"run": r.id, "strategy": r.strategy.String()})
	result := &SyncResult{RunID: r.id, Strategy: r.strategy, StartedAt: r.clock.Now()}

	if err := bootstrapRemoteDir(r.remote, r.remoteDir); err != nil {
		log.WithError(err).Error("remote directory unavailable")
		e.emitTo(r.emitter, ErrorOccurred{Phase: "bootstrap", Err: err})

		return result, err
	}

	log.WithField("files", r.files).Info("sync started")
	e.emitTo(r.emitter, SyncStarted{RunID: r.id, Strategy: r.strategy, Files: r.files})

	executor := &StrategyExecutor{
		Local:     r.local,
		Remote:    r.remote,
		LocalDir:  r.localDir,
		RemoteDir: r.remoteDir,
		Tolerance: r.tolerance,
		Logger:    log,
		Emit:      func(ev Event) { e.emitTo(r.emitter, ev) },
	}

	outcomes, err := executor.Run(r.strategy, r.files)
	result.Outcomes = outcomes
	result.Duration = r.clock.Since(result.StartedAt)

	if err != nil {
		log.WithError(err).Error("sync stopped")
		e.emitTo(r.emitter, ErrorOccurred{Phase: "transfer", Err: err})

		return result, err
	}

	log.WithFields(logrus.Fields{
		"pushed":   result.Pushed(),
		"pulled":   result.Pulled(),
		"skipped":  result.Skipped(),
		"duration": result.Duration,
	}).Info("sync complete")
	e.emitTo(r.emitter, SyncComplete{Result: result})

	return result, nil
}

// beginRun connects if needed and snapshots the configuration. The returned run
// always carries the emitter, even on error.
func (e *Engine) beginRun() (run, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := run{emitter: e.emitter}

	switch e.strategy {
	case config.OverwriteOlder, config.OverwriteRemote, config.OverwriteLocal:
	default:
		return r, &ConfigurationError{Err: fmt.Errorf("%w: %v", ErrUnknownStrategy, int(e.strategy))}
	}

	if e.credsDirty {
		connected, err := e.reconnectLocked()
		if err != nil {
			return r, &ConfigurationError{Err: fmt.Errorf("%w: %w", ErrNoConnection, err)}
		}
		r.connected = connected
	}

	remote := e.conn.Current()
	if remote == nil {
		return r, &ConfigurationError{Err: ErrNoConnection}
	}

	e.running = true

	r.id = uuid.NewString()
	r.remote = remote
	r.local = e.local
	r.localDir = e.localDir
	r.remoteDir = e.remoteDir
	r.strategy = e.strategy
	r.tolerance = e.tolerance
	r.files = filterNames(e.filter, e.tracked.Files())
	r.clock = e.clock

	return r, nil
}

// endRun closes connections that were replaced while the run used them.
func (e *Engine) endRun() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.running = false
	for _, old := range e.retired {
		e.closeRemote(old)
	}
	e.retired = nil
}

// bootstrapRemoteDir creates the remote base directory when it is missing.
func bootstrapRemoteDir(remote filesystem.RemoteStorage, dir string) error {
	if dir == "/" {
		return nil
	}

	exists, err := remote.Exists(dir)
	if err != nil {
		return &TransferError{Op: OpCheckDirectory, Path: dir, Err: err}
	}

	if exists {
		return nil
	}

	if err := remote.CreateDirectory(dir); err != nil {
		return &TransferError{Op: OpCreateDirectory, Path: dir, Err: err}
	}

	return nil
}

func (e *Engine) updateCredentials(mutate func(*filesystem.Credentials)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.creds
	mutate(&next)

	if next == e.creds {
		return false
	}

	e.creds = next
	e.invalidateLocked()

	return true
}

// invalidateLocked drops the current connection; it must never be used again.
func (e *Engine) invalidateLocked() {
	e.credsDirty = true
	e.retireLocked(e.conn.Discard())
}

// reconnectLocked dials with the current credentials. The Connected event it
// returns must be emitted after e.mu is released.
func (e *Engine) reconnectLocked() (Event, error) {
	previous, err := e.conn.Reconnect(e.creds)
	e.retireLocked(previous)

	// A failed dial is retried by the next Sync.
	e.credsDirty = err != nil

	if err != nil {
		e.logger.WithError(err).WithField("endpoint", e.creds.String()).Warn("connection failed")
		return nil, fmt.Errorf("failed to connect to %s: %w", e.creds.URL, err)
	}

	if e.conn.Current() == nil {
		return nil, nil
	}

	e.logger.WithField("endpoint", e.creds.String()).Debug("connected")

	return Connected{URL: e.creds.URL}, nil
}

func (e *Engine) retireLocked(old filesystem.RemoteStorage) {
	if old == nil {
		return
	}

	if e.running {
		e.retired = append(e.retired, old)
		return
	}

	e.closeRemote(old)
}

func (e *Engine) closeRemote(remote filesystem.RemoteStorage) {
	if err := remote.Close(); err != nil {
		e.logger.WithError(err).Debug("closing replaced connection")
	}
}

// emitTo sends an event if an emitter is configured.
func (e *Engine) emitTo(emitter EventEmitter, event Event) {
	if emitter != nil && event != nil {
		emitter.Emit(event)
	}
}

// Close releases the remote connection and the sync log.
func (e *Engine) Close() {
	e.mu.Lock()
	if old := e.conn.Discard(); old != nil {
		e.closeRemote(old)
	}
	e.credsDirty = true
	e.mu.Unlock()

	e.CloseLog()
}

// CloseLog closes the log file if open
func (e *Engine) CloseLog() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.logCloser == nil {
		return
	}

	e.logger.Info("sync log ended")
	_ = e.logCloser.Close()
	e.logCloser = nil
	e.logger.SetOutput(io.Discard)
}

// EnableFileLogging writes the engine log to a rotating file.
func (e *Engine) EnableFileLogging(logPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    LogMaxSizeMB,
		MaxBackups: LogMaxBackups,
	}

	// Touch the file now so a bad path fails here rather than on the first entry.
	if _, err := rotating.Write(nil); err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	e.logCloser = rotating
	e.logger.SetOutput(rotating)
	e.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	e.logger.WithFields(logrus.Fields{
		"local":     e.localDir,
		"remote":    e.remoteDir,
		"endpoint":  e.creds.String(),
		"strategy":  e.strategy.String(),
		"tolerance": e.tolerance,
	}).Info("sync log started")

	return nil
}

package syncengine

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joe/davsync/internal/config"
	"github.com/joe/davsync/pkg/filesystem"
)

// epoch stands in for the modification time of a copy that does not exist.
//
//nolint:gochecknoglobals // Constant time value
var epoch = time.Unix(0, 0)

// Decide compares two modification times. A side must be newer by more than
// tolerance to win; anything closer is a skip.
func Decide(local, remote time.Time, tolerance time.Duration) Action {
	switch {
	case local.After(remote.Add(tolerance)):
		return ActionPush
	case remote.After(local.Add(tolerance)):
		return ActionPull
	default:
		return ActionSkip
	}
}

// StrategyExecutor applies one strategy to a list of tracked files, one file at
// a time. The first failure stops the loop.
type StrategyExecutor struct {
	Local     filesystem.LocalStore
	Remote    filesystem.RemoteStorage
	LocalDir  string
	RemoteDir string
	Tolerance time.Duration
	Logger    logrus.FieldLogger
	Emit      func(Event)
}

// Run applies strategy to files in order and returns the outcome of every file
// handled before the first error.
func (x *StrategyExecutor) Run(strategy config.Strategy, files []string) ([]FileOutcome, error) {
	var handle func(name string) (FileOutcome, error)

	switch strategy {
	case config.OverwriteRemote:
		handle = x.push
	case config.OverwriteLocal:
		handle = x.pull
	case config.OverwriteOlder:
		handle = x.newerWins
	default:
		return nil, &ConfigurationError{Err: ErrUnknownStrategy}
	}

	outcomes := make([]FileOutcome, 0, len(files))

	for _, name := range files {
		x.emit(FileStarted{Name: name})

		outcome, err := handle(name)
		if err != nil {
			return outcomes, err
		}

		outcomes = append(outcomes, outcome)
		x.report(outcome)
	}

	return outcomes, nil
}

func (x *StrategyExecutor) push(name string) (FileOutcome, error) {
	localPath := filepath.Join(x.LocalDir, name)
	target := remotePath(x.RemoteDir, name)

	data, err := x.Local.ReadFile(localPath)
	if err != nil {
		return FileOutcome{}, &TransferError{File: name, Op: OpReadLocal, Path: localPath, Err: err}
	}

	if err := x.Remote.PutFileContents(target, data, true); err != nil {
		return FileOutcome{}, &TransferError{File: name, Op: OpUpload, Path: target, Err: err}
	}

	// The server stamps the upload time; adopt it so the next run sees equal copies.
	if err := x.alignLocalTime(name, localPath, target); err != nil {
		return FileOutcome{}, err
	}

	return FileOutcome{Name: name, Action: ActionPush, Bytes: int64(len(data))}, nil
}

func (x *StrategyExecutor) pull(name string) (FileOutcome, error) {
	source := remotePath(x.RemoteDir, name)
	localPath := filepath.Join(x.LocalDir, name)

	data, err := x.Remote.GetFileContents(source)
	if err != nil {
		return FileOutcome{}, &TransferError{File: name, Op: OpDownload, Path: source, Err: err}
	}

	if err := x.Local.WriteFile(localPath, data); err != nil {
		return FileOutcome{}, &TransferError{File: name, Op: OpWriteLocal, Path: localPath, Err: err}
	}

	if err := x.alignLocalTime(name, localPath, source); err != nil {
		return FileOutcome{}, err
	}

	return FileOutcome{Name: name, Action: ActionPull, Bytes: int64(len(data))}, nil
}

func (x *StrategyExecutor) newerWins(name string) (FileOutcome, error) {
	localTime, err := x.localModTime(name)
	if err != nil {
		return FileOutcome{}, err
	}

	remoteTime, err := x.remoteModTime(name)
	if err != nil {
		return FileOutcome{}, err
	}

	var outcome FileOutcome

	switch Decide(localTime, remoteTime, x.Tolerance) {
	case ActionPush:
		outcome, err = x.push(name)
	case ActionPull:
		outcome, err = x.pull(name)
	case ActionSkip:
		outcome = FileOutcome{Name: name, Action: ActionSkip}
	}

	if err != nil {
		return FileOutcome{}, err
	}

	outcome.LocalTime = localTime
	outcome.RemoteTime = remoteTime

	return outcome, nil
}

// alignLocalTime gives the local copy the remote copy's modification time.
func (x *StrategyExecutor) alignLocalTime(name, localPath, remote string) error {
	info, err := x.Remote.Stat(remote)
	if err != nil {
		return &TransferError{File: name, Op: OpStatRemote, Path: remote, Err: err}
	}

	if err := x.Local.Chtimes(localPath, info.ModTime); err != nil {
		return &TransferError{File: name, Op: OpSetLocalTime, Path: localPath, Err: err}
	}

	return nil
}

// localModTime returns the local modification time, or epoch when the file is absent.
func (x *StrategyExecutor) localModTime(name string) (time.Time, error) {
	localPath := filepath.Join(x.LocalDir, name)

	info, err := x.Local.Stat(localPath)
	if errors.Is(err, fs.ErrNotExist) {
		return epoch, nil
	}

	if err != nil {
		return time.Time{}, &TransferError{File: name, Op: OpStatLocal, Path: localPath, Err: err}
	}

	return info.ModTime, nil
}

// remoteModTime returns the remote modification time, or epoch when the file is absent.
func (x *StrategyExecutor) remoteModTime(name string) (time.Time, error) {
	target := remotePath(x.RemoteDir, name)

	exists, err := x.Remote.Exists(target)
	if err != nil {
		return time.Time{}, &TransferError{File: name, Op: OpCheckRemote, Path: target, Err: err}
	}

	if !exists {
		return epoch, nil
	}

	info, err := x.Remote.Stat(target)
	if err != nil {
		return time.Time{}, &TransferError{File: name, Op: OpStatRemote, Path: target, Err: err}
	}

	return info.ModTime, nil
}

func (x *StrategyExecutor) report(outcome FileOutcome) {
	fields := logrus.Fields{"file": outcome.Name, "action": outcome.Action.String()}

	if outcome.Action == ActionSkip {
		x.logger().WithFields(fields).Debug("up to date")
		x.emit(FileSkipped{Name: outcome.Name, LocalTime: outcome.LocalTime, RemoteTime: outcome.RemoteTime})

		return
	}

	fields["bytes"] = outcome.Bytes
	x.logger().WithFields(fields).Info("transferred")
	x.emit(FileComplete{Name: outcome.Name, Action: outcome.Action, Bytes: outcome.Bytes})
}

func (x *StrategyExecutor) emit(event Event) {
	if x.Emit != nil {
		x.Emit(event)
	}
}

func (x *StrategyExecutor) logger() logrus.FieldLogger {
	if x.Logger == nil {
		return logrus.StandardLogger()
	}

	return x.Logger
}

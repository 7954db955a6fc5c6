package syncengine

import (
	"errors"
	"fmt"
)

// Exported variables.
var (
	ErrNoConnection    = errors.New("no remote connection: endpoint URL, username and password are required")
	ErrUnknownStrategy = errors.New("unknown sync strategy")
)

// Transfer operations reported in TransferError.Op.
const (
	OpCheckDirectory  = "check-directory"
	OpCreateDirectory = "create-directory"
	OpStatLocal       = "stat-local"
	OpReadLocal       = "read-local"
	OpWriteLocal      = "write-local"
	OpSetLocalTime    = "set-local-time"
	OpCheckRemote     = "check-remote"
	OpStatRemote      = "stat-remote"
	OpDownload        = "download"
	OpUpload          = "upload"
)

// ConfigurationError reports that a sync could not start because of missing or
// invalid settings. No file was touched.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransferError reports the step that stopped a sync. Files handled before it
// keep their new content.
type TransferError struct {
	File string // tracked file name, empty for directory bootstrap
	Op   string
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
	}

	return fmt.Sprintf("failed to %s %s (%s): %v", e.Op, e.File, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

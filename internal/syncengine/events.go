package syncengine

import (
	"time"

	"github.com/joe/davsync/internal/config"
)

// Event is the interface implemented by all sync engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// Connection events

// Connected is emitted after a new remote connection was built.
type Connected struct {
	URL string
}

func (Connected) isEvent() {}

// Run events

// SyncStarted is emitted once the connection and remote directory are ready.
type SyncStarted struct {
	RunID    string
	Strategy config.Strategy
	Files    []string
}

func (SyncStarted) isEvent() {}

// FileStarted is emitted before a tracked file is examined.
type FileStarted struct {
	Name string
}

func (FileStarted) isEvent() {}

// FileComplete is emitted when a file was pushed or pulled.
type FileComplete struct {
	Name   string
	Action Action
	Bytes  int64
}

func (FileComplete) isEvent() {}

// FileSkipped is emitted when both copies are within the tolerance window.
type FileSkipped struct {
	Name       string
	LocalTime  time.Time
	RemoteTime time.Time
}

func (FileSkipped) isEvent() {}

// SyncComplete is emitted when every tracked file has been handled.
type SyncComplete struct {
	Result *SyncResult
}

func (SyncComplete) isEvent() {}

// Error events

// ErrorOccurred is emitted when a run stops early.
type ErrorOccurred struct {
	Phase string // "connect", "bootstrap" or "transfer"
	Err   error
}

func (ErrorOccurred) isEvent() {}

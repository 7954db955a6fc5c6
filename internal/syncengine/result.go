package syncengine

import (
	"time"

	"github.com/joe/davsync/internal/config"
)

// Action is what a sync did with one tracked file.
type Action int

const (
	// ActionSkip - both copies are considered current
	ActionSkip Action = iota
	// ActionPush - the local copy replaced the remote copy
	ActionPush
	// ActionPull - the remote copy replaced the local copy
	ActionPull
)

// String returns the string representation of Action
func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skipped"
	case ActionPush:
		return "pushed"
	case ActionPull:
		return "pulled"
	default:
		return "unknown"
	}
}

// FileOutcome records what happened to one tracked file.
type FileOutcome struct {
	Name       string
	Action     Action
	Bytes      int64
	LocalTime  time.Time // zero unless the strategy compared timestamps
	RemoteTime time.Time
}

// SyncResult contains the results of one sync run.
type SyncResult struct {
	RunID     string
	Strategy  config.Strategy
	StartedAt time.Time
	Duration  time.Duration
	Outcomes  []FileOutcome
}

// Pushed returns how many files were uploaded.
func (r *SyncResult) Pushed() int {
	return r.count(ActionPush)
}

// Pulled returns how many files were downloaded.
func (r *SyncResult) Pulled() int {
	return r.count(ActionPull)
}

// Skipped returns how many files were left alone.
func (r *SyncResult) Skipped() int {
	return r.count(ActionSkip)
}

// BytesTransferred returns the total size of pushed and pulled files.
func (r *SyncResult) BytesTransferred() int64 {
	var total int64
	for _, o := range r.Outcomes {
		total += o.Bytes
	}

	return total
}

func (r *SyncResult) count(action Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action {
			n++
		}
	}

	return n
}

package shared

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/davsync/internal/syncengine"
)

// SyncFinishedMsg is sent when Engine.Sync returns.
type SyncFinishedMsg struct {
	Result *syncengine.SyncResult
	Err    error
}

// TickMsg is a message sent on each tick interval
type TickMsg time.Time

// TickCmd returns a command that sends tick messages at regular intervals
func TickCmd() tea.Cmd {
	return tea.Tick(TickIntervalMs*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Package tui renders one sync run as a bubbletea program.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/davsync/internal/syncengine"
	"github.com/joe/davsync/internal/tui/shared"
)

// activityLogSize is how many activity lines stay visible.
const activityLogSize = 6

// Syncer is the engine surface the view drives.
type Syncer interface {
	Sync() (*syncengine.SyncResult, error)
	Settings() syncengine.Settings
	SetEventEmitter(emitter syncengine.EventEmitter)
}

// fileState is the per-file status shown in the file list.
type fileState int

const (
	filePending fileState = iota
	fileActive
	fileDone
	fileSkipped
	fileFailed
)

type fileRow struct {
	name   string
	state  fileState
	action syncengine.Action
	bytes  int64
}

// AppModel shows the progress of a single Engine.Sync call and its outcome.
type AppModel struct {
	engine   Syncer
	bridge   *shared.EventBridge
	settings syncengine.Settings
	spinner  spinner.Model
	progress progress.Model
	files    []fileRow
	activity []string
	state    string
	result   *syncengine.SyncResult
	err      error
	width    int
}

// NewAppModel wires the engine's events into a fresh model.
func NewAppModel(engine Syncer) AppModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(shared.PrimaryColor())

	bridge := shared.NewEventBridge()
	engine.SetEventEmitter(bridge)

	settings := engine.Settings()

	return AppModel{
		engine:   engine,
		bridge:   bridge,
		settings: settings,
		spinner:  spin,
		progress: shared.NewProgressModel(shared.ProgressBarWidth),
		files:    newFileRows(settings.Files),
		state:    shared.StateSyncing,
	}
}

// Err returns the error the run stopped with, if any.
func (a AppModel) Err() error {
	return a.err
}

// Result returns the finished run, or nil while syncing or after a failure.
func (a AppModel) Result() *syncengine.SyncResult {
	return a.result
}

// Init implements tea.Model
func (a AppModel) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.bridge.ListenCmd(),
		a.runSync(),
	)
}

// Update implements tea.Model
func (a AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.progress.Width = min(max(msg.Width-shared.DefaultPadding*4, 10), shared.MaxProgressBarWidth)

		return a, nil
	case spinner.TickMsg:
		if a.state != shared.StateSyncing {
			return a, nil
		}

		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)

		return a, cmd
	case shared.EngineEventMsg:
		a.handleEvent(msg.Event)
		return a, a.bridge.ListenCmd()
	case shared.SyncFinishedMsg:
		return a.handleSyncFinished(msg)
	}

	return a, nil
}

// View implements tea.Model
func (a AppModel) View() string {
	var builder strings.Builder

	builder.WriteString(shared.RenderTitle("davsync"))
	builder.WriteString("\n")
	fmt.Fprintf(&builder, "%s %s\n", shared.RenderLabel("Remote:"), a.settings.Credentials.URL+a.settings.RemoteDir)
	fmt.Fprintf(&builder, "%s %s\n", shared.RenderLabel("Local:"), a.settings.LocalDir)
	fmt.Fprintf(&builder, "%s %s\n\n", shared.RenderLabel("Strategy:"), a.settings.Strategy)

	builder.WriteString(a.renderFiles())
	builder.WriteString("\n")

	switch a.state {
	case shared.StateSyncing:
		fmt.Fprintf(&builder, "%s %s\n", a.spinner.View(), shared.RenderFileProgress(a.progress, a.handled(), len(a.files)))
	case shared.StateComplete:
		builder.WriteString(a.renderSummary())
	case shared.StateError:
		builder.WriteString(shared.RenderSyncError(a.err, a.width-shared.DefaultPadding*4))
	}

	if len(a.activity) > 0 {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderActivityLog("Activity", a.activity, activityLogSize))
		builder.WriteString("\n")
	}

	if a.state != shared.StateSyncing {
		builder.WriteString("\n")
		builder.WriteString(shared.RenderDim("Press any key to exit"))
	}

	return shared.RenderBox(builder.String())
}

func (a *AppModel) handleEvent(event syncengine.Event) {
	switch e := event.(type) {
	case syncengine.Connected:
		a.log("connected to " + e.URL)
	case syncengine.SyncStarted:
		// The include filter may have narrowed the tracked set.
		a.files = newFileRows(e.Files)
		a.log(fmt.Sprintf("sync started (%s, %d files)", e.Strategy, len(e.Files)))
	case syncengine.FileStarted:
		a.updateFile(e.Name, func(row *fileRow) { row.state = fileActive })
	case syncengine.FileComplete:
		a.updateFile(e.Name, func(row *fileRow) {
			row.state = fileDone
			row.action = e.Action
			row.bytes = e.Bytes
		})
		a.log(fmt.Sprintf("%s %s (%s)", e.Action, e.Name, shared.FormatBytes(e.Bytes)))
	case syncengine.FileSkipped:
		a.updateFile(e.Name, func(row *fileRow) { row.state = fileSkipped })
		a.log(e.Name + " is up to date")
	case syncengine.ErrorOccurred:
		for i := range a.files {
			if a.files[i].state == fileActive {
				a.files[i].state = fileFailed
			}
		}
		a.log(e.Phase + " failed")
	}
}

func (a AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.state != shared.StateSyncing {
		return a, tea.Quit
	}

	// The run itself cannot be interrupted; these only close the view.
	switch msg.String() {
	case shared.KeyCtrlC, "q":
		return a, tea.Quit
	}

	return a, nil
}

func (a AppModel) handleSyncFinished(msg shared.SyncFinishedMsg) (tea.Model, tea.Cmd) {
	a.bridge.Close()

	a.result = msg.Result
	a.err = msg.Err
	a.state = shared.StateComplete
	if msg.Err != nil {
		a.state = shared.StateError
	}

	return a, nil
}

func (a AppModel) handled() int {
	n := 0
	for _, row := range a.files {
		if row.state == fileDone || row.state == fileSkipped {
			n++
		}
	}

	return n
}

func (a *AppModel) log(line string) {
	a.activity = append(a.activity, line)
}

func (a AppModel) renderFiles() string {
	var builder strings.Builder

	for _, row := range a.files {
		var marker, detail string

		switch row.state {
		case filePending:
			marker = shared.RenderDim("·")
		case fileActive:
			marker = a.spinner.View()
		case fileDone:
			marker = shared.SuccessSymbol()
			detail = fmt.Sprintf("%s %s", row.action, shared.FormatBytes(row.bytes))
		case fileSkipped:
			marker = shared.SuccessSymbol()
			detail = "up to date"
		case fileFailed:
			marker = shared.ErrorSymbol()
			detail = "failed"
		}

		fmt.Fprintf(&builder, "  %s %-14s %s\n", marker, row.name, shared.RenderDim(detail))
	}

	return builder.String()
}

func (a AppModel) renderSummary() string {
	if a.result == nil {
		return ""
	}

	return fmt.Sprintf("%s %s\n  %d pushed, %d pulled, %d up to date, %s in %s\n",
		shared.SuccessSymbol(),
		shared.RenderSuccess("Sync complete"),
		a.result.Pushed(), a.result.Pulled(), a.result.Skipped(),
		shared.FormatBytes(a.result.BytesTransferred()),
		shared.FormatDuration(a.result.Duration))
}

func (a AppModel) runSync() tea.Cmd {
	engine := a.engine

	return func() tea.Msg {
		result, err := engine.Sync()
		return shared.SyncFinishedMsg{Result: result, Err: err}
	}
}

func newFileRows(names []string) []fileRow {
	rows := make([]fileRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, fileRow{name: name})
	}

	return rows
}

func (a *AppModel) updateFile(name string, mutate func(*fileRow)) {
	for i := range a.files {
		if a.files[i].name == name {
			mutate(&a.files[i])
			return
		}
	}
}

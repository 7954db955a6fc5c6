package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/davsync/internal/config"
	"github.com/joe/davsync/internal/syncengine"
	"github.com/joe/davsync/internal/tui/shared"
	"github.com/joe/davsync/pkg/filesystem"
)

// fakeSyncer replays a fixed event sequence from Sync.
type fakeSyncer struct {
	emitter syncengine.EventEmitter
	events  []syncengine.Event
	result  *syncengine.SyncResult
	err     error
	calls   int
}

func (f *fakeSyncer) Sync() (*syncengine.SyncResult, error) {
	f.calls++
	for _, event := range f.events {
		f.emitter.Emit(event)
	}

	return f.result, f.err
}

func (f *fakeSyncer) Settings() syncengine.Settings {
	return syncengine.Settings{
		LocalDir:    "/home/user/.config/app",
		RemoteDir:   "/davsync",
		Strategy:    config.OverwriteOlder,
		Credentials: filesystem.Credentials{URL: "https://dav.example.com"},
		Files:       []string{"profiles.db", "history.db"},
	}
}

func (f *fakeSyncer) SetEventEmitter(emitter syncengine.EventEmitter) {
	f.emitter = emitter
}

// drain feeds every queued engine event back into the model.
func drain(model AppModel) AppModel {
	for {
		select {
		case msg, ok := <-model.bridge.Subscribe():
			if !ok {
				return model
			}
			next, _ := model.Update(msg)
			model = next.(AppModel)
		default:
			return model
		}
	}
}

var _ = Describe("AppModel", func() {
	var (
		engine *fakeSyncer
		model  AppModel
	)

	BeforeEach(func() {
		engine = &fakeSyncer{
			result: &syncengine.SyncResult{
				Duration: 1500 * time.Millisecond,
				Outcomes: []syncengine.FileOutcome{
					{Name: "profiles.db", Action: syncengine.ActionPush, Bytes: 2048},
					{Name: "history.db", Action: syncengine.ActionSkip},
				},
			},
			events: []syncengine.Event{
				syncengine.Connected{URL: "https://dav.example.com"},
				syncengine.FileStarted{Name: "profiles.db"},
				syncengine.FileComplete{Name: "profiles.db", Action: syncengine.ActionPush, Bytes: 2048},
				syncengine.FileStarted{Name: "history.db"},
				syncengine.FileSkipped{Name: "history.db"},
			},
		}
		model = NewAppModel(engine)
	})

	It("registers itself as the engine's event emitter", func() {
		Expect(engine.emitter).To(Equal(model.bridge))
	})

	It("lists every tracked file as pending before the run", func() {
		Expect(model.files).To(HaveLen(2))
		Expect(model.files[0].state).To(Equal(filePending))
		Expect(model.View()).To(ContainSubstring("profiles.db"))
		Expect(model.View()).To(ContainSubstring("https://dav.example.com/davsync"))
	})

	Describe("a successful run", func() {
		BeforeEach(func() {
			msg := model.runSync()()
			model = drain(model)
			next, _ := model.Update(msg)
			model = next.(AppModel)
		})

		It("calls Sync once", func() {
			Expect(engine.calls).To(Equal(1))
		})

		It("marks files from the engine events", func() {
			Expect(model.files[0].state).To(Equal(fileDone))
			Expect(model.files[0].action).To(Equal(syncengine.ActionPush))
			Expect(model.files[1].state).To(Equal(fileSkipped))
		})

		It("keeps the result and renders the summary", func() {
			Expect(model.Result()).To(Equal(engine.result))
			Expect(model.Err()).ToNot(HaveOccurred())
			Expect(model.View()).To(ContainSubstring("1 pushed, 0 pulled, 1 up to date"))
			Expect(model.View()).To(ContainSubstring("pushed profiles.db (2.0 KB)"))
		})

		It("quits on any key", func() {
			_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(tea.Quit()))
		})
	})

	Describe("a failed run", func() {
		BeforeEach(func() {
			engine.result = nil
			engine.err = &syncengine.TransferError{
				File: "history.db",
				Op:   syncengine.OpDownload,
				Path: "/davsync/history.db",
				Err:  errors.New("401 Unauthorized"),
			}
			engine.events = []syncengine.Event{
				syncengine.FileStarted{Name: "history.db"},
				syncengine.ErrorOccurred{Phase: "transfer", Err: engine.err},
			}

			msg := model.runSync()()
			model = drain(model)
			next, _ := model.Update(msg)
			model = next.(AppModel)
		})

		It("marks the active file failed", func() {
			Expect(model.files[1].state).To(Equal(fileFailed))
		})

		It("renders the error with suggestions", func() {
			Expect(model.Err()).To(HaveOccurred())
			Expect(model.View()).To(ContainSubstring("401 Unauthorized"))
			Expect(model.View()).To(ContainSubstring("--auth-mode"))
		})
	})

	It("narrows the file list to the files the run reports", func() {
		next, _ := model.Update(shared.EngineEventMsg{Event: syncengine.SyncStarted{Files: []string{"history.db"}}})
		updated := next.(AppModel)

		Expect(updated.files).To(HaveLen(1))
		Expect(updated.files[0].name).To(Equal("history.db"))
	})

	Describe("keys while syncing", func() {
		It("ignores ordinary keys", func() {
			_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
			Expect(cmd).To(BeNil())
		})

		It("quits on ctrl+c", func() {
			_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			Expect(cmd).ToNot(BeNil())
		})
	})

	Describe("Window Size Handling", func() {
		It("stores the width and resizes the progress bar", func() {
			next, _ := model.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
			updated := next.(AppModel)

			Expect(updated.width).To(Equal(60))
			Expect(updated.progress.Width).To(Equal(60 - shared.DefaultPadding*4))
		})
	})
})

func TestAppModel(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AppModel Suite")
}

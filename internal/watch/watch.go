// Package watch triggers syncs when tracked local files change or on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/joe/davsync/internal/syncengine"
	"github.com/joe/davsync/pkg/filesystem"
)

// DefaultDebounce is how long the watcher waits for writes to settle before syncing.
const DefaultDebounce = 2 * time.Second

// Syncer is the part of the engine the watcher drives.
type Syncer interface {
	Sync() (*syncengine.SyncResult, error)
	TrackedFiles() []string
}

// Watcher runs syncs on local changes and, optionally, on an interval.
// Triggers that arrive while a sync runs are coalesced into the next one.
type Watcher struct {
	Syncer   Syncer
	Dir      string
	Debounce time.Duration // zero uses DefaultDebounce
	Interval time.Duration // zero disables interval syncs
	Clock    clockwork.Clock
	Logger   logrus.FieldLogger

	// OnResult, when set, receives the outcome of every triggered sync.
	OnResult func(result *syncengine.SyncResult, err error)

	quietUntil time.Time
}

// Run watches until ctx is done. Sync failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.defaults()

	if err := os.MkdirAll(w.Dir, filesystem.LocalDirPerm); err != nil {
		return fmt.Errorf("failed to create watched directory %s: %w", w.Dir, err)
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			w.Logger.WithError(err).Warn("failed to close file watcher")
		}
	}()

	if err := notifier.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}

	var tick <-chan time.Time
	if w.Interval > 0 {
		ticker := w.Clock.NewTicker(w.Interval)
		defer ticker.Stop()
		tick = ticker.Chan()
	}

	var (
		debounce clockwork.Timer
		settled  <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	w.Logger.WithFields(logrus.Fields{"dir": w.Dir, "interval": w.Interval}).Info("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			w.Logger.WithFields(logrus.Fields{"file": filepath.Base(event.Name), "op": event.Op.String()}).Debug("change detected")

			if debounce == nil {
				debounce = w.Clock.NewTimer(w.Debounce)
			} else {
				debounce.Reset(w.Debounce)
			}
			settled = debounce.Chan()

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.Logger.WithError(err).Warn("file watcher error")

		case <-settled:
			settled = nil
			w.syncOnce("change")

		case <-tick:
			w.syncOnce("interval")
		}
	}
}

func (w *Watcher) defaults() {
	if w.Debounce <= 0 {
		w.Debounce = DefaultDebounce
	}
	if w.Clock == nil {
		w.Clock = clockwork.NewRealClock()
	}
	if w.Logger == nil {
		w.Logger = logrus.StandardLogger()
	}
}

// relevant reports whether event touches a tracked file outside the quiet
// window that follows our own writes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}

	if w.Clock.Now().Before(w.quietUntil) {
		return false
	}

	return slices.Contains(w.Syncer.TrackedFiles(), filepath.Base(event.Name))
}

func (w *Watcher) syncOnce(trigger string) {
	log := w.Logger.WithField("trigger", trigger)
	log.Debug("sync triggered")

	result, err := w.Syncer.Sync()

	// Pulled files show up as local writes; ignore them.
	w.quietUntil = w.Clock.Now().Add(w.Debounce)

	if err != nil {
		log.WithError(err).Warn("triggered sync failed")
	} else {
		log.WithFields(logrus.Fields{
			"pushed": result.Pushed(), "pulled": result.Pulled(), "skipped": result.Skipped(),
		}).Info("triggered sync complete")
	}

	if w.OnResult != nil {
		w.OnResult(result, err)
	}
}

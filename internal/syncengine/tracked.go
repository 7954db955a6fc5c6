package syncengine

import (
	"slices"

	"github.com/joe/davsync/internal/config"
)

// trackedFileNames maps each sync type to the data file it covers.
//
//nolint:gochecknoglobals // Fixed lookup table
var trackedFileNames = map[config.SyncType]string{
	config.SyncSubscriptions: "profiles.db",
	config.SyncHistory:       "history.db",
	config.SyncSettings:      "settings.db",
	config.SyncPreferences:   "Preferences",
}

// FileNameFor returns the data file name for a sync type.
func FileNameFor(syncType config.SyncType) (string, bool) {
	name, ok := trackedFileNames[syncType]
	return name, ok
}

// TrackedFileSet is the ordered set of file names currently enabled for sync.
// It is not safe for concurrent use; Engine guards it with its own lock.
type TrackedFileSet struct {
	files []string
}

// NewTrackedFileSet returns a set with the given sync types enabled, in order.
func NewTrackedFileSet(types ...config.SyncType) *TrackedFileSet {
	set := &TrackedFileSet{}
	for _, t := range types {
		set.SetEnabled(t, true)
	}

	return set
}

// SetEnabled adds or removes the file for syncType. Unknown types are ignored,
// enabling twice keeps a single entry and disabling an absent file does nothing.
func (s *TrackedFileSet) SetEnabled(syncType config.SyncType, enabled bool) {
	name, ok := FileNameFor(syncType)
	if !ok {
		return
	}

	idx := slices.Index(s.files, name)

	switch {
	case enabled && idx < 0:
		s.files = append(s.files, name)
	case !enabled && idx >= 0:
		s.files = slices.Delete(s.files, idx, idx+1)
	}
}

// IsEnabled reports whether the file for syncType is tracked.
func (s *TrackedFileSet) IsEnabled(syncType config.SyncType) bool {
	name, ok := FileNameFor(syncType)
	return ok && slices.Contains(s.files, name)
}

// Files returns a copy of the enabled file names in the order they were enabled.
func (s *TrackedFileSet) Files() []string {
	return slices.Clone(s.files)
}

// Len returns the number of tracked files.
func (s *TrackedFileSet) Len() int {
	return len(s.files)
}

package syncengine_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/davsync/internal/config"
	"github.com/joe/davsync/internal/syncengine"
)

func TestFileNameFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		syncType config.SyncType
		expected string
	}{
		{config.SyncSubscriptions, "profiles.db"},
		{config.SyncHistory, "history.db"},
		{config.SyncSettings, "settings.db"},
		{config.SyncPreferences, "Preferences"},
	}

	for _, tt := range tests {
		name, ok := syncengine.FileNameFor(tt.syncType)
		if !ok || name != tt.expected {
			t.Errorf("FileNameFor(%q) = %q, %v; want %q, true", tt.syncType, name, ok, tt.expected)
		}
	}

	if _, ok := syncengine.FileNameFor("bookmarks"); ok {
		t.Error("FileNameFor(bookmarks) should not resolve")
	}
}

func TestTrackedFileSet_EnableIsIdempotent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	set := syncengine.NewTrackedFileSet()
	set.SetEnabled(config.SyncHistory, true)
	set.SetEnabled(config.SyncHistory, true)

	g.Expect(set.Files()).Should(Equal([]string{"history.db"}))
	g.Expect(set.IsEnabled(config.SyncHistory)).Should(BeTrue())
}

func TestTrackedFileSet_DisableUnenabledIsNoOp(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	set := syncengine.NewTrackedFileSet(config.SyncSettings)
	set.SetEnabled(config.SyncHistory, false)

	g.Expect(set.Files()).Should(Equal([]string{"settings.db"}))
}

func TestTrackedFileSet_DisableRemoves(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	set := syncengine.NewTrackedFileSet(config.AllSyncTypes()...)
	set.SetEnabled(config.SyncHistory, false)

	g.Expect(set.Files()).Should(Equal([]string{"profiles.db", "settings.db", "Preferences"}))
	g.Expect(set.IsEnabled(config.SyncHistory)).Should(BeFalse())
	g.Expect(set.Len()).Should(Equal(3))
}

func TestTrackedFileSet_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	set := syncengine.NewTrackedFileSet()
	set.SetEnabled(config.SyncPreferences, true)
	set.SetEnabled(config.SyncSubscriptions, true)
	set.SetEnabled(config.SyncHistory, true)

	g.Expect(set.Files()).Should(Equal([]string{"Preferences", "profiles.db", "history.db"}))
}

func TestTrackedFileSet_UnknownTypeIgnored(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	set := syncengine.NewTrackedFileSet()
	set.SetEnabled("bookmarks", true)

	g.Expect(set.Files()).Should(BeEmpty())
	g.Expect(set.IsEnabled("bookmarks")).Should(BeFalse())
}

func TestTrackedFileSet_FilesReturnsCopy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	set := syncengine.NewTrackedFileSet(config.SyncHistory)
	files := set.Files()
	files[0] = "mutated"

	g.Expect(set.Files()).Should(Equal([]string{"history.db"}))
}

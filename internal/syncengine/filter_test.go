//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package syncengine_test

import (
	"testing"

	"github.com/joe/davsync/internal/syncengine"
)

func TestGlobFilterInvalidPattern(t *testing.T) {
	t.Parallel()

	// Invalid patterns don't panic but match nothing
	filter := syncengine.NewGlobFilter("[invalid")
	if filter.ShouldInclude("history.db") {
		t.Error("Invalid pattern should not match files")
	}
}

func TestGlobFilterShouldInclude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pattern     string
		file        string
		shouldMatch bool
	}{
		{"empty pattern matches all", "", "Preferences", true},
		{"extension match", "*.db", "history.db", true},
		{"extension no match", "*.db", "Preferences", false},
		{"case insensitive pattern", "*.DB", "settings.db", true},
		{"case insensitive name", "preferences", "Preferences", true},
		{"brace alternatives", "{history,settings}.db", "settings.db", true},
		{"brace alternatives no match", "{history,settings}.db", "profiles.db", false},
		{"character class", "[hp]*.db", "profiles.db", true},
		{"single character wildcard", "?istory.db", "history.db", true},
		{"exact name", "profiles.db", "profiles.db", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter := syncengine.NewGlobFilter(tt.pattern)
			if got := filter.ShouldInclude(tt.file); got != tt.shouldMatch {
				t.Errorf("NewGlobFilter(%q).ShouldInclude(%q) = %v, want %v", tt.pattern, tt.file, got, tt.shouldMatch)
			}
		})
	}
}

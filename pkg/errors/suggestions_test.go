package errors_test

import (
	"strings"
	"testing"

	"github.com/joe/davsync/pkg/errors"
)

func TestSuggestionGenerator_EveryCategoryHasSuggestions(t *testing.T) {
	t.Parallel()

	gen := errors.NewSuggestionGenerator()

	categories := []errors.ErrorCategory{
		errors.CategoryAuth,
		errors.CategoryConfig,
		errors.CategoryDiskSpace,
		errors.CategoryNetwork,
		errors.CategoryPath,
		errors.CategoryPermission,
		errors.CategoryTransfer,
		errors.CategoryUnknown,
		errors.ErrorCategory("made-up"),
	}

	for _, category := range categories {
		if len(gen.Generate(category, "")) == 0 {
			t.Errorf("expected suggestions for %q, got none", category)
		}
	}
}

func TestSuggestionGenerator_MentionsPath(t *testing.T) {
	t.Parallel()

	gen := errors.NewSuggestionGenerator()
	path := "/sync/history.db"

	for _, category := range []errors.ErrorCategory{errors.CategoryPath, errors.CategoryPermission, errors.CategoryDiskSpace, errors.CategoryUnknown} {
		if !anyContains(gen.Generate(category, path), path) {
			t.Errorf("expected a %q suggestion mentioning %s", category, path)
		}
	}
}

func TestSuggestionGenerator_AuthMentionsAuthMode(t *testing.T) {
	t.Parallel()

	suggestions := errors.NewSuggestionGenerator().Generate(errors.CategoryAuth, "")
	if !anyContains(suggestions, "--auth-mode") {
		t.Errorf("expected auth suggestions to mention --auth-mode, got %v", suggestions)
	}
}

func anyContains(suggestions []string, substr string) bool {
	for _, suggestion := range suggestions {
		if strings.Contains(suggestion, substr) {
			return true
		}
	}

	return false
}

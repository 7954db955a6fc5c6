package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/joe/davsync/pkg/errors"
)

func TestActionableError_Accessors(t *testing.T) {
	t.Parallel()

	cause := errors.New("403 Forbidden")
	err := pkgerrors.NewActionableError(cause, pkgerrors.CategoryPermission, []string{"check access"}, "/sync/history.db")

	if err.Error() != "403 Forbidden" {
		t.Errorf("expected the cause's message, got %q", err.Error())
	}

	if err.Category() != pkgerrors.CategoryPermission {
		t.Errorf("expected %q, got %q", pkgerrors.CategoryPermission, err.Category())
	}

	if err.AffectedPath() != "/sync/history.db" {
		t.Errorf("unexpected path %q", err.AffectedPath())
	}

	if len(err.Suggestions()) != 1 {
		t.Errorf("expected one suggestion, got %v", err.Suggestions())
	}

	if !errors.Is(err, cause) {
		t.Error("expected the cause to stay reachable through errors.Is")
	}
}

func TestActionableError_WithoutCause(t *testing.T) {
	t.Parallel()

	err := pkgerrors.NewActionableError(nil, pkgerrors.CategoryConfig, nil, "")
	if err.Error() != "config error" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestFormatSuggestions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"no suggestions", pkgerrors.NewActionableError(errors.New("x"), pkgerrors.CategoryUnknown, nil, ""), ""},
		{
			"one suggestion",
			pkgerrors.NewActionableError(errors.New("x"), pkgerrors.CategoryAuth, []string{"check the password"}, ""),
			"  • check the password",
		},
		{
			"several suggestions",
			pkgerrors.NewActionableError(errors.New("x"), pkgerrors.CategoryNetwork, []string{"first", "second"}, ""),
			"  • first\n  • second",
		},
		{
			"wrapped actionable error",
			fmt.Errorf("sync: %w", pkgerrors.NewActionableError(errors.New("x"), pkgerrors.CategoryPath, []string{"check the path"}, "")),
			"  • check the path",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := pkgerrors.FormatSuggestions(testCase.err); got != testCase.want {
				t.Errorf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestErrorCategory_Retryable(t *testing.T) {
	t.Parallel()

	retryable := map[pkgerrors.ErrorCategory]bool{
		pkgerrors.CategoryAuth:       false,
		pkgerrors.CategoryConfig:     false,
		pkgerrors.CategoryDiskSpace:  false,
		pkgerrors.CategoryNetwork:    true,
		pkgerrors.CategoryPath:       false,
		pkgerrors.CategoryPermission: false,
		pkgerrors.CategoryTransfer:   true,
		pkgerrors.CategoryUnknown:    false,
	}

	seen := map[string]bool{}
	for category, want := range retryable {
		if category.Retryable() != want {
			t.Errorf("%q: expected Retryable() = %v", category, want)
		}

		name := strings.ToLower(string(category))
		if seen[name] {
			t.Errorf("duplicate category %q", category)
		}
		seen[name] = true
	}
}

package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joe/davsync/internal/syncengine"
	actionable "github.com/joe/davsync/pkg/errors"
)

// RenderSyncError renders a failed run: the file it stopped on, the enriched
// error message and the operator suggestions. maxWidth > 0 truncates the message.
func RenderSyncError(err error, maxWidth int) string {
	if err == nil {
		return ""
	}

	var (
		builder      strings.Builder
		affectedPath string
		label        = "sync failed"
	)

	var transferErr *syncengine.TransferError
	if errors.As(err, &transferErr) {
		affectedPath = transferErr.Path
		if transferErr.File != "" {
			label = transferErr.File
		} else {
			label = transferErr.Path
		}
	}

	enriched := actionable.NewEnricher().Enrich(err, affectedPath)

	fmt.Fprintf(&builder, "  %s %s\n", ErrorSymbol(), FileItemErrorStyle().Render(label))

	msg := enriched.Error()
	if runes := []rune(msg); maxWidth > 3 && len(runes) > maxWidth {
		msg = string(runes[:maxWidth-3]) + "..."
	}
	fmt.Fprintf(&builder, "    %s\n", msg)

	if suggestions := actionable.FormatSuggestions(enriched); suggestions != "" {
		fmt.Fprintf(&builder, "    %s\n", strings.ReplaceAll(suggestions, "\n", "\n    "))
	}

	var categorized actionable.ActionableError
	if errors.As(enriched, &categorized) && categorized.Category().Retryable() {
		fmt.Fprintf(&builder, "    %s\n", RenderDim("This looks temporary; the next sync may succeed."))
	}

	return builder.String()
}

package errors

import (
	"errors"
	"io/fs"
	"net"
	"regexp"
	"strings"
	"syscall"
)

// Enricher enriches standard errors with actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates a new Enricher with default pattern matcher and suggestion generator.
func NewEnricher() Enricher {
	return &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled once and shared by every enricher
	pathExtractionPatterns = []*regexp.Regexp{
		// "open /data/profiles.db: ...", "remote file /sync/history.db: ..."
		regexp.MustCompile(`\b\w+\s+\(?(/[^\s:()]+)[:)]`),
		// Windows drive paths
		regexp.MustCompile(`\b\w+\s+\(?([A-Za-z]:[\\/][^\s:()]+)[:)]`),
	}
)

type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

// Enrich wraps err in an ActionableError. Errors that already carry one are
// returned unchanged. An empty affectedPath is filled from a *fs.PathError in the
// chain or, failing that, from the message.
func (e *enricher) Enrich(err error, affectedPath string) error {
	if err == nil {
		return nil
	}

	var existing ActionableError
	if errors.As(err, &existing) {
		return err
	}

	if affectedPath == "" {
		affectedPath = pathOf(err)
	}

	category := categoryOf(err)
	if category == CategoryUnknown {
		category = e.matcher.Match(err.Error())
	}

	return NewActionableError(err, category, e.generator.Generate(category, affectedPath), affectedPath)
}

// categoryOf classifies errors whose type already says what went wrong.
// Remote protocol errors only carry a message and fall through to the matcher.
func categoryOf(err error) ErrorCategory {
	var netErr net.Error

	switch {
	case errors.Is(err, fs.ErrPermission):
		return CategoryPermission
	case errors.Is(err, syscall.ENOSPC):
		return CategoryDiskSpace
	case errors.Is(err, fs.ErrNotExist):
		return CategoryPath
	case errors.As(err, &netErr):
		return CategoryNetwork
	default:
		return CategoryUnknown
	}
}

func pathOf(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}

	return extractPath(err.Error())
}

// extractPath finds a path following a verb or noun, as in
// "open /data/profiles.db: permission denied" or
// "failed to upload history.db (/sync/history.db): 403 Forbidden".
// Returns "" when the message has none.
func extractPath(errorMsg string) string {
	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(errorMsg); len(matches) > 1 {
			if path := strings.TrimSpace(matches[1]); path != "" {
				return path
			}
		}
	}

	return ""
}

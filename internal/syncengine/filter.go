package syncengine

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter narrows the tracked files handled by one sync.
type FileFilter interface {
	// ShouldInclude returns true if the tracked file name should be synced
	ShouldInclude(name string) bool
}

// GlobFilter implements FileFilter using glob patterns
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern
// Empty pattern matches all files
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// Pattern returns the pattern as given, lowercased.
func (f *GlobFilter) Pattern() string {
	return f.normalizedPattern
}

// ShouldInclude returns true if the name matches the pattern, case-insensitively.
// An invalid pattern matches nothing.
func (f *GlobFilter) ShouldInclude(name string) bool {
	if f.isEmpty {
		return true
	}

	matched, err := doublestar.Match(f.normalizedPattern, strings.ToLower(name))
	if err != nil {
		return false
	}

	return matched
}

// filterNames keeps the names the filter accepts, preserving order.
func filterNames(filter FileFilter, names []string) []string {
	if filter == nil {
		return names
	}

	kept := make([]string, 0, len(names))
	for _, name := range names {
		if filter.ShouldInclude(name) {
			kept = append(kept, name)
		}
	}

	return kept
}

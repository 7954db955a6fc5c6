// Package errors turns sync failures into messages an operator can act on.
//
// An error is placed in a category (auth, network, config, permission, disk space,
// path, transfer) from its type or, failing that, its message, and given a list of
// suggestions for that category:
//
//	enriched := errors.NewEnricher().Enrich(err, "")
//	fmt.Println(enriched)
//	fmt.Println(errors.FormatSuggestions(enriched))
//
// Enriched errors wrap the original, so errors.Is and errors.As keep working.
package errors

import (
	"errors"
	"strings"
)

// Exported constants.
const (
	CategoryAuth       ErrorCategory = "auth"
	CategoryConfig     ErrorCategory = "config"
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryNetwork    ErrorCategory = "network"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryTransfer   ErrorCategory = "transfer"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// Retryable reports whether running the same sync again may succeed without
// the operator changing anything.
func (c ErrorCategory) Retryable() bool {
	return c == CategoryNetwork || c == CategoryTransfer
}

// ActionableError is an error with a category and suggestions for the operator.
type ActionableError interface {
	error
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError wraps cause with the given category, suggestions and path.
func NewActionableError(
	cause error,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		cause:        cause,
		category:     category,
		suggestions:  suggestions,
		affectedPath: affectedPath,
	}
}

// FormatSuggestions renders the suggestions of the first ActionableError in err's
// chain as an indented bulleted list. It returns "" when there is nothing to show.
func FormatSuggestions(err error) string {
	var actionable ActionableError
	if !errors.As(err, &actionable) {
		return ""
	}

	lines := make([]string, 0, len(actionable.Suggestions()))
	for _, suggestion := range actionable.Suggestions() {
		lines = append(lines, "  • "+suggestion)
	}

	return strings.Join(lines, "\n")
}

type actionableError struct {
	cause        error
	category     ErrorCategory
	suggestions  []string
	affectedPath string
}

func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error returns the wrapped error's message unchanged.
func (e *actionableError) Error() string {
	if e.cause == nil {
		return string(e.category) + " error"
	}

	return e.cause.Error()
}

func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

func (e *actionableError) Unwrap() error {
	return e.cause
}

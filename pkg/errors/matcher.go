package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Categories are checked in order; the first match wins.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		patterns: []categoryPatterns{
			{CategoryConfig, []string{
				"no remote connection",
				"endpoint url, username and password are required",
				"unknown sync strategy",
				"unsupported endpoint scheme",
				"invalid endpoint url",
			}},
			{CategoryAuth, []string{
				"401",
				"unauthorized",
				"unable to authenticate",
				"authentication failed",
				"no ssh authentication methods",
			}},
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"operation not permitted",
				"403",
				"forbidden",
			}},
			{CategoryDiskSpace, []string{
				"no space left on device",
				"disk full",
				"quota exceeded",
				"507",
				"insufficient storage",
			}},
			{CategoryNetwork, []string{
				"connection refused",
				"connection reset",
				"no such host",
				"i/o timeout",
				"network is unreachable",
				"tls:",
				"ssh connection failed",
			}},
			{CategoryPath, []string{
				"no such file or directory",
				"file does not exist",
				"file not found",
				"404",
				"409",
			}},
			{CategoryTransfer, []string{
				"short write",
				"unexpected eof",
				"input/output error",
				"i/o error",
			}},
		},
	}
}

// categoryPatterns groups the patterns of one category.
type categoryPatterns struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	patterns []categoryPatterns
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, group := range m.patterns {
		for _, pattern := range group.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return group.category
			}
		}
	}

	// No match found
	return CategoryUnknown
}

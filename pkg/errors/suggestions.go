package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryAuth:
		return g.generateAuthSuggestions()
	case CategoryConfig:
		return g.generateConfigSuggestions()
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryDiskSpace:
		return g.generateDiskSpaceSuggestions(affectedPath)
	case CategoryNetwork:
		return g.generateNetworkSuggestions()
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryTransfer:
		return g.generateTransferSuggestions()
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateAuthSuggestions() []string {
	return []string{
		"Verify the username and password for the remote endpoint",
		"Try switching --auth-mode between basic and digest",
		"If the password is stored in the keyring, update it with --store-password",
	}
}

func (g *suggestionGenerator) generateConfigSuggestions() []string {
	return []string{
		"Set the endpoint URL, username and password (--url, --username, --password)",
		"Use an http://, https:// or sftp:// endpoint URL",
		"Choose a strategy: overwrite_older, overwrite_remote or overwrite_local",
	}
}

func (g *suggestionGenerator) generateDiskSpaceSuggestions(path string) []string {
	suggestions := []string{
		"Free up space on the remote storage or raise its quota",
		"Check available local space with 'df -h'",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify disk usage for the filesystem containing "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateNetworkSuggestions() []string {
	return []string{
		"Check that the endpoint host and port are reachable",
		"Verify the endpoint URL scheme (http, https or sftp)",
		"Sync again once the connection is back; nothing is retried automatically",
	}
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the remote directory and local directory are spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Ensure all parent directories exist for "+path)
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure the remote account may read and write the remote directory",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the local data directory")
	}

	return suggestions
}

func (g *suggestionGenerator) generateTransferSuggestions() []string {
	return []string{
		"Sync again - this may be a transient I/O error",
		"Files transferred before the failure are already in place",
		"Check system logs for hardware issues",
	}
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Run with --log-file to capture a detailed sync log",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}

package filesystem

import (
	"fmt"
	"strings"
)

// AuthMode selects how credentials are presented to a WebDAV endpoint.
type AuthMode string

// Exported constants.
const (
	// AuthBasic sends basic credentials with every request
	AuthBasic AuthMode = "basic"
	// AuthDigest waits for the server's challenge and answers it (digest or basic)
	AuthDigest AuthMode = "digest"
)

// ParseAuthMode parses a string into an AuthMode. Empty means basic.
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(s) {
	case "", string(AuthBasic):
		return AuthBasic, nil
	case string(AuthDigest):
		return AuthDigest, nil
	default:
		return AuthBasic, fmt.Errorf("invalid auth mode: %s (valid: basic, digest)", s) //nolint:err113 // Validation error with actual value
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg and yaml.
func (m *AuthMode) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Credentials are the fields a remote connection is bound to.
type Credentials struct {
	URL      string
	Username string
	Password string
	AuthMode AuthMode
}

// Complete reports whether every required field is present.
// The auth mode is optional and defaults to basic.
func (c Credentials) Complete() bool {
	return c.URL != "" && c.Username != "" && c.Password != ""
}

// String redacts the password.
func (c Credentials) String() string {
	password := ""
	if c.Password != "" {
		password = "****"
	}

	return fmt.Sprintf("%s@%s (auth=%s, password=%q)", c.Username, c.URL, c.AuthMode, password)
}

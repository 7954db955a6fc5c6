// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"

	"github.com/joe/davsync/pkg/filesystem"
)

// Exported constants.
const (
	// DefaultLocalDir is where the tracked data files live unless overridden
	DefaultLocalDir = "~/.config/davsync"
	// DefaultRemoteDir is the remote base directory unless overridden
	DefaultRemoteDir = "/davsync"
	// DefaultTolerance is the window within which local and remote mtimes count as equal
	DefaultTolerance = 5000 * time.Millisecond
)

// Exported variables.
var (
	ErrNegativeDuration = errors.New("durations must not be negative")
)

// Strategy is the conflict-resolution policy applied to every tracked file in one sync.
type Strategy int

const (
	// OverwriteOlder - the side with the newer modification time wins
	OverwriteOlder Strategy = iota
	// OverwriteRemote - local copies always replace remote copies
	OverwriteRemote
	// OverwriteLocal - remote copies always replace local copies
	OverwriteLocal
)

// String returns the string representation of Strategy
func (s Strategy) String() string {
	switch s {
	case OverwriteOlder:
		return "overwrite_older"
	case OverwriteRemote:
		return "overwrite_remote"
	case OverwriteLocal:
		return "overwrite_local"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a string into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "_") {
	case "overwrite_older", "older":
		return OverwriteOlder, nil
	case "overwrite_remote", "push":
		return OverwriteRemote, nil
	case "overwrite_local", "pull":
		return OverwriteLocal, nil
	default:
		return OverwriteOlder, fmt.Errorf("invalid strategy: %s (valid: overwrite_older, overwrite_remote, overwrite_local)", s) //nolint:err113 // Validation error with actual value
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Config holds the application configuration
type Config struct {
	ConfigFile    string              `arg:"-c,--config,env:DAVSYNC_CONFIG" help:"YAML settings file (flags override it)"`
	URL           string              `arg:"--url,env:DAVSYNC_URL" help:"Remote endpoint: http(s)://host/dav or sftp://host:port/path"`
	Username      string              `arg:"-u,--username,env:DAVSYNC_USERNAME" help:"Remote username"`
	Password      string              `arg:"--password,env:DAVSYNC_PASSWORD" help:"Remote password"`
	AuthMode      filesystem.AuthMode `arg:"--auth-mode,env:DAVSYNC_AUTH_MODE" help:"WebDAV authentication: basic|digest"`
	UseKeyring    bool                `arg:"--keyring" help:"Read the password from the OS keyring when not given"`
	StorePassword bool                `arg:"--store-password" help:"Save the given password in the OS keyring"`
	LocalDir      string              `arg:"-l,--local-dir,env:DAVSYNC_LOCAL_DIR" help:"Directory holding the tracked data files"`
	RemoteDir     string              `arg:"-r,--remote-dir,env:DAVSYNC_REMOTE_DIR" help:"Remote base directory"`
	Strategy      Strategy            `arg:"-s,--strategy" help:"Conflict resolution: overwrite_older|overwrite_remote|overwrite_local (aliases: older|push|pull)"`
	Tolerance     time.Duration       `arg:"--tolerance" help:"Modification times closer than this are treated as equal"`
	SyncTypes     []SyncType          `arg:"--sync" help:"Data to sync: subscriptions history settings preferences (default: all)"`
	Include       string              `arg:"--include" help:"Only sync tracked files whose name matches this glob"`
	Watch         bool                `arg:"-w,--watch" help:"Keep running and sync when tracked local files change"`
	Interval      time.Duration       `arg:"--interval" help:"With --watch, also sync on this interval (0 = off)"`
	LogFile       string              `arg:"--log-file" help:"Write a rotating sync log to this file"`
	Verbose       bool                `arg:"-v,--verbose" help:"Log debug details"`
	NoTUI         bool                `arg:"--no-tui" help:"Print a summary table instead of the interactive view"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Keeps local data files in sync with a WebDAV or SFTP remote"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "davsync 1.0.0"
}

// Credentials returns the fields a remote connection is bound to.
func (cfg *Config) Credentials() filesystem.Credentials {
	return filesystem.Credentials{
		URL:      cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		AuthMode: cfg.AuthMode,
	}
}

// Defaults returns a configuration holding every default value.
func Defaults() *Config {
	return &Config{
		AuthMode:  filesystem.AuthBasic,
		LocalDir:  DefaultLocalDir,
		RemoteDir: DefaultRemoteDir,
		Strategy:  OverwriteOlder,
		Tolerance: DefaultTolerance,
	}
}

// ParseFlags parses the settings file (if any) and command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := Defaults()

	settingsPath, explicit := findSettingsPath(os.Args[1:])
	if settingsPath != "" {
		if err := cfg.LoadFile(settingsPath, explicit); err != nil {
			return nil, err
		}
	}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	localDir, err := homedir.Expand(cfg.LocalDir)
	if err != nil {
		return nil, fmt.Errorf("cannot expand local dir %s: %w", cfg.LocalDir, err)
	}
	cfg.LocalDir = localDir

	cfg.URL = filesystem.TrimEndpointURL(cfg.URL)

	if len(cfg.SyncTypes) == 0 {
		cfg.SyncTypes = AllSyncTypes()
	}

	if cfg.Tolerance < 0 || cfg.Interval < 0 {
		return nil, ErrNegativeDuration
	}

	if err := ValidateFilePattern(cfg.Include); err != nil {
		return nil, err
	}

	if err := cfg.resolvePassword(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateFilePattern reports whether pattern is a usable glob. Empty is valid.
func ValidateFilePattern(pattern string) error {
	if pattern == "" {
		return nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid include pattern: %s", pattern) //nolint:err113 // Validation error with actual value
	}

	return nil
}

// findSettingsPath returns the settings file named by --config/-c or DAVSYNC_CONFIG,
// falling back to the default location. explicit is false for the fallback.
func findSettingsPath(args []string) (path string, explicit bool) {
	for i, a := range args {
		switch {
		case (a == "--config" || a == "-c") && i+1 < len(args):
			return args[i+1], true
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config="), true
		}
	}

	if env := os.Getenv("DAVSYNC_CONFIG"); env != "" {
		return env, true
	}

	fallback, err := homedir.Expand(DefaultLocalDir + "/config.yaml")
	if err != nil {
		return "", false
	}

	return fallback, false
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joe/davsync/pkg/filesystem"
)

// Settings is the on-disk YAML form of the configuration. Every field is optional.
type Settings struct {
	URL        string   `yaml:"url"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	AuthMode   string   `yaml:"auth_mode"`
	UseKeyring bool     `yaml:"keyring"`
	LocalDir   string   `yaml:"local_dir"`
	RemoteDir  string   `yaml:"remote_dir"`
	Strategy   string   `yaml:"strategy"`
	Tolerance  string   `yaml:"tolerance"`
	Sync       []string `yaml:"sync"`
	Include    string   `yaml:"include"`
	Watch      bool     `yaml:"watch"`
	Interval   string   `yaml:"interval"`
	LogFile    string   `yaml:"log_file"`
}

// LoadFile reads a YAML settings file into cfg. A missing file is an error only
// when the path was given explicitly.
func (cfg *Config) LoadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the operator
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if err := cfg.Apply(settings); err != nil {
		return fmt.Errorf("invalid settings file %s: %w", path, err)
	}

	cfg.ConfigFile = path

	return nil
}

// Apply copies every non-empty field of s into cfg.
//
//nolint:cyclop // One branch per optional field
func (cfg *Config) Apply(s Settings) error {
	setString(&cfg.URL, s.URL)
	setString(&cfg.Username, s.Username)
	setString(&cfg.Password, s.Password)
	setString(&cfg.LocalDir, s.LocalDir)
	setString(&cfg.RemoteDir, s.RemoteDir)
	setString(&cfg.Include, s.Include)
	setString(&cfg.LogFile, s.LogFile)

	cfg.UseKeyring = cfg.UseKeyring || s.UseKeyring
	cfg.Watch = cfg.Watch || s.Watch

	if s.AuthMode != "" {
		mode, err := filesystem.ParseAuthMode(s.AuthMode)
		if err != nil {
			return err
		}
		cfg.AuthMode = mode
	}

	if s.Strategy != "" {
		strategy, err := ParseStrategy(s.Strategy)
		if err != nil {
			return err
		}
		cfg.Strategy = strategy
	}

	if err := setDuration(&cfg.Tolerance, s.Tolerance); err != nil {
		return err
	}

	if err := setDuration(&cfg.Interval, s.Interval); err != nil {
		return err
	}

	if len(s.Sync) > 0 {
		types := make([]SyncType, 0, len(s.Sync))
		for _, name := range s.Sync {
			syncType, err := ParseSyncType(name)
			if err != nil {
				return err
			}
			types = append(types, syncType)
		}
		cfg.SyncTypes = types
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, value string) error {
	if value == "" {
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value, err)
	}
	*dst = d

	return nil
}

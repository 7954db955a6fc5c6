package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name passwords are stored under.
const KeyringService = "davsync"

// resolvePassword fills an empty password from the OS keyring when asked to, and
// saves a given password when --store-password is set.
func (cfg *Config) resolvePassword() error {
	if cfg.StorePassword {
		if cfg.Username == "" || cfg.Password == "" {
			return errors.New("--store-password needs both a username and a password") //nolint:err113 // One-off usage error
		}

		if err := keyring.Set(KeyringService, cfg.Username, cfg.Password); err != nil {
			return fmt.Errorf("failed to store password in keyring: %w", err)
		}

		return nil
	}

	if !cfg.UseKeyring || cfg.Password != "" || cfg.Username == "" {
		return nil
	}

	password, err := keyring.Get(KeyringService, cfg.Username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			// Left empty: the engine reports the missing connection.
			return nil
		}

		return fmt.Errorf("failed to read password from keyring: %w", err)
	}

	cfg.Password = password

	return nil
}

package config

import (
	"fmt"
	"strings"
)

// SyncType names one category of user data that can be synced.
type SyncType string

// Known sync types.
const (
	SyncSubscriptions SyncType = "subscriptions"
	SyncHistory       SyncType = "history"
	SyncSettings      SyncType = "settings"
	SyncPreferences   SyncType = "preferences"
)

// AllSyncTypes returns every known sync type in canonical order.
func AllSyncTypes() []SyncType {
	return []SyncType{SyncSubscriptions, SyncHistory, SyncSettings, SyncPreferences}
}

// ParseSyncType parses a string into a SyncType
func ParseSyncType(s string) (SyncType, error) {
	candidate := SyncType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllSyncTypes() {
		if candidate == known {
			return known, nil
		}
	}

	return "", fmt.Errorf("invalid sync type: %s (valid: subscriptions, history, settings, preferences)", s) //nolint:err113 // Validation error with actual value
}

// String returns the string representation of SyncType
func (t SyncType) String() string {
	return string(t)
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (t *SyncType) UnmarshalText(text []byte) error {
	parsed, err := ParseSyncType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

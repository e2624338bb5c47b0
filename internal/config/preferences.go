package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Preferences holds user-configurable storage behavior settings.
// Persisted to ~/.config/chatvortex/config.json.
type Preferences struct {
	// FallbackRetention is how many of the most recently updated sessions
	// survive a capacity-triggered truncation of the fallback slot.
	FallbackRetention int `json:"fallback_retention,omitempty"`

	// SnapshotMaxBytes caps the fallback slot size. Zero means unlimited.
	SnapshotMaxBytes int `json:"snapshot_max_bytes,omitempty"`

	// AvgMessageBytes is the per-message heuristic used for the estimated
	// corpus size in stats output.
	AvgMessageBytes int `json:"avg_message_bytes,omitempty"`

	// ModelCacheTTLHours is how long a fetched model catalog stays fresh.
	ModelCacheTTLHours int `json:"model_cache_ttl_hours,omitempty"`
}

// DefaultPreferences returns the default set of preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		FallbackRetention:  6,
		AvgMessageBytes:    512,
		ModelCacheTTLHours: 24,
	}
}

func prefsPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LoadPreferences reads preferences from disk, filling defaults for unset
// fields. A missing or corrupt file yields the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	data, err := os.ReadFile(prefsPath())
	if err != nil {
		return prefs
	}
	var loaded Preferences
	if err := json.Unmarshal(data, &loaded); err != nil {
		return prefs
	}
	if loaded.FallbackRetention > 0 {
		prefs.FallbackRetention = loaded.FallbackRetention
	}
	if loaded.SnapshotMaxBytes > 0 {
		prefs.SnapshotMaxBytes = loaded.SnapshotMaxBytes
	}
	if loaded.AvgMessageBytes > 0 {
		prefs.AvgMessageBytes = loaded.AvgMessageBytes
	}
	if loaded.ModelCacheTTLHours > 0 {
		prefs.ModelCacheTTLHours = loaded.ModelCacheTTLHours
	}
	return prefs.withEnvOverrides()
}

// withEnvOverrides applies CHATVORTEX_* environment variables on top of the
// file-backed values.
func (p Preferences) withEnvOverrides() Preferences {
	if v, ok := envInt("CHATVORTEX_FALLBACK_RETENTION"); ok {
		p.FallbackRetention = v
	}
	if v, ok := envInt("CHATVORTEX_SNAPSHOT_MAX_BYTES"); ok {
		p.SnapshotMaxBytes = v
	}
	if v, ok := envInt("CHATVORTEX_AVG_MESSAGE_BYTES"); ok {
		p.AvgMessageBytes = v
	}
	if v, ok := envInt("CHATVORTEX_MODEL_CACHE_TTL_HOURS"); ok {
		p.ModelCacheTTLHours = v
	}
	return p
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// SavePreferences writes preferences to the config file.
func SavePreferences(prefs Preferences) error {
	if err := os.MkdirAll(ConfigDir(), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(prefsPath(), data, 0o600)
}

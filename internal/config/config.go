package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// dataDirOverride is set by tests (and the --data-dir flag) to redirect
// DataDir and ConfigDir.
var dataDirOverride string

// SetDataDir overrides the data directory for this process.
func SetDataDir(dir string) {
	dataDirOverride = dir
}

// ConfigDir returns the config directory for chatvortex.
func ConfigDir() string {
	if dataDirOverride != "" {
		return dataDirOverride
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatvortex")
}

// DataDir returns ~/.local/share/chatvortex, creating it if needed.
func DataDir() (string, error) {
	if dataDirOverride != "" {
		if err := os.MkdirAll(dataDirOverride, 0o700); err != nil {
			return "", err
		}
		return dataDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "share", "chatvortex")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabasePath returns the primary store's database file path.
func DatabasePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatvortex.db"), nil
}

// SnapshotPath returns the fallback slot's file path.
func SnapshotPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.json"), nil
}

// LoadEnv loads a .env file from the working directory if present. Missing
// files are fine; real env vars always win.
func LoadEnv() {
	_ = godotenv.Load()
}

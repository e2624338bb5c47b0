package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.FallbackRetention != 6 {
		t.Errorf("FallbackRetention = %d, want 6", prefs.FallbackRetention)
	}
	if prefs.ModelCacheTTLHours != 24 {
		t.Errorf("ModelCacheTTLHours = %d, want 24", prefs.ModelCacheTTLHours)
	}
	if prefs.AvgMessageBytes <= 0 {
		t.Errorf("AvgMessageBytes = %d, want positive", prefs.AvgMessageBytes)
	}
}

func TestLoadPreferences(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		SetDataDir(t.TempDir())
		prefs := LoadPreferences()
		if prefs != DefaultPreferences() {
			t.Errorf("prefs = %+v, want defaults", prefs)
		}
	})

	t.Run("corrupt file yields defaults", func(t *testing.T) {
		dir := t.TempDir()
		SetDataDir(dir)
		if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{bad"), 0o600); err != nil {
			t.Fatal(err)
		}
		prefs := LoadPreferences()
		if prefs != DefaultPreferences() {
			t.Errorf("prefs = %+v, want defaults", prefs)
		}
	})

	t.Run("round-trips through save", func(t *testing.T) {
		SetDataDir(t.TempDir())
		want := DefaultPreferences()
		want.FallbackRetention = 12
		want.SnapshotMaxBytes = 1 << 20
		if err := SavePreferences(want); err != nil {
			t.Fatalf("SavePreferences: %v", err)
		}
		got := LoadPreferences()
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("env var overrides file value", func(t *testing.T) {
		SetDataDir(t.TempDir())
		t.Setenv("CHATVORTEX_FALLBACK_RETENTION", "3")
		prefs := LoadPreferences()
		if prefs.FallbackRetention != 3 {
			t.Errorf("FallbackRetention = %d, want 3", prefs.FallbackRetention)
		}
	})

	t.Run("invalid env var ignored", func(t *testing.T) {
		SetDataDir(t.TempDir())
		t.Setenv("CHATVORTEX_FALLBACK_RETENTION", "zero")
		prefs := LoadPreferences()
		if prefs.FallbackRetention != 6 {
			t.Errorf("FallbackRetention = %d, want default 6", prefs.FallbackRetention)
		}
	})
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	SetDataDir(dir)

	dbPath, err := DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath: %v", err)
	}
	if filepath.Dir(dbPath) != dir {
		t.Errorf("DatabasePath = %q, want under %q", dbPath, dir)
	}

	slotPath, err := SnapshotPath()
	if err != nil {
		t.Fatalf("SnapshotPath: %v", err)
	}
	if filepath.Base(slotPath) != "sessions.json" {
		t.Errorf("SnapshotPath = %q, want sessions.json", slotPath)
	}
}

func TestLogger(t *testing.T) {
	dir := t.TempDir()
	SetDataDir(dir)

	l := NewLogger()
	l.Printf("storage tier: %s", "primary")
	l.Close()

	data, err := os.ReadFile(LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "storage tier: primary") {
		t.Errorf("log = %q, want line about storage tier", data)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.DBPath == "" {
		t.Fatal("DBPath should default")
	}
	if !cfg.NotificationsEnabled() {
		t.Fatal("notifications should default to on")
	}
	if cfg.LogFile != "" {
		t.Fatalf("LogFile = %q, want empty", cfg.LogFile)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/tc.db\nnotifications: false\nlog_file: /tmp/tc.log\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/tc.db" {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.NotificationsEnabled() {
		t.Fatal("notifications should be off")
	}
	if cfg.LogFile != "/tmp/tc.log" {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "notifications: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath == "" || !cfg.NotificationsEnabled() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "db_path: [unterminated\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Fatalf("unexpected path %q", path)
	}
}

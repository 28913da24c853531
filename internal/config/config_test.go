package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/integrity"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Words != nil || cfg.Store.Driver != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := writeConfig(t, `
[practice]
mode = "timer"
duration = 60
words = 40
text = "my own text"
anti-cheat = false

[integrity]
max-human-wpm = 250.0
min-interval-ms = 25

[store]
driver = "postgres"
dsn = "postgres://localhost/typemaster"

[log]
level = "debug"
format = "json"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != "timer" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.Text == nil || *cfg.Practice.Text != "my own text" {
		t.Fatalf("unexpected text: %v", cfg.Practice.Text)
	}
	if cfg.Practice.Duration == nil || *cfg.Practice.Duration != 60 {
		t.Fatalf("unexpected duration: %v", cfg.Practice.Duration)
	}
	if cfg.Practice.AntiCheat == nil || *cfg.Practice.AntiCheat {
		t.Fatalf("expected anti-cheat=false")
	}
	if cfg.Store.DSN == nil || *cfg.Store.DSN != "postgres://localhost/typemaster" {
		t.Fatalf("unexpected dsn: %v", cfg.Store.DSN)
	}
	if cfg.Log.Format == nil || *cfg.Log.Format != "json" {
		t.Fatalf("unexpected log format: %v", cfg.Log.Format)
	}

	th, err := cfg.Integrity.Thresholds(integrity.DefaultThresholds())
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	if th.MaxHumanWPM != 250 || th.MinInterval != 25*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", th)
	}
	if th.MaxSustainedWPM != 180 {
		t.Fatalf("unset values should keep defaults, got %.0f", th.MaxSustainedWPM)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, "[practice]\nspeed = 3\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.speed") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestThresholdsInvalid(t *testing.T) {
	zero := 0
	_, err := IntegrityConfig{CheatingThreshold: &zero}.Thresholds(integrity.DefaultThresholds())
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	if got := DefaultConfigPath(); got != filepath.Join(dir, "cfg", "typemaster", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "data", "typemaster", "typemaster.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "state", "typemaster", "typemaster.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}

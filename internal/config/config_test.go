package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("default Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("default Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Counter.DebounceMS != 100 {
		t.Errorf("default DebounceMS = %d, want 100", cfg.Counter.DebounceMS)
	}
	if cfg.Journal.Enabled {
		t.Error("default Journal.Enabled should be false")
	}
	if cfg.Journal.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("default HistoryLimit = %d, want %d", cfg.Journal.HistoryLimit, DefaultHistoryLimit)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	journalPath := filepath.Join(dir, "values.db")
	configPath := writeConfig(t, `
server:
  port: 9000
  host: "0.0.0.0"

logging:
  level: debug
  format: json

counter:
  initial: 7
  input_file: "`+filepath.Join(dir, "count.txt")+`"
  debounce_ms: 250

journal:
  enabled: true
  path: "`+journalPath+`"
  history_limit: 20
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Counter.Initial != 7 {
		t.Errorf("Counter.Initial = %d, want 7", cfg.Counter.Initial)
	}
	if cfg.Counter.InputFile != filepath.Join(dir, "count.txt") {
		t.Errorf("Counter.InputFile = %s", cfg.Counter.InputFile)
	}
	if cfg.Counter.DebounceMS != 250 {
		t.Errorf("DebounceMS = %d, want 250", cfg.Counter.DebounceMS)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != journalPath {
		t.Errorf("Journal = %+v, want enabled at %s", cfg.Journal, journalPath)
	}
	if cfg.Journal.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want 20", cfg.Journal.HistoryLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RELAYKIT_SERVER_PORT", "9123")
	t.Setenv("RELAYKIT_COUNTER_INITIAL", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9123 {
		t.Fatalf("Server.Port = %d, want 9123", cfg.Server.Port)
	}
	if cfg.Counter.Initial != 42 {
		t.Fatalf("Counter.Initial = %d, want 42", cfg.Counter.Initial)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 9000
`)
	t.Setenv("RELAYKIT_SERVER_PORT", "9002")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9002 {
		t.Fatalf("Server.Port = %d, want 9002", cfg.Server.Port)
	}
}

func TestLoad_JournalPathDefaultsToConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	configPath := writeConfig(t, `
journal:
  enabled: true
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := filepath.Join(home, ".relaykit", DefaultJournalFile)
	if cfg.Journal.Path != want {
		t.Errorf("Journal.Path = %s, want %s", cfg.Journal.Path, want)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := writeConfig(t, "server: [unterminated")

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() should fail on malformed YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, `
server:
  port: 70000
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() should reject an out-of-range port")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Validate(Default()) error = %v", err)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if dir != filepath.Join(home, ".relaykit") {
		t.Errorf("dir = %s", dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}
}

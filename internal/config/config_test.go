package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Analysis.Mode != nil || cfg.Serve.Addr != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[analysis]
mode = "random"
seed = 42
issue-cap = 3

[serve]
addr = ":9000"
run-rate = 2.5
run-burst = 4

[log]
level = "debug"

[store]
path = "/tmp/runs.db"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Analysis.Mode == nil || *cfg.Analysis.Mode != "random" {
		t.Fatalf("unexpected mode: %v", cfg.Analysis.Mode)
	}
	if cfg.Analysis.Seed == nil || *cfg.Analysis.Seed != 42 {
		t.Fatalf("unexpected seed")
	}
	if cfg.Analysis.IssueCap == nil || *cfg.Analysis.IssueCap != 3 {
		t.Fatalf("unexpected issue cap")
	}
	if cfg.Serve.Addr == nil || *cfg.Serve.Addr != ":9000" {
		t.Fatalf("unexpected addr")
	}
	if cfg.Serve.RunRate == nil || *cfg.Serve.RunRate != 2.5 || cfg.Serve.RunBurst == nil || *cfg.Serve.RunBurst != 4 {
		t.Fatalf("unexpected run limit")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected level")
	}
	if cfg.Store.Path == nil || *cfg.Store.Path != "/tmp/runs.db" {
		t.Fatalf("unexpected store path")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nmodee = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "modee") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pentrust", "config.toml")
	if err := EnsureConfigFile(path); err != nil {
		t.Fatalf("EnsureConfigFile failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Analysis.Mode != nil {
		t.Fatalf("expected template values to be commented out")
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := EnsureConfigFile(path); err != nil {
		t.Fatalf("EnsureConfigFile on existing file failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "warn") {
		t.Fatalf("expected existing file to be kept")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "pentrust", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "pentrust", "runs.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultLogDir(); got != filepath.Join("/data", "pentrust", "logs") {
		t.Fatalf("unexpected log dir %s", got)
	}
}

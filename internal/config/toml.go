// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Serve    ServeConfig    `toml:"serve"`
	Log      LogConfig      `toml:"log"`
	Store    StoreConfig    `toml:"store"`
}

// AnalysisConfig maps scoring settings.
type AnalysisConfig struct {
	Mode     *string `toml:"mode"`
	Seed     *int64  `toml:"seed"`
	IssueCap *int    `toml:"issue-cap"`
}

// ServeConfig maps HTTP server settings.
type ServeConfig struct {
	Addr     *string  `toml:"addr"`
	RunRate  *float64 `toml:"run-rate"`
	RunBurst *int     `toml:"run-burst"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// StoreConfig maps run export settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

const configTemplate = `# PenTrust configuration

[analysis]
# "stable" derives scores from the identifier, "random" draws fresh scores each run.
# mode = "stable"
# seed = 0
# issue-cap = 2

[serve]
# addr = "127.0.0.1:8080"
# run-rate = 0      # analysis runs per second across sessions, 0 for unlimited
# run-burst = 5

[log]
# level = "info"

[store]
# path = ""
`

// EnsureConfigFile writes a commented template when path does not exist yet.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

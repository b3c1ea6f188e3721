package config

import (
	"os"
	"path/filepath"
)

const appName = "pentrust"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgHome(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, fallback)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultDBPath returns the default path for the run export database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, "runs.db")
}

// DefaultLogDir returns the directory for dashboard log files.
func DefaultLogDir() string {
	return filepath.Join(XDGDataHome(), appName, "logs")
}

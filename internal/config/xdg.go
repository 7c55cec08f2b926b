package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome is $XDG_CONFIG_HOME, falling back to ~/.config, or the working directory without a home.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome is $XDG_DATA_HOME, falling back to ~/.local/share.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath is where tuicast keeps its listening history.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "tuicast", "tuicast.db")
}

// DefaultConfigPath is the player settings file opened by `tuicast config`.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "tuicast", "config.toml")
}

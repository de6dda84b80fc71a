package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the XDG config file path for the named application,
// honoring XDG_CONFIG_HOME and falling back to ~/.config/<app>/config.toml.
func GetConfigPath(app string) string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, app, "config.toml")
	}

	homeDir, _ := os.UserHomeDir()
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", app, "config.toml")
}

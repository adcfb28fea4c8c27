package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// configName is the config file name without extension, and the name of the
// per-user directories the app reads from and writes to.
const configName = "lunchtogo"

// Config represents the application configuration structure.
type Config struct {
	// Debug enables debug logging
	Debug bool `toml:"debug"`
	// Token is the Lunch Money API token
	Token string `toml:"token"`
	// BaseURL overrides the Lunch Money API endpoint
	BaseURL string `toml:"base_url"`
	// DataDir holds preferences and the encrypted API key
	DataDir string `toml:"data_dir"`
	// DemoFile replaces the bundled demo dataset
	DemoFile string `toml:"demo_file"`

	configPathUsed string // Path to the configuration file used
}

// configSearchDirs returns the directories searched for lunchtogo.toml
// in order of precedence (first found wins).
func configSearchDirs() []string {
	// Current directory (highest precedence)
	dirs := []string{"."}

	// User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, configName))
	}

	// User home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir, filepath.Join(homeDir, ".config", configName))
	}

	// System-wide config directory (lowest precedence)
	return append(dirs, filepath.Join("/etc", configName))
}

// resolveDataDir returns the configured data directory or the per-user default.
func (c Config) resolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find user config directory: %w", err)
	}

	return filepath.Join(configDir, configName), nil
}

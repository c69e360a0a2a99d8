// Package config loads the registry's settings from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the config and data directories.
const AppName = "registry"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// ConfigDir is where config.yaml and the OAuth token live.
func ConfigDir() string {
	return ExpandPath(filepath.Join("~", ".config", AppName))
}

// DataDir is where the local SQLite register lives.
func DataDir() string {
	return ExpandPath(filepath.Join("~", ".local", "share", AppName))
}

// DefaultTokenFile is where `registry auth sheets` saves the OAuth2 token.
func DefaultTokenFile() string {
	return filepath.Join(ConfigDir(), "sheets-token.json")
}

// Package config loads khata's settings and resolves its file locations.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns the directory searched for config.yaml. XDG_CONFIG_HOME
// wins over ~/.config.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "khata")
	}
	return ExpandPath("~/.config/khata")
}

// DataDir returns the default directory of the database. XDG_DATA_HOME wins
// over ~/.local/share.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "khata")
	}
	return ExpandPath("~/.local/share/khata")
}


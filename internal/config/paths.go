package config

import (
	"os"
	"path/filepath"
)

const (
	ConfigFileName = "config.toml"
	ConfigDir      = ".config/tally"
)

// DefaultConfigPath returns ~/.config/tally/config.toml, or "" when the home
// directory cannot be determined.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigDir, ConfigFileName)
}

// ResolvePath returns override when set, otherwise the default path.
func ResolvePath(override string) string {
	if override != "" {
		return override
	}
	return DefaultConfigPath()
}

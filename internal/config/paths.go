package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that override the default locations.
const (
	EnvConfigPath = "MAILORG_CONFIG_PATH"
	EnvHome       = "MAILORG_HOME"
)

// Paths are the locations used before a config file has been read.
type Paths struct {
	// ConfigPath is the TOML file, ~/.config/mailorg.toml unless overridden.
	ConfigPath string
	// BaseDir holds content, database, keys and logs, ~/.local/share/mailorg
	// unless overridden.
	BaseDir string
	LogDir  string
}

// DefaultPaths resolves Paths from the process environment.
func DefaultPaths() (Paths, error) {
	return resolvePaths(os.Getenv, os.UserHomeDir)
}

func resolvePaths(getenv func(string) string, home func() (string, error)) (Paths, error) {
	p := Paths{
		ConfigPath: getenv(EnvConfigPath),
		BaseDir:    getenv(EnvHome),
	}
	if p.ConfigPath == "" || p.BaseDir == "" {
		dir, err := home()
		if err != nil {
			return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		if p.ConfigPath == "" {
			p.ConfigPath = filepath.Join(dir, ".config", "mailorg.toml")
		}
		if p.BaseDir == "" {
			p.BaseDir = filepath.Join(dir, ".local", "share", "mailorg")
		}
	}
	p.LogDir = filepath.Join(p.BaseDir, "log")
	return p, nil
}

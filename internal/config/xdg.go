// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "tuidle"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", ".local", "share")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	return xdgHome("XDG_STATE_HOME", ".local", "state")
}

func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultWordListDir returns the directory holding offline word lists.
func DefaultWordListDir() string {
	return filepath.Join(XDGConfigHome(), appName, "wordlists")
}

// DefaultWordListPath builds the default offline word list path for a language.
func DefaultWordListPath(lang string) string {
	return filepath.Join(DefaultWordListDir(), lang+".txt")
}

// DefaultStorePath returns the default statistics location for a file-based driver.
func DefaultStorePath(driver string) string {
	if driver == "json" {
		return filepath.Join(XDGDataHome(), appName, "statistics.json")
	}
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultLogPath returns the log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appName, appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

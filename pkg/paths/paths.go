// Package paths locates the per-user directories slidecraft reads and writes.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "slidecraft"

// GetConfigDir returns the user's config directory for slidecraft.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), "."+appName+"-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", appName))
}

// GetDataDir returns the user's data directory for slidecraft (logs).
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), "."+appName))
	}
	return filepath.Clean(filepath.Join(homeDir, "."+appName))
}

// ConfigFile is the default location of config.yaml.
func ConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LogFile is the default debug log location.
func LogFile() string {
	return filepath.Join(GetDataDir(), appName+".debug.log")
}

// GetHomeDir returns the user's home directory, or "" if it cannot be
// determined.
func GetHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Clean(homeDir)
}

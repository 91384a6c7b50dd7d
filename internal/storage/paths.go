package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessgym"

// DataDirEnv overrides the platform data directory when set.
const DataDirEnv = "CHESSGYM_DATA"

// DataDir returns the platform-specific data directory for the application,
// creating it if needed.
// - macOS: ~/Library/Application Support/chessgym/
// - Linux: ~/.local/share/chessgym/
// - Windows: %APPDATA%/chessgym/
func DataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return dir, nil
	}

	var baseDir string
	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: XDG_DATA_HOME or ~/.local/share/
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// subDir returns a named directory under DataDir, creating it if needed.
func subDir(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabaseDir returns the directory holding the episode database.
func DatabaseDir() (string, error) { return subDir("db") }

// WeightsDir returns the directory searched for network weight files.
func WeightsDir() (string, error) { return subDir("nnue") }

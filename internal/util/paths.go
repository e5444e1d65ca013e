package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigDir returns the numfield configuration directory (~/.numfield)
func ConfigDir() string {
	return filepath.Join(HomeDir(), ".numfield")
}

// ScriptsDir returns the default directory for replay scripts
func ScriptsDir() string {
	return filepath.Join(ConfigDir(), "scripts")
}

// ExpandPath expands a leading ~ and resolves relative paths against baseDir.
// An empty baseDir leaves relative paths untouched.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// FileExists reports whether path names an existing file or directory
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

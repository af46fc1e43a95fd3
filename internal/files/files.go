package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the folder under the user's home directory that
	// holds the log when no file argument is given.
	DefaultDirName = ".tally"
	// DefaultFileName is the log file created inside DefaultDirName.
	DefaultFileName = "timelog.txt"

	dirPermissions  = 0o755
	filePermissions = 0o644
)

// ResolveLogPath picks the log file to operate on: an explicit argument
// wins, then the TALLY_FILE environment variable, then ~/.tally/timelog.txt.
func ResolveLogPath(arg string) (string, error) {
	if arg != "" {
		return filepath.Abs(arg)
	}

	if override, ok := os.LookupEnv("TALLY_FILE"); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			path, err := normalizePath(override)
			if err != nil {
				return "", err
			}
			return filepath.Abs(path)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName), nil
}

// EnsureFile guarantees the directory tree exists and the log file is
// present, creating an empty file when needed.
func EnsureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePermissions)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	return file.Close()
}

func normalizePath(input string) (string, error) {
	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}

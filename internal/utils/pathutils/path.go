package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToHomePathFormat rewrites an absolute path under $HOME as ~/...
func ToHomePathFormat(path string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if rest, ok := strings.CutPrefix(path, home); ok {
		return "~" + rest, nil
	}
	return path, nil
}

// ToAbsolutePath expands a leading ~ into the user's home directory.
func ToAbsolutePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return filepath.Abs(path)
}

// Package shared provides common utility functions used across multiple
// packages in the repository-dist codebase.
package shared

import (
	"fmt"
	"os"
	"strings"
)

// NormalizeFingerprint upper-cases an OpenPGP fingerprint and strips the
// spaces gpg inserts in its human readable output.
func NormalizeFingerprint(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), ""))
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return err
	}
	return fmt.Errorf("%s: %w", trimmed, err)
}

// FileExists reports whether path exists. Errors other than "not exist"
// are returned so callers do not mistake an unreadable path for an
// absent one.
func FileExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// NonEmptyFile reports whether path is a regular file with content.
func NonEmptyFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular() && info.Size() > 0, nil
}

//go:build !windows

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateShortcut approximates a shortcut with a symlink so install
// plans can run on development machines.
func CreateShortcut(lnkPath string, s Shortcut) error {
	if _, err := os.Stat(s.Target); err != nil {
		return fmt.Errorf("target not found: %s", s.Target)
	}
	if err := os.MkdirAll(filepath.Dir(lnkPath), 0o755); err != nil {
		return err
	}
	_ = os.Remove(lnkPath)
	return os.Symlink(s.Target, lnkPath)
}

// DeleteShortcut removes a shortcut file.
func DeleteShortcut(lnkPath string) error {
	err := os.Remove(lnkPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

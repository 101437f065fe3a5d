//go:build !windows

package platform

import (
	"os"
	"path/filepath"
)

// The non-Windows folder lookups return home-rooted stand-ins so the
// install flow can be exercised end to end during development.

func ProgramFilesPath() string {
	return "/opt"
}

func UserProgramFilesPath() (string, error) {
	return userPath(".local", "opt")
}

func CommonProgramsPath() (string, error) {
	return "/usr/share/applications", nil
}

func UserProgramsPath() (string, error) {
	return userPath(".local", "share", "applications")
}

func CommonDesktopPath() (string, error) {
	return "/usr/share/desktop", nil
}

func UserDesktopPath() (string, error) {
	return userPath("Desktop")
}

func SystemDirPath() (string, error) {
	return "/usr/lib", nil
}

func userPath(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

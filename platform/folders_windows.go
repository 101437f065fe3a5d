//go:build windows

package platform

import (
	"os"

	"golang.org/x/sys/windows"
)

// ProgramFilesPath returns the per-machine Program Files folder.
// Example: C:\Program Files
func ProgramFilesPath() string {
	path := os.Getenv("ProgramFiles")
	if path == "" {
		return `C:\Program Files`
	}
	return path
}

// UserProgramFilesPath returns the per-user program files folder,
// creating it if needed.
// Example: C:\Users\<user>\AppData\Local\Programs
func UserProgramFilesPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_UserProgramFiles, windows.KF_FLAG_CREATE)
}

// CommonProgramsPath returns the all-users Start Menu Programs folder.
// Example: C:\ProgramData\Microsoft\Windows\Start Menu\Programs
func CommonProgramsPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_CommonPrograms, 0)
}

// UserProgramsPath returns the current user's Start Menu Programs folder.
// Example: C:\Users\<user>\AppData\Roaming\Microsoft\Windows\Start Menu\Programs
func UserProgramsPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Programs, 0)
}

// CommonDesktopPath returns the all-users Desktop folder.
// Example: C:\Users\Public\Desktop
func CommonDesktopPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_PublicDesktop, 0)
}

// UserDesktopPath returns the current user's Desktop folder.
// Example: C:\Users\<user>\Desktop
func UserDesktopPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Desktop, 0)
}

// SystemDirPath returns the Windows system directory.
// Example: C:\Windows\System32
func SystemDirPath() (string, error) {
	return windows.GetSystemDirectory()
}

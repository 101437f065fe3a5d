//go:build !windows

package platform

// FindProcessesByName returns no matches outside Windows.
func FindProcessesByName(exeName string) []uint32 {
	return nil
}

// IsProcessRunning always reports false outside Windows.
func IsProcessRunning(exeName string) bool {
	return false
}

// KillProcessByName is a no-op outside Windows.
func KillProcessByName(exeName string) error {
	return nil
}

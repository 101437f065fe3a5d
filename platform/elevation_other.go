//go:build !windows

package platform

import (
	"errors"
	"os"
)

// IsElevated reports whether the process runs as root.
func IsElevated() bool {
	return os.Geteuid() == 0
}

// RelaunchElevated is not supported on non-Windows platforms. On
// Windows it relaunches the current executable via the "runas" verb
// and waits for it.
func RelaunchElevated() (int, error) {
	return 0, errors.New("elevated relaunch not supported on this platform")
}

//go:build !windows

package platform

import "runtime"

// OSVersion is only meaningful on Windows.
func OSVersion() (major, minor, build uint32) {
	return 0, 0, 0
}

// OSAtLeast always passes outside Windows so development runs are not
// blocked by a Windows version gate.
func OSAtLeast(major, minor, build uint32) bool {
	return true
}

// OSVersionString returns the host OS name.
func OSVersionString() string {
	return runtime.GOOS
}

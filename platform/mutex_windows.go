//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

// AcquireSetupMutex claims the installer's own single-instance mutex.
// Returns a release function and true if the lock was acquired, or
// nil and false if another setup already holds it.
func AcquireSetupMutex(name string) (release func(), ok bool) {
	// Use Global\ prefix to work across all sessions
	mutexName, _ := windows.UTF16PtrFromString("Global\\" + name)

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if err != nil {
		// ERROR_ALREADY_EXISTS means another instance has the mutex
		if err == windows.ERROR_ALREADY_EXISTS {
			if handle != 0 {
				windows.CloseHandle(handle)
			}
			return nil, false
		}
		// Other errors - proceed anyway (fail open)
		return func() { windows.CloseHandle(handle) }, true
	}

	return func() { windows.CloseHandle(handle) }, true
}

// MutexHeld reports whether a named mutex exists, checking both the
// global and session-local namespaces. Applications expose such a
// mutex so their installer can refuse to run while they are open.
func MutexHeld(name string) bool {
	for _, full := range []string{"Global\\" + name, name} {
		ptr, err := windows.UTF16PtrFromString(full)
		if err != nil {
			continue
		}
		handle, err := windows.OpenMutex(windows.SYNCHRONIZE, false, ptr)
		if err == nil {
			windows.CloseHandle(handle)
			return true
		}
	}
	return false
}

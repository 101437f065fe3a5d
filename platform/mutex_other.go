//go:build !windows

package platform

// AcquireSetupMutex always succeeds outside Windows.
func AcquireSetupMutex(name string) (release func(), ok bool) {
	return func() {}, true
}

// MutexHeld always reports false outside Windows.
func MutexHeld(name string) bool {
	return false
}

//go:build !windows

package platform

// FileVersion returns an empty version outside Windows: version
// resources are a PE concept, and files without one compare as
// versionless.
func FileVersion(path string) (string, error) {
	return "", nil
}

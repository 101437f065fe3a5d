//go:build !windows

package platform

// UninstallEntry describes an installed application for Windows
// Add/Remove Programs.
type UninstallEntry struct {
	DisplayName     string
	DisplayVersion  string
	Publisher       string
	InstallLocation string
	UninstallString string
	QuietUninstall  string
	DisplayIcon     string
	InstallDate     string
	EstimatedSize   uint32
	NoModify        bool
	NoRepair        bool
}

// RegisterUninstall is a no-op outside Windows.
func RegisterUninstall(registryKey string, entry UninstallEntry, allUsers bool) error {
	return nil
}

// UnregisterUninstall is a no-op outside Windows.
func UnregisterUninstall(registryKey string, allUsers bool) error {
	return nil
}

// QueryUninstall always reports not installed outside Windows.
func QueryUninstall(registryKey string, allUsers bool) (*UninstallEntry, error) {
	return nil, nil
}

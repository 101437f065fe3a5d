//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const uninstallKeyBase = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\`

// UninstallEntry describes an installed application for Windows
// Add/Remove Programs.
type UninstallEntry struct {
	DisplayName     string // Name shown in Add/Remove Programs
	DisplayVersion  string // Version string (e.g., "1.2.3")
	Publisher       string // Publisher/company name
	InstallLocation string // Installation directory
	UninstallString string // Command that starts the uninstaller
	QuietUninstall  string // Command for an unattended uninstall
	DisplayIcon     string // Path to icon (defaults to the uninstaller)
	InstallDate     string // Install date in YYYYMMDD format
	EstimatedSize   uint32 // Size in KB
	NoModify        bool   // Hide "Modify" button
	NoRepair        bool   // Hide "Repair" button
}

func uninstallRoot(allUsers bool) registry.Key {
	if allUsers {
		return registry.LOCAL_MACHINE
	}
	return registry.CURRENT_USER
}

// RegisterUninstall writes an uninstall registry entry. With allUsers
// the entry lands in HKLM, which requires elevation; otherwise it goes
// to HKCU.
func RegisterUninstall(registryKey string, entry UninstallEntry, allUsers bool) error {
	key, _, err := registry.CreateKey(
		uninstallRoot(allUsers),
		uninstallKeyBase+registryKey,
		registry.SET_VALUE,
	)
	if err != nil {
		return fmt.Errorf("create registry key: %w", err)
	}
	defer key.Close()

	stringValues := map[string]string{
		"DisplayName":     entry.DisplayName,
		"DisplayVersion":  entry.DisplayVersion,
		"Publisher":       entry.Publisher,
		"InstallLocation": entry.InstallLocation,
		"UninstallString": entry.UninstallString,
	}
	if entry.DisplayIcon != "" {
		stringValues["DisplayIcon"] = entry.DisplayIcon
	} else if entry.UninstallString != "" {
		stringValues["DisplayIcon"] = entry.UninstallString
	}
	if entry.QuietUninstall != "" {
		stringValues["QuietUninstallString"] = entry.QuietUninstall
	}
	if entry.InstallDate != "" {
		stringValues["InstallDate"] = entry.InstallDate
	}

	for name, value := range stringValues {
		if err := key.SetStringValue(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}

	if entry.NoModify {
		if err := key.SetDWordValue("NoModify", 1); err != nil {
			return fmt.Errorf("set NoModify: %w", err)
		}
	}
	if entry.NoRepair {
		if err := key.SetDWordValue("NoRepair", 1); err != nil {
			return fmt.Errorf("set NoRepair: %w", err)
		}
	}
	if entry.EstimatedSize > 0 {
		if err := key.SetDWordValue("EstimatedSize", entry.EstimatedSize); err != nil {
			return fmt.Errorf("set EstimatedSize: %w", err)
		}
	}

	return nil
}

// UnregisterUninstall removes the uninstall registry entry. Missing
// entries are not an error.
func UnregisterUninstall(registryKey string, allUsers bool) error {
	err := registry.DeleteKey(uninstallRoot(allUsers), uninstallKeyBase+registryKey)
	if err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("delete registry key: %w", err)
	}
	return nil
}

// QueryUninstall looks up an existing installation by registry key.
// Returns nil if the app is not installed.
func QueryUninstall(registryKey string, allUsers bool) (*UninstallEntry, error) {
	key, err := registry.OpenKey(
		uninstallRoot(allUsers),
		uninstallKeyBase+registryKey,
		registry.QUERY_VALUE,
	)
	if err != nil {
		// Key doesn't exist - not installed
		return nil, nil
	}
	defer key.Close()

	entry := &UninstallEntry{}
	read := func(name string, dst *string) {
		if v, _, err := key.GetStringValue(name); err == nil {
			*dst = v
		}
	}
	read("DisplayName", &entry.DisplayName)
	read("DisplayVersion", &entry.DisplayVersion)
	read("Publisher", &entry.Publisher)
	read("InstallLocation", &entry.InstallLocation)
	read("UninstallString", &entry.UninstallString)
	read("QuietUninstallString", &entry.QuietUninstall)
	read("DisplayIcon", &entry.DisplayIcon)

	return entry, nil
}

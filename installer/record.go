package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UninstallerName is the uninstaller executable written into the
// install directory.
const UninstallerName = "unins000.exe"

// RecordName is the uninstall data file written next to the
// uninstaller.
const RecordName = "unins000.json"

// Record describes what an install created so the uninstaller can
// undo it. Paths are absolute.
type Record struct {
	AppID       string    `json:"appId"`
	AppName     string    `json:"appName"`
	AppVersion  string    `json:"appVersion"`
	Publisher   string    `json:"publisher,omitempty"`
	AllUsers    bool      `json:"allUsers"`
	InstallDir  string    `json:"installDir"`
	Group       string    `json:"group,omitempty"`
	CloseApps   bool      `json:"closeApps,omitempty"`
	Files       []string  `json:"files,omitempty"`
	Shortcuts   []string  `json:"shortcuts,omitempty"`
	RegistryKey string    `json:"registryKey,omitempty"`
	InstalledAt time.Time `json:"installedAt"`
}

// WriteRecord writes rec as indented JSON into dir.
func WriteRecord(dir string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode uninstall record: %w", err)
	}
	path := filepath.Join(dir, RecordName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write uninstall record: %w", err)
	}
	return nil
}

// ReadRecord loads the uninstall record from dir.
func ReadRecord(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, RecordName))
	if err != nil {
		return nil, fmt.Errorf("read uninstall record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse uninstall record: %w", err)
	}
	return &rec, nil
}

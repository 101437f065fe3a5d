package installer

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecord_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := &Record{
		AppID:       "MyApp",
		AppName:     "My App",
		AppVersion:  "1.2.0",
		Publisher:   "Example Ltd",
		AllUsers:    true,
		InstallDir:  filepath.Join(dir, "My App"),
		Group:       filepath.Join(dir, "programs", "My App"),
		Files:       []string{filepath.Join(dir, "My App", "app.exe")},
		Shortcuts:   []string{filepath.Join(dir, "programs", "My App", "My App.lnk")},
		RegistryKey: "MyApp",
		InstalledAt: time.Now().Truncate(time.Second),
	}

	if err := WriteRecord(dir, rec); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if !FileExists(filepath.Join(dir, RecordName)) {
		t.Fatalf("%s not written", RecordName)
	}

	got, err := ReadRecord(dir)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if got.AppID != rec.AppID || got.AppName != rec.AppName || got.AllUsers != rec.AllUsers {
		t.Errorf("record header = %+v", got)
	}
	if len(got.Files) != 1 || got.Files[0] != rec.Files[0] {
		t.Errorf("record files = %v", got.Files)
	}
	if len(got.Shortcuts) != 1 || got.Shortcuts[0] != rec.Shortcuts[0] {
		t.Errorf("record shortcuts = %v", got.Shortcuts)
	}
	if !got.InstalledAt.Equal(rec.InstalledAt) {
		t.Errorf("InstalledAt = %v, want %v", got.InstalledAt, rec.InstalledAt)
	}
}

func TestReadRecord_Missing(t *testing.T) {
	if _, err := ReadRecord(t.TempDir()); err == nil {
		t.Error("ReadRecord succeeded on an empty directory")
	}
}

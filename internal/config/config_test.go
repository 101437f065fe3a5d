package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := &Config{
		StubPath:  `C:\tools\setupstub.exe`,
		OutputDir: "dist",
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.StubPath != want.StubPath {
		t.Errorf("StubPath = %q, want %q", got.StubPath, want.StubPath)
	}
	if got.OutputDir != want.OutputDir {
		t.Errorf("OutputDir = %q, want %q", got.OutputDir, want.OutputDir)
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.StubPath != "" || got.OutputDir != "" {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestConfig_LoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("stub_path: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for malformed YAML")
	}
}

func TestConfig_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	if err := Save(&Config{OutputDir: "out"}, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

package installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crafted-tech/setupforge"
)

// stageTestFiles writes fake payload contents into a staging dir and
// registers them with the session, standing in for ExtractPayload.
func stageTestFiles(t *testing.T, s *Session, contents map[string]string) {
	t.Helper()
	staging := t.TempDir()
	paths := make(map[string]string, len(contents))
	for archive, content := range contents {
		p := filepath.Join(staging, filepath.FromSlash(archive))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
		paths[archive] = p
	}
	s.SetStaged(staging, paths)
}

func stageDefault(t *testing.T, s *Session) {
	t.Helper()
	stageTestFiles(t, s, map[string]string{
		"files/0000_app.exe":    "app-v1",
		"files/0001_readme.txt": "readme",
	})
}

func stepNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func TestBuildPlan_StepOrder(t *testing.T) {
	s := newTestSession(t, ModeInteractive)
	stageDefault(t, s)

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	want := []string{
		"Create My App",
		"Install app.exe",
		"Install readme.txt",
		"Create shortcut My App",
		"Create uninstaller",
		"Write uninstall data",
		"Register uninstaller",
	}
	got := stepNames(plan.Steps)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("steps = %v, want %v", got, want)
	}
}

func TestBuildPlan_UncheckedTaskSkipsGatedShortcut(t *testing.T) {
	s := newTestSession(t, ModeSilent)
	stageDefault(t, s)

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if n := len(plan.Record.Shortcuts); n != 1 {
		t.Fatalf("planned shortcuts = %d, want only the Start Menu entry", n)
	}
	desktop := s.Folders[setupforge.ConstAutoDesktop]
	if strings.HasPrefix(plan.Record.Shortcuts[0], desktop) {
		t.Errorf("desktop shortcut planned despite unchecked task: %s", plan.Record.Shortcuts[0])
	}
}

func TestBuildPlan_SelectedTaskAddsShortcutAfterCopies(t *testing.T) {
	s := newTestSession(t, ModeInteractive)
	stageDefault(t, s)
	if err := s.SelectTask("desktopicon", true); err != nil {
		t.Fatal(err)
	}

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if n := len(plan.Record.Shortcuts); n != 2 {
		t.Fatalf("planned shortcuts = %d, want 2", n)
	}

	lastInstall, firstShortcut := -1, -1
	for i, step := range plan.Steps {
		if strings.HasPrefix(step.Name, "Install ") {
			lastInstall = i
		}
		if strings.HasPrefix(step.Name, "Create shortcut") && firstShortcut < 0 {
			firstShortcut = i
		}
	}
	if firstShortcut < lastInstall {
		t.Errorf("shortcut step at %d precedes install step at %d", firstShortcut, lastInstall)
	}
}

func TestBuildPlan_NoShortcutsSuppressesAllIcons(t *testing.T) {
	s := newTestSession(t, ModeSilent)
	stageDefault(t, s)
	if err := s.SelectTask("desktopicon", true); err != nil {
		t.Fatal(err)
	}
	s.NoShortcuts = true

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if len(plan.Record.Shortcuts) != 0 {
		t.Errorf("planned shortcuts = %v, want none", plan.Record.Shortcuts)
	}
	for _, name := range stepNames(plan.Steps) {
		if strings.HasPrefix(name, "Create shortcut") {
			t.Errorf("shortcut step %q planned despite NoShortcuts", name)
		}
	}
}

func TestBuildPlan_CheckExpressionFiltersEntries(t *testing.T) {
	m := testManifest()
	m.Files[1].Check = "Task_desktopicon"
	s, err := NewSession(m, ModeInteractive, testFolders(t))
	if err != nil {
		t.Fatal(err)
	}
	stageDefault(t, s)

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	for _, name := range stepNames(plan.Steps) {
		if name == "Install readme.txt" {
			t.Error("check-gated file planned despite false expression")
		}
	}
	if len(plan.Record.Files) != 1 {
		t.Errorf("record files = %v, want only app.exe", plan.Record.Files)
	}
}

func TestBuildPlan_CloseApplications(t *testing.T) {
	m := testManifest()
	m.Setup.CloseApplications = true
	s, err := NewSession(m, ModeSilent, testFolders(t))
	if err != nil {
		t.Fatal(err)
	}
	stageDefault(t, s)

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.Steps[0].Name != "Stop app.exe" {
		t.Errorf("first step = %q, want Stop app.exe", plan.Steps[0].Name)
	}
}

func TestBuildPlan_EmptyManifest(t *testing.T) {
	m := &setupforge.Manifest{
		Format: 1,
		Setup: setupforge.Setup{
			AppID:          "Empty",
			AppName:        "Empty",
			AppVersion:     "1.0",
			DefaultDirName: `{autopf}\Empty`,
		},
	}
	s, err := NewSession(m, ModeSilent, testFolders(t))
	if err != nil {
		t.Fatal(err)
	}

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Steps) != 1 || plan.Steps[0].Name != "Create Empty" {
		t.Errorf("steps = %v, want only the directory step", stepNames(plan.Steps))
	}

	r := &Runner{}
	if err := r.Run(plan.Steps); err != nil {
		t.Errorf("empty install failed: %v", err)
	}
	if !DirExists(s.InstallDir) {
		t.Error("install dir missing after run")
	}
}

func TestRunPlan_InstallsFilesAndShortcuts(t *testing.T) {
	s := newTestSession(t, ModeInteractive)
	stageDefault(t, s)
	if err := s.SelectTask("desktopicon", true); err != nil {
		t.Fatal(err)
	}

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	r := &Runner{}
	if err := r.Run(plan.Steps); err != nil {
		t.Fatalf("Run: %v", err)
	}

	appExe := filepath.Join(s.InstallDir, "app.exe")
	got, err := os.ReadFile(appExe)
	if err != nil {
		t.Fatalf("read installed file: %v", err)
	}
	if string(got) != "app-v1" {
		t.Errorf("installed app.exe = %q", got)
	}
	if !FileExists(filepath.Join(s.InstallDir, "readme.txt")) {
		t.Error("readme.txt not installed")
	}

	for _, lnk := range plan.Record.Shortcuts {
		if _, err := os.Lstat(lnk); err != nil {
			t.Errorf("shortcut %s missing: %v", lnk, err)
		}
	}

	if !FileExists(filepath.Join(s.InstallDir, UninstallerName)) {
		t.Error("uninstaller not written")
	}
	rec, err := ReadRecord(s.InstallDir)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if rec.AppID != "MyApp" || len(rec.Files) != 2 || len(rec.Shortcuts) != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.RegistryKey != "MyApp" {
		t.Errorf("record registry key = %q", rec.RegistryKey)
	}
}

func TestRunPlan_SecondRunOverwritesWithIgnoreVersion(t *testing.T) {
	s := newTestSession(t, ModeSilent)
	stageTestFiles(t, s, map[string]string{
		"files/0000_app.exe":    "app-v2",
		"files/0001_readme.txt": "readme",
	})

	// Simulate a previous install.
	if err := os.MkdirAll(s.InstallDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.InstallDir, "app.exe"), []byte("app-v1"), 0o755); err != nil {
		t.Fatal(err)
	}

	plan, err := BuildPlan(s)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	r := &Runner{}
	if err := r.Run(plan.Steps); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := os.ReadFile(filepath.Join(s.InstallDir, "app.exe"))
	if string(got) != "app-v2" {
		t.Errorf("app.exe = %q, want unconditional overwrite to %q", got, "app-v2")
	}
}

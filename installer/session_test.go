package installer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/crafted-tech/setupforge"
)

// testFolders builds a folder set rooted in a temp directory so
// sessions resolve paths without touching real machine locations.
func testFolders(t *testing.T) FolderSet {
	t.Helper()
	base := t.TempDir()
	sub := func(name string) string { return filepath.Join(base, name) }
	return FolderSet{
		setupforge.ConstCommonPF:       sub("pf"),
		setupforge.ConstUserPF:         sub("userpf"),
		setupforge.ConstAutoPF:         sub("pf"),
		setupforge.ConstProgramFiles:   sub("pf"),
		setupforge.ConstCommonPrograms: sub("programs"),
		setupforge.ConstUserPrograms:   sub("userprograms"),
		setupforge.ConstAutoPrograms:   sub("programs"),
		setupforge.ConstCommonDesktop:  sub("desktop"),
		setupforge.ConstUserDesktop:    sub("userdesktop"),
		setupforge.ConstAutoDesktop:    sub("desktop"),
		setupforge.ConstTmp:            sub("tmp"),
		setupforge.ConstSys:            sub("sys"),
		setupforge.ConstSrc:            sub("src"),
	}
}

// testManifest is a small but complete install: two files, a Start
// Menu shortcut, a task-gated desktop shortcut, and a post-install
// run entry.
func testManifest() *setupforge.Manifest {
	return &setupforge.Manifest{
		Format: 1,
		Setup: setupforge.Setup{
			AppID:              "MyApp",
			AppName:            "My App",
			AppVersion:         "1.2.0",
			AppPublisher:       "Example Ltd",
			DefaultDirName:     `{autopf}\My App`,
			DefaultGroupName:   "My App",
			OutputBaseFilename: "MyApp-Setup",
			PrivilegesRequired: setupforge.PrivilegeAdmin,
			Uninstallable:      true,
		},
		Files: []setupforge.PackedFile{
			{
				FileEntry: setupforge.FileEntry{
					Source:  "app.exe",
					DestDir: "{app}",
					Flags:   setupforge.FileFlags{IgnoreVersion: true},
				},
				Archive: "files/0000_app.exe",
				Name:    "app.exe",
			},
			{
				FileEntry: setupforge.FileEntry{
					Source:  "readme.txt",
					DestDir: "{app}",
				},
				Archive: "files/0001_readme.txt",
				Name:    "readme.txt",
			},
		},
		Icons: []setupforge.IconEntry{
			{Name: `{group}\My App`, Filename: `{app}\app.exe`},
			{Name: `{autodesktop}\My App`, Filename: `{app}\app.exe`, Tasks: []string{"desktopicon"}},
		},
		Tasks: []setupforge.TaskEntry{
			{Name: "desktopicon", Description: "Create a desktop icon", CheckedByDefault: false},
		},
		Run: []setupforge.RunEntry{
			{
				Filename:    `{app}\app.exe`,
				Description: "Launch My App",
				Flags:       setupforge.RunFlags{NoWait: true, PostInstall: true, SkipIfSilent: true},
			},
		},
	}
}

func newTestSession(t *testing.T, mode Mode) *Session {
	t.Helper()
	s, err := NewSession(testManifest(), mode, testFolders(t))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSession_Defaults(t *testing.T) {
	s := newTestSession(t, ModeInteractive)

	wantDir := filepath.Join(s.Folders[setupforge.ConstAutoPF], "My App")
	if s.InstallDir != wantDir {
		t.Errorf("InstallDir = %q, want %q", s.InstallDir, wantDir)
	}
	wantGroup := filepath.Join(s.Folders[setupforge.ConstAutoPrograms], "My App")
	if s.Group != wantGroup {
		t.Errorf("Group = %q, want %q", s.Group, wantGroup)
	}
	if s.TaskSelected("desktopicon") {
		t.Error("unchecked task starts selected")
	}
	if s.Unattended() {
		t.Error("interactive session reports unattended")
	}
	if !s.AllUsers() {
		t.Error("admin install should target all users")
	}
}

func TestSession_TaskSelection(t *testing.T) {
	s := newTestSession(t, ModeInteractive)

	if err := s.SelectTask("DESKTOPICON", true); err != nil {
		t.Fatalf("SelectTask: %v", err)
	}
	if !s.TaskSelected("desktopicon") {
		t.Error("task not selected after SelectTask")
	}
	if err := s.SelectTask("nosuchtask", true); err == nil {
		t.Error("SelectTask accepted an unknown task")
	}
	if s.TaskSelected("nosuchtask") {
		t.Error("unknown task reports selected")
	}
}

func TestSession_ApplyTaskSpec(t *testing.T) {
	s := newTestSession(t, ModeSilent)

	if err := s.ApplyTaskSpec("desktopicon"); err != nil {
		t.Fatalf("ApplyTaskSpec: %v", err)
	}
	if !s.TaskSelected("desktopicon") {
		t.Error("listed task not selected")
	}

	if err := s.ApplyTaskSpec(""); err != nil {
		t.Fatalf("ApplyTaskSpec(empty): %v", err)
	}
	if s.TaskSelected("desktopicon") {
		t.Error("empty spec should deselect every task")
	}

	if err := s.ApplyTaskSpec("desktopicon,bogus"); err == nil {
		t.Error("ApplyTaskSpec accepted an unknown task")
	}
}

func TestSession_ExpandPath(t *testing.T) {
	s := newTestSession(t, ModeInteractive)

	got, err := s.ExpandPath(`{app}\bin\tool.exe`)
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	want := filepath.Join(s.InstallDir, "bin", "tool.exe")
	if got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}

	// Constant names are case-insensitive.
	got, err = s.ExpandPath(`{APP}\x`)
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(s.InstallDir, "x") {
		t.Errorf("ExpandPath({APP}) = %q", got)
	}

	if _, err := s.ExpandPath(`{nosuch}\x`); err == nil {
		t.Error("ExpandPath accepted an unknown constant")
	}
}

func TestSession_ShortcutPath(t *testing.T) {
	s := newTestSession(t, ModeInteractive)

	got, err := s.ShortcutPath(`{group}\My App`)
	if err != nil {
		t.Fatalf("ShortcutPath: %v", err)
	}
	if !strings.HasSuffix(got, ".lnk") {
		t.Errorf("ShortcutPath = %q, want .lnk suffix", got)
	}
	if want := filepath.Join(s.Group, "My App") + ".lnk"; got != want {
		t.Errorf("ShortcutPath = %q, want %q", got, want)
	}
}

func TestSession_ExpandStringKeepsSeparators(t *testing.T) {
	s := newTestSession(t, ModeInteractive)

	got, err := s.ExpandString(`/install "{app}" --flag`)
	if err != nil {
		t.Fatalf("ExpandString: %v", err)
	}
	want := `/install "` + s.InstallDir + `" --flag`
	if got != want {
		t.Errorf("ExpandString = %q, want %q", got, want)
	}
}

func TestSession_GroupRequiresGroupName(t *testing.T) {
	m := testManifest()
	m.Setup.DefaultGroupName = ""
	m.Icons = nil
	s, err := NewSession(m, ModeInteractive, testFolders(t))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := s.ExpandPath(`{group}\X`); err == nil {
		t.Error("ExpandPath({group}) succeeded without DefaultGroupName")
	}
}

func TestSession_EvalCheck(t *testing.T) {
	s := newTestSession(t, ModeSilent)

	tests := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"Silent", true},
		{"!Silent", false},
		{"Task_desktopicon", false},
		{"Silent && !Task_desktopicon", true},
		{"WindowsBuild >= 0", true},
	}
	for _, tt := range tests {
		got, err := s.EvalCheck(tt.expr)
		if err != nil {
			t.Errorf("EvalCheck(%q): %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EvalCheck(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}

	if err := s.SelectTask("desktopicon", true); err != nil {
		t.Fatal(err)
	}
	if got, err := s.EvalCheck("Task_desktopicon"); err != nil || !got {
		t.Errorf("EvalCheck(Task_desktopicon) after select = %v, %v", got, err)
	}

	if _, err := s.EvalCheck("1 + 2"); err == nil {
		t.Error("EvalCheck accepted a non-boolean expression")
	}
}

func TestSession_StagedPath(t *testing.T) {
	s := newTestSession(t, ModeSilent)

	if _, err := s.StagedPath("files/0000_app.exe"); err == nil {
		t.Error("StagedPath succeeded before extraction")
	}

	staging := t.TempDir()
	s.SetStaged(staging, map[string]string{
		"files/0000_app.exe": filepath.Join(staging, "files", "0000_app.exe"),
	})

	got, err := s.StagedPath("files/0000_app.exe")
	if err != nil {
		t.Fatalf("StagedPath: %v", err)
	}
	if got != filepath.Join(staging, "files", "0000_app.exe") {
		t.Errorf("StagedPath = %q", got)
	}
	if s.Folders[setupforge.ConstTmp] != staging {
		t.Errorf("{tmp} = %q, want staging dir %q", s.Folders[setupforge.ConstTmp], staging)
	}
}

func TestDefaultFolders(t *testing.T) {
	for _, admin := range []bool{true, false} {
		fs, err := DefaultFolders(admin)
		if err != nil {
			t.Fatalf("DefaultFolders(%v): %v", admin, err)
		}
		want := fs[setupforge.ConstUserPF]
		if admin {
			want = fs[setupforge.ConstCommonPF]
		}
		if fs[setupforge.ConstAutoPF] != want {
			t.Errorf("admin=%v: autopf = %q, want %q", admin, fs[setupforge.ConstAutoPF], want)
		}
		for _, name := range []string{
			setupforge.ConstAutoPF, setupforge.ConstAutoPrograms,
			setupforge.ConstAutoDesktop, setupforge.ConstTmp, setupforge.ConstSys,
		} {
			if fs[name] == "" {
				t.Errorf("admin=%v: %s is empty", admin, name)
			}
		}
	}
}

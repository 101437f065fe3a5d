package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/Knetic/govaluate.v3"

	"github.com/crafted-tech/setupforge"
	"github.com/crafted-tech/setupforge/platform"
)

// Mode selects how much interface the installer shows.
type Mode int

const (
	// ModeInteractive runs the full wizard.
	ModeInteractive Mode = iota

	// ModeSilent suppresses the wizard but shows progress.
	ModeSilent

	// ModeVerySilent shows nothing at all.
	ModeVerySilent
)

func (m Mode) String() string {
	switch m {
	case ModeSilent:
		return "silent"
	case ModeVerySilent:
		return "very silent"
	default:
		return "interactive"
	}
}

// FolderSet maps path constant names (lowercase, without braces) to
// resolved directories on the target machine.
type FolderSet map[string]string

// DefaultFolders resolves the standard folder set. The auto constants
// follow the install mode: admin installs bind them to the all-users
// locations, per-user installs to the user's own.
func DefaultFolders(admin bool) (FolderSet, error) {
	commonPF := platform.ProgramFilesPath()
	userPF, err := platform.UserProgramFilesPath()
	if err != nil {
		return nil, fmt.Errorf("resolve user program files: %w", err)
	}
	commonPrograms, err := platform.CommonProgramsPath()
	if err != nil {
		return nil, fmt.Errorf("resolve common programs: %w", err)
	}
	userPrograms, err := platform.UserProgramsPath()
	if err != nil {
		return nil, fmt.Errorf("resolve user programs: %w", err)
	}
	commonDesktop, err := platform.CommonDesktopPath()
	if err != nil {
		return nil, fmt.Errorf("resolve common desktop: %w", err)
	}
	userDesktop, err := platform.UserDesktopPath()
	if err != nil {
		return nil, fmt.Errorf("resolve user desktop: %w", err)
	}
	sysDir, err := platform.SystemDirPath()
	if err != nil {
		return nil, fmt.Errorf("resolve system directory: %w", err)
	}

	pick := func(common, user string) string {
		if admin {
			return common
		}
		return user
	}

	fs := FolderSet{
		setupforge.ConstCommonPF:       commonPF,
		setupforge.ConstUserPF:         userPF,
		setupforge.ConstAutoPF:         pick(commonPF, userPF),
		setupforge.ConstProgramFiles:   pick(commonPF, userPF),
		setupforge.ConstCommonPrograms: commonPrograms,
		setupforge.ConstUserPrograms:   userPrograms,
		setupforge.ConstAutoPrograms:   pick(commonPrograms, userPrograms),
		setupforge.ConstCommonDesktop:  commonDesktop,
		setupforge.ConstUserDesktop:    userDesktop,
		setupforge.ConstAutoDesktop:    pick(commonDesktop, userDesktop),
		setupforge.ConstTmp:            os.TempDir(),
		setupforge.ConstSys:            sysDir,
	}

	if exe, err := os.Executable(); err == nil {
		fs[setupforge.ConstSrc] = filepath.Dir(exe)
	}

	return fs, nil
}

// Session carries the state of one install run: the manifest, the
// chosen mode and directory, resolved folders, and the task
// selections. Task selections live only as long as the session.
type Session struct {
	Manifest *setupforge.Manifest
	Mode     Mode
	Folders  FolderSet

	// InstallDir is the resolved {app} directory. NewSession seeds it
	// from DefaultDirName; the wizard or /DIR= may override it.
	InstallDir string

	// Group is the resolved {group} Start Menu folder, empty when the
	// script declares no DefaultGroupName.
	Group string

	// NoShortcuts suppresses every shortcut, the /NOICONS switch.
	NoShortcuts bool

	tasks  map[string]bool
	staged map[string]string
}

// NewSession prepares a session: task checkboxes take their default
// states and the install directory resolves from DefaultDirName.
func NewSession(m *setupforge.Manifest, mode Mode, folders FolderSet) (*Session, error) {
	s := &Session{
		Manifest: m,
		Mode:     mode,
		Folders:  folders,
		tasks:    make(map[string]bool, len(m.Tasks)),
	}

	for _, t := range m.Tasks {
		s.tasks[strings.ToLower(t.Name)] = t.CheckedByDefault
	}

	if m.Setup.DefaultGroupName != "" {
		base, ok := folders[setupforge.ConstAutoPrograms]
		if !ok {
			return nil, fmt.Errorf("folder set is missing %q", setupforge.ConstAutoPrograms)
		}
		s.Group = filepath.Join(base, m.Setup.DefaultGroupName)
	}

	dir, err := s.ExpandPath(m.Setup.DefaultDirName)
	if err != nil {
		return nil, fmt.Errorf("resolve DefaultDirName: %w", err)
	}
	s.InstallDir = dir

	return s, nil
}

// SetInstallDir overrides the install directory, from the wizard's
// directory page or the /DIR= switch.
func (s *Session) SetInstallDir(dir string) {
	s.InstallDir = filepath.Clean(dir)
}

// Unattended reports whether the session runs without a wizard.
func (s *Session) Unattended() bool {
	return s.Mode != ModeInteractive
}

// AllUsers reports whether the install targets all-users locations.
func (s *Session) AllUsers() bool {
	return s.Manifest.Setup.RequiresAdmin()
}

// SelectTask sets one task checkbox. Unknown task names are an error.
func (s *Session) SelectTask(name string, selected bool) error {
	key := strings.ToLower(name)
	if _, ok := s.tasks[key]; !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	s.tasks[key] = selected
	return nil
}

// TaskSelected reports the checkbox state of a task. Unknown names
// report false.
func (s *Session) TaskSelected(name string) bool {
	return s.tasks[strings.ToLower(name)]
}

// ApplyTaskSpec replaces the default task selections with the comma
// separated list from a /TASKS= switch. An empty spec deselects every
// task; unknown names are an error.
func (s *Session) ApplyTaskSpec(spec string) error {
	for key := range s.tasks {
		s.tasks[key] = false
	}
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := s.SelectTask(name, true); err != nil {
			return err
		}
	}
	return nil
}

// resolve maps a constant name to its directory for this session.
func (s *Session) resolve(name string) (string, error) {
	switch strings.ToLower(name) {
	case setupforge.ConstApp:
		if s.InstallDir == "" {
			return "", fmt.Errorf("{app} is not resolved yet")
		}
		return s.InstallDir, nil
	case setupforge.ConstGroup:
		if s.Group == "" {
			return "", fmt.Errorf("{group} requires DefaultGroupName")
		}
		return s.Group, nil
	default:
		dir, ok := s.Folders[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("unknown constant {%s}", name)
		}
		return dir, nil
	}
}

// ExpandPath expands a path template against the session: {app}, or
// {group}, or one of the standard folder constants. The result uses
// the host's path separators and is cleaned.
func (s *Session) ExpandPath(template string) (string, error) {
	expanded, err := setupforge.ExpandConstants(template, s.resolve)
	if err != nil {
		return "", err
	}
	expanded = filepath.FromSlash(strings.ReplaceAll(expanded, `\`, "/"))
	return filepath.Clean(expanded), nil
}

// ExpandString expands constants in a non-path template, such as run
// parameters. No separator normalization is applied.
func (s *Session) ExpandString(template string) (string, error) {
	return setupforge.ExpandConstants(template, s.resolve)
}

// ShortcutPath expands an [Icons] name template and appends the
// shortcut file extension.
func (s *Session) ShortcutPath(template string) (string, error) {
	p, err := s.ExpandPath(template)
	if err != nil {
		return "", err
	}
	return p + ".lnk", nil
}

// EvalCheck evaluates a check expression against the session. The
// expression sees IsAdmin, Silent, WindowsBuild, and one Task_<name>
// boolean per declared task, with the name spelled as declared. An
// empty expression is true.
func (s *Session) EvalCheck(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	eval, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return false, fmt.Errorf("check expression %q: %w", expr, err)
	}
	_, _, build := platform.OSVersion()
	params := map[string]interface{}{
		"IsAdmin":      platform.IsElevated(),
		"Silent":       s.Unattended(),
		"WindowsBuild": float64(build),
	}
	for _, t := range s.Manifest.Tasks {
		params["Task_"+t.Name] = s.TaskSelected(t.Name)
	}
	result, err := eval.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("check expression %q: %w", expr, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("check expression %q is not boolean", expr)
	}
	return b, nil
}

// SetStaged records where the payload was extracted. The staging
// directory becomes {tmp} and archive member names resolve to their
// extracted paths.
func (s *Session) SetStaged(dir string, paths map[string]string) {
	s.Folders[setupforge.ConstTmp] = dir
	s.staged = paths
}

// StagedPath returns the extracted path of an archive member, or an
// error when the payload has not been extracted.
func (s *Session) StagedPath(archive string) (string, error) {
	p, ok := s.staged[archive]
	if !ok {
		return "", fmt.Errorf("archive member %q is not staged", archive)
	}
	return p, nil
}

package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crafted-tech/setupforge/platform"
)

// Plan is a fully resolved install: the ordered steps plus the record
// of what they create.
type Plan struct {
	Steps []Step

	// Record describes the files and shortcuts the steps create. It is
	// written next to the uninstaller when the script is uninstallable.
	Record *Record
}

// BuildPlan resolves the session's manifest into concrete steps:
// close running applications, create the install directory, install
// files, create shortcuts, then set up the uninstaller. Task gates
// and check expressions are evaluated here, so the returned steps are
// unconditional. Shortcut steps always come after every file step.
func BuildPlan(s *Session) (*Plan, error) {
	m := s.Manifest

	rec := &Record{
		AppID:       m.Setup.AppID,
		AppName:     m.Setup.AppName,
		AppVersion:  m.Setup.AppVersion,
		Publisher:   m.Setup.AppPublisher,
		AllUsers:    s.AllUsers(),
		InstallDir:  s.InstallDir,
		Group:       s.Group,
		CloseApps:   m.Setup.CloseApplications,
		InstalledAt: time.Now(),
	}

	var steps []Step

	if m.Setup.CloseApplications {
		for i := range m.Files {
			if strings.EqualFold(filepath.Ext(m.Files[i].Name), ".exe") {
				steps = append(steps, StepKillProcessIfRunning(m.Files[i].Name))
			}
		}
	}

	steps = append(steps, StepEnsureDir(s.InstallDir))

	var totalSize int64
	for i := range m.Files {
		f := &m.Files[i]
		ok, err := s.EvalCheck(f.Check)
		if err != nil {
			return nil, fmt.Errorf("[Files] %s: %w", f.Name, err)
		}
		if !ok {
			continue
		}
		destDir, err := s.ExpandPath(f.DestDir)
		if err != nil {
			return nil, fmt.Errorf("[Files] %s: %w", f.Name, err)
		}
		src, err := s.StagedPath(f.Archive)
		if err != nil {
			return nil, err
		}
		dst := filepath.Join(destDir, f.Name)
		steps = append(steps, StepInstallFile(src, dst, f.Version, f.Flags.IgnoreVersion))
		rec.Files = append(rec.Files, dst)
		totalSize += f.Size
	}

	icons := m.Icons
	if s.NoShortcuts {
		icons = nil
	}
	for i := range icons {
		icon := &icons[i]
		if len(icon.Tasks) > 0 && !anyTaskSelected(s, icon.Tasks) {
			continue
		}
		ok, err := s.EvalCheck(icon.Check)
		if err != nil {
			return nil, fmt.Errorf("[Icons] %s: %w", icon.Name, err)
		}
		if !ok {
			continue
		}
		lnk, err := s.ShortcutPath(icon.Name)
		if err != nil {
			return nil, fmt.Errorf("[Icons] %s: %w", icon.Name, err)
		}
		target, err := s.ExpandPath(icon.Filename)
		if err != nil {
			return nil, fmt.Errorf("[Icons] %s: %w", icon.Name, err)
		}
		workDir := filepath.Dir(target)
		if icon.WorkingDir != "" {
			workDir, err = s.ExpandPath(icon.WorkingDir)
			if err != nil {
				return nil, fmt.Errorf("[Icons] %s: %w", icon.Name, err)
			}
		}
		sc := platform.Shortcut{
			Target:      target,
			Arguments:   icon.Parameters,
			WorkingDir:  workDir,
			Description: m.Setup.AppName,
		}
		steps = append(steps, StepCreateShortcut(lnk, sc))
		rec.Shortcuts = append(rec.Shortcuts, lnk)
	}

	if m.Setup.Uninstallable {
		uninsPath := filepath.Join(s.InstallDir, UninstallerName)
		rec.RegistryKey = m.Setup.AppID
		steps = append(steps,
			stepCopyUninstaller(uninsPath),
			stepWriteRecord(s.InstallDir, rec),
			stepRegisterUninstall(rec, uninsPath, totalSize),
		)
	}

	return &Plan{Steps: steps, Record: rec}, nil
}

func anyTaskSelected(s *Session, tasks []string) bool {
	for _, name := range tasks {
		if s.TaskSelected(name) {
			return true
		}
	}
	return false
}

func stepCopyUninstaller(uninsPath string) Step {
	return Step{
		Name: "Create uninstaller",
		Action: func() StepResult {
			exe, err := os.Executable()
			if err != nil {
				return Failed(fmt.Errorf("locate installer executable: %w", err))
			}
			if err := CopyExecutable(exe, uninsPath); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

func stepWriteRecord(dir string, rec *Record) Step {
	return Step{
		Name: "Write uninstall data",
		Action: func() StepResult {
			if err := WriteRecord(dir, rec); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

func stepRegisterUninstall(rec *Record, uninsPath string, totalSize int64) Step {
	return Step{
		Name: "Register uninstaller",
		Action: func() StepResult {
			entry := platform.UninstallEntry{
				DisplayName:     rec.AppName,
				DisplayVersion:  rec.AppVersion,
				Publisher:       rec.Publisher,
				InstallLocation: rec.InstallDir,
				UninstallString: fmt.Sprintf(`"%s" /UNINSTALL`, uninsPath),
				QuietUninstall:  fmt.Sprintf(`"%s" /UNINSTALL /VERYSILENT`, uninsPath),
				DisplayIcon:     uninsPath,
				InstallDate:     rec.InstalledAt.Format("20060102"),
				EstimatedSize:   uint32(totalSize / 1024),
				NoModify:        true,
				NoRepair:        true,
			}
			if err := platform.RegisterUninstall(rec.RegistryKey, entry, rec.AllUsers); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

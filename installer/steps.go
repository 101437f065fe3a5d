package installer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crafted-tech/setupforge/platform"
)

// StepCreateShortcut creates a Step that writes a shortcut at path.
func StepCreateShortcut(path string, sc platform.Shortcut) Step {
	display := strings.TrimSuffix(filepath.Base(path), ".lnk")
	return Step{
		Name: fmt.Sprintf("Create shortcut %s", display),
		Action: func() StepResult {
			if err := platform.CreateShortcut(path, sc); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

// StepKillProcessIfRunning creates a Step that terminates processes if running.
// Skips if no processes with that name are running. Used for the
// CloseApplications directive so installed executables can be replaced.
func StepKillProcessIfRunning(exeName string) Step {
	return Step{
		Name: fmt.Sprintf("Stop %s", exeName),
		Action: func() StepResult {
			if !platform.IsProcessRunning(exeName) {
				return Skipped("not running")
			}
			if err := platform.KillProcessByName(exeName); err != nil {
				return Failed(fmt.Errorf("kill process: %w", err))
			}
			return Success("")
		},
	}
}

// StepScheduleSelfDelete creates a Step that schedules the uninstaller
// executable for deletion and removes the install directory if that
// leaves it empty.
func StepScheduleSelfDelete(installDir string) Step {
	return Step{
		Name: "Schedule cleanup",
		Action: func() StepResult {
			if err := platform.ScheduleSelfDeleteRemoveDir(installDir); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

package installer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crafted-tech/setupforge/platform"
)

// BuildUninstallSteps assembles the removal plan from an install
// record: stop running applications, delete shortcuts, delete files,
// drop the registry entry, remove the uninstall data, and finally
// schedule the uninstaller's own deletion together with the install
// directory. Steps for files that are already gone skip rather than
// fail, so a partially removed install can still be cleaned up.
func BuildUninstallSteps(rec *Record) []Step {
	var steps []Step

	if rec.CloseApps {
		for _, f := range rec.Files {
			if strings.EqualFold(filepath.Ext(f), ".exe") {
				steps = append(steps, StepKillProcessIfRunning(filepath.Base(f)))
			}
		}
	}

	for _, lnk := range rec.Shortcuts {
		steps = append(steps, stepDeleteShortcut(lnk))
	}
	if rec.Group != "" {
		steps = append(steps, StepDeleteDirIfEmpty(rec.Group))
	}

	for _, f := range rec.Files {
		steps = append(steps, StepDeleteFile(f))
	}

	if rec.RegistryKey != "" {
		steps = append(steps, stepUnregisterUninstall(rec))
	}

	steps = append(steps,
		StepDeleteFile(filepath.Join(rec.InstallDir, RecordName)),
		StepScheduleSelfDelete(rec.InstallDir),
	)
	return steps
}

func stepDeleteShortcut(lnk string) Step {
	display := strings.TrimSuffix(filepath.Base(lnk), ".lnk")
	return Step{
		Name: fmt.Sprintf("Remove shortcut %s", display),
		Action: func() StepResult {
			if err := platform.DeleteShortcut(lnk); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

func stepUnregisterUninstall(rec *Record) Step {
	return Step{
		Name: "Unregister uninstaller",
		Action: func() StepResult {
			if err := platform.UnregisterUninstall(rec.RegistryKey, rec.AllUsers); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

//go:build windows

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/windows"
)

// deleteLoop builds a cmd.exe script that retries deleting path until
// the owning process has exited and its handle is released, then runs
// any trailing commands.
func deleteLoop(path string, andThen ...string) string {
	script := fmt.Sprintf(
		`:loop & del /f /q "%[1]s" 2>nul & if exist "%[1]s" ( timeout /t 1 /nobreak >nul & goto loop )`,
		path,
	)
	for _, cmd := range andThen {
		script += " & " + cmd
	}
	return script
}

// spawnDetached runs a cmd.exe script in a hidden process detached
// from this one, so it keeps running after this process exits.
func spawnDetached(script string) error {
	cmd := exec.Command("cmd.exe", "/C", script)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start delete helper: %w", err)
	}
	return nil
}

func selfPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Abs(exe)
}

// ScheduleFileDelete deletes filePath once it is no longer held open.
// The deletion runs in a detached helper and may complete after this
// process has exited.
func ScheduleFileDelete(filePath string) error {
	return spawnDetached(deleteLoop(filePath))
}

// ScheduleSelfDelete deletes the running executable after it exits.
func ScheduleSelfDelete() error {
	exe, err := selfPath()
	if err != nil {
		return err
	}
	return spawnDetached(deleteLoop(exe))
}

// ScheduleSelfDeleteRemoveDir deletes the running executable after it
// exits, then removes dir. The rd only succeeds once the uninstall has
// emptied the directory.
func ScheduleSelfDeleteRemoveDir(dir string) error {
	exe, err := selfPath()
	if err != nil {
		return err
	}
	return spawnDetached(deleteLoop(exe, fmt.Sprintf(`rd "%s" 2>nul`, dir)))
}

//go:build !windows

package platform

import "os"

// ScheduleSelfDelete deletes the current executable. Unix allows
// unlinking a running binary, so no helper process is needed.
func ScheduleSelfDelete() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	return os.Remove(exe)
}

// ScheduleSelfDeleteRemoveDir deletes the current executable and then
// removes dir if the deletion left it empty.
func ScheduleSelfDeleteRemoveDir(dir string) error {
	if err := ScheduleSelfDelete(); err != nil {
		return err
	}
	os.Remove(dir)
	return nil
}

// ScheduleFileDelete deletes the file directly.
func ScheduleFileDelete(filePath string) error {
	return os.Remove(filePath)
}

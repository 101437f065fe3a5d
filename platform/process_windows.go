//go:build windows

package platform

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// FindProcessesByName returns the PIDs of every running process whose
// executable name matches, ignoring case.
func FindProcessesByName(exeName string) []uint32 {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil
	}
	defer windows.CloseHandle(snapshot)

	var pids []uint32
	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err := windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
		if strings.EqualFold(windows.UTF16ToString(entry.ExeFile[:]), exeName) {
			pids = append(pids, entry.ProcessID)
		}
	}
	return pids
}

// IsProcessRunning reports whether any process with the given
// executable name is running.
func IsProcessRunning(exeName string) bool {
	return len(FindProcessesByName(exeName)) > 0
}

var seDebugOnce sync.Once

// acquireDebugPrivilege enables SeDebugPrivilege on the current token
// so OpenProcess can reach processes owned by other users. Without an
// elevated token the adjustment fails and kills stay limited to the
// current user's processes.
func acquireDebugPrivilege() {
	seDebugOnce.Do(func() {
		var token windows.Token
		if windows.OpenProcessToken(windows.CurrentProcess(),
			windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token) != nil {
			return
		}
		defer token.Close()

		name, _ := windows.UTF16PtrFromString("SeDebugPrivilege")
		var luid windows.LUID
		if windows.LookupPrivilegeValue(nil, name, &luid) != nil {
			return
		}
		tp := windows.Tokenprivileges{
			PrivilegeCount: 1,
			Privileges: [1]windows.LUIDAndAttributes{
				{Luid: luid, Attributes: windows.SE_PRIVILEGE_ENABLED},
			},
		}
		windows.AdjustTokenPrivileges(token, false, &tp, 0, nil, nil)
	})
}

const killWaitMillis = 5000

// killWait terminates one process and waits for its handle to signal,
// so the executable's file locks are released when it returns.
func killWait(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE|windows.SYNCHRONIZE, false, pid)
	if err != nil {
		return fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	if err := windows.TerminateProcess(h, 1); err != nil {
		return fmt.Errorf("terminate process %d: %w", pid, err)
	}
	ev, err := windows.WaitForSingleObject(h, killWaitMillis)
	if err == nil && ev == uint32(windows.WAIT_TIMEOUT) {
		return fmt.Errorf("process %d still running after %dms", pid, killWaitMillis)
	}
	return nil
}

// KillProcessByName terminates every process with the given executable
// name so its files can be replaced or removed. No matching process is
// not an error; a termination that fails is.
func KillProcessByName(exeName string) error {
	pids := FindProcessesByName(exeName)
	if len(pids) == 0 {
		return nil
	}
	acquireDebugPrivilege()

	var firstErr error
	for _, pid := range pids {
		if err := killWait(pid); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

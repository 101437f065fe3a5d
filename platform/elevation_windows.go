//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// IsElevated checks if the current process is running with administrator privileges.
func IsElevated() bool {
	elevated, err := isElevated()
	if err != nil {
		return false
	}
	return elevated
}

var (
	modshell32          = syscall.NewLazyDLL("shell32.dll")
	procShellExecuteExW = modshell32.NewProc("ShellExecuteExW")
)

const (
	seeMaskNoCloseProcess = 0x00000040
	seeMaskNoAsync        = 0x00000100
)

// shellExecuteInfo mirrors SHELLEXECUTEINFOW.
type shellExecuteInfo struct {
	Size       uint32
	Mask       uint32
	Hwnd       uintptr
	Verb       *uint16
	File       *uint16
	Parameters *uint16
	Directory  *uint16
	Show       int32
	InstApp    uintptr
	IDList     uintptr
	Class      *uint16
	KeyClass   uintptr
	HotKey     uint32
	Icon       uintptr
	Process    windows.Handle
}

// RelaunchElevated restarts the current executable with the "runas"
// verb, forwarding the original arguments, waits for the elevated copy
// to finish and returns its exit code. The caller should exit with
// that code so the outcome of the elevated run is preserved.
// Returns ErrElevationDeclined if the user rejects the UAC prompt.
func RelaunchElevated() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("get executable path: %w", err)
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, _ := windows.UTF16PtrFromString(exe)
	var params *uint16
	if len(os.Args) > 1 {
		params, _ = windows.UTF16PtrFromString(windows.ComposeCommandLine(os.Args[1:]))
	}

	info := shellExecuteInfo{
		Mask:       seeMaskNoCloseProcess | seeMaskNoAsync,
		Verb:       verb,
		File:       file,
		Parameters: params,
		Show:       windows.SW_SHOWNORMAL,
	}
	info.Size = uint32(unsafe.Sizeof(info))

	ret, _, callErr := procShellExecuteExW.Call(uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		if errors.Is(callErr, windows.ERROR_CANCELLED) {
			return 0, ErrElevationDeclined
		}
		return 0, fmt.Errorf("relaunch elevated: %w", callErr)
	}
	if info.Process == 0 {
		return 0, errors.New("relaunch elevated: no process handle")
	}
	defer windows.CloseHandle(info.Process)

	if _, err := windows.WaitForSingleObject(info.Process, windows.INFINITE); err != nil {
		return 0, fmt.Errorf("wait for elevated process: %w", err)
	}
	var code uint32
	if err := windows.GetExitCodeProcess(info.Process, &code); err != nil {
		return 0, fmt.Errorf("get elevated exit code: %w", err)
	}
	return int(code), nil
}

// isElevated checks if the current process is running with admin privileges.
func isElevated() (bool, error) {
	token := windows.Token(0)
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false, err
	}
	defer token.Close()

	// Use TOKEN_ELEVATION to detect whether the process is elevated.
	type tokenElevation struct {
		TokenIsElevated uint32
	}

	var elevation tokenElevation
	var outLen uint32
	if err := windows.GetTokenInformation(
		token,
		windows.TokenElevation,
		(*byte)(unsafe.Pointer(&elevation)),
		uint32(unsafe.Sizeof(elevation)),
		&outLen,
	); err != nil {
		return false, err
	}

	return elevation.TokenIsElevated != 0, nil
}

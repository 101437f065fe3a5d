//go:build windows

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// OSVersion returns the Windows major, minor and build numbers.
func OSVersion() (major, minor, build uint32) {
	// Use RtlGetVersion which returns accurate info (unlike GetVersion)
	type osVersionInfoEx struct {
		OSVersionInfoSize uint32
		MajorVersion      uint32
		MinorVersion      uint32
		BuildNumber       uint32
		PlatformId        uint32
		CSDVersion        [128]uint16
	}

	ntdll := windows.NewLazySystemDLL("ntdll.dll")
	proc := ntdll.NewProc("RtlGetVersion")

	var info osVersionInfoEx
	info.OSVersionInfoSize = uint32(unsafe.Sizeof(info))

	proc.Call(uintptr(unsafe.Pointer(&info)))

	return info.MajorVersion, info.MinorVersion, info.BuildNumber
}

// OSAtLeast reports whether the running OS meets the given minimum
// version.
func OSAtLeast(major, minor, build uint32) bool {
	gotMajor, gotMinor, gotBuild := OSVersion()
	if gotMajor != major {
		return gotMajor > major
	}
	if gotMinor != minor {
		return gotMinor > minor
	}
	return gotBuild >= build
}

// OSVersionString returns a human-readable version string.
func OSVersionString() string {
	major, minor, build := OSVersion()
	return fmt.Sprintf("Windows %d.%d (Build %d)", major, minor, build)
}

// Package platform provides the OS-specific operations an installer
// needs: UAC elevation, well-known folder lookup, shortcut creation,
// Add/Remove Programs registration, file version resources, process
// termination and setup mutexes.
//
// Every operation has a non-Windows fallback so install plans can be
// developed and tested on other systems: shortcuts become symlinks,
// registry calls are no-ops, and version checks pass. The real
// implementations are Windows-only.
package platform

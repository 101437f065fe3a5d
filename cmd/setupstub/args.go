package main

import (
	"fmt"
	"strings"

	"github.com/crafted-tech/setupforge/installer"
)

// options holds the recognized command line switches. Switch names are
// case-insensitive; values keep their case.
type options struct {
	Mode      installer.Mode
	Dir       string // /DIR= install directory override
	Tasks     string // /TASKS= comma-separated task selection
	TasksSet  bool
	LogPath   string // /LOG= explicit log file
	NoIcons   bool   // /NOICONS suppresses every shortcut
	Uninstall bool   // /UNINSTALL removes an installed application
}

func (o *options) unattended() bool {
	return o.Mode != installer.ModeInteractive
}

func parseArgs(args []string) (*options, error) {
	opts := &options{Mode: installer.ModeInteractive}
	for _, arg := range args {
		upper := strings.ToUpper(arg)
		switch {
		case upper == "/SILENT":
			opts.Mode = installer.ModeSilent
		case upper == "/VERYSILENT":
			opts.Mode = installer.ModeVerySilent
		case upper == "/NOICONS":
			opts.NoIcons = true
		case upper == "/UNINSTALL":
			opts.Uninstall = true
		case upper == "/LOG":
			// Logging is always on; the bare switch keeps the default
			// temp file location.
		case strings.HasPrefix(upper, "/LOG="):
			opts.LogPath = unquoteArg(arg[len("/LOG="):])
		case strings.HasPrefix(upper, "/DIR="):
			opts.Dir = unquoteArg(arg[len("/DIR="):])
		case strings.HasPrefix(upper, "/TASKS="):
			opts.Tasks = unquoteArg(arg[len("/TASKS="):])
			opts.TasksSet = true
		default:
			return nil, fmt.Errorf("unknown command line switch %s", arg)
		}
	}
	return opts, nil
}

// unquoteArg strips one level of surrounding quotes, which can survive
// argument forwarding on the elevated relaunch.
func unquoteArg(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

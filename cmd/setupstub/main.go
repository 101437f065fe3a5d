// Command setupstub is the runtime half of setupforge. The compiler
// appends a payload to a copy of this executable; at run time the stub
// reads the payload back out of its own file and performs the install:
// elevation, install directory, file copies, shortcuts, and post
// install actions, in that order. With /UNINSTALL it removes what a
// previous run recorded.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crafted-tech/setupforge"
	"github.com/crafted-tech/setupforge/installer"
	"github.com/crafted-tech/setupforge/platform"
	"github.com/crafted-tech/setupforge/sfx"
)

// Exit codes reported to the calling process.
const (
	exitOK         = 0
	exitError      = 1 // install or uninstall failed
	exitConfig     = 2 // bad command line or manifest
	exitPermission = 3 // elevation declined or access denied
	exitCancelled  = 4 // cancelled by the user
	exitBusy       = 5 // another setup holds the mutex
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}

	var log *installer.Logger
	if opts.LogPath != "" {
		log, err = installer.NewLoggerToFile(opts.LogPath)
	} else {
		log, err = installer.NewLogger("Setup")
	}
	if err != nil {
		// Keep going without a log rather than refusing to install.
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
	}
	defer log.Close()

	payload, manifest, err := installer.OpenPayload()
	if err != nil {
		return fail(log, opts, "Setup", err, exitError)
	}
	defer payload.Close()

	setup := &manifest.Setup
	title := setup.AppName + " Setup"
	log.Info("%s %s setup started in %s mode", setup.AppName, setup.AppVersion, opts.Mode)
	log.Info("Running on %s", platform.OSVersionString())

	if opts.Uninstall {
		return runUninstall(log, opts, manifest, setup.AppName+" Uninstall")
	}

	if setup.MinVersion != "" {
		major, minor, build, err := installer.ParseMinVersion(setup.MinVersion)
		if err != nil {
			return fail(log, opts, title, err, exitConfig)
		}
		if !platform.OSAtLeast(major, minor, build) {
			err := fmt.Errorf("%s requires Windows version %s or later, this is %s",
				setup.AppName, setup.MinVersion, platform.OSVersionString())
			return fail(log, opts, title, err, exitError)
		}
	}

	// Elevate before taking the setup mutex so the elevated copy does
	// not contend with this process for it.
	if handled, code := ensureElevated(log, opts, setup.RequiresAdmin(), title); handled {
		return code
	}

	if setup.SetupMutex != "" {
		release, ok := platform.AcquireSetupMutex(setup.SetupMutex)
		if !ok {
			err := fmt.Errorf("another %s setup is already running", setup.AppName)
			return fail(log, opts, title, err, exitBusy)
		}
		defer release()
	}

	folders, err := installer.DefaultFolders(setup.RequiresAdmin())
	if err != nil {
		return fail(log, opts, title, err, exitError)
	}
	session, err := installer.NewSession(manifest, opts.Mode, folders)
	if err != nil {
		return fail(log, opts, title, err, exitConfig)
	}
	if opts.Dir != "" {
		session.SetInstallDir(opts.Dir)
	}
	if opts.TasksSet {
		if err := session.ApplyTaskSpec(opts.Tasks); err != nil {
			return fail(log, opts, title, err, exitConfig)
		}
	}
	session.NoShortcuts = opts.NoIcons
	log.Info("Install directory: %s", session.InstallDir)

	stage, err := os.MkdirTemp("", "setup-")
	if err != nil {
		return fail(log, opts, title, err, exitError)
	}
	defer os.RemoveAll(stage)

	if session.Unattended() {
		return runUnattended(log, opts, session, payload, stage, title)
	}
	return runWizard(log, session, payload, stage)
}

// runUnattended performs a /SILENT or /VERYSILENT install: no wizard,
// the manifest defaults plus command line overrides decide everything.
func runUnattended(log *installer.Logger, opts *options, s *installer.Session, payload *sfx.Reader, stage, title string) int {
	log.Info("Staging payload in %s", stage)
	staged, err := installer.ExtractPayload(payload, s.Manifest, stage, func(name string) {
		log.Info("Staged %s", name)
	})
	if err != nil {
		return fail(log, opts, title, err, exitError)
	}
	s.SetStaged(stage, staged)

	during, post, err := installer.SplitRuns(s)
	if err != nil {
		return fail(log, opts, title, err, exitConfig)
	}
	plan, err := installer.BuildPlan(s)
	if err != nil {
		return fail(log, opts, title, err, exitCodeFor(err))
	}

	steps := plan.Steps
	for _, e := range during {
		steps = append(steps, installer.StepRun(s, e))
	}

	runner := &installer.Runner{Log: log}
	if err := runner.Run(steps); err != nil {
		return fail(log, opts, title, err, exitCodeFor(err))
	}

	// Post-install entries run unprompted when not skipped for silent
	// installs; SplitRuns already dropped the skipifsilent ones.
	for _, e := range post {
		if err := installer.LaunchRun(s, e); err != nil {
			return fail(log, opts, title, err, exitError)
		}
	}

	log.Info("%s %s installed to %s", s.Manifest.Setup.AppName, s.Manifest.Setup.AppVersion, s.InstallDir)
	return exitOK
}

// runUninstall removes an installed application. The record written at
// install time drives it; the manifest only supplies the mutex name.
func runUninstall(log *installer.Logger, opts *options, m *setupforge.Manifest, title string) int {
	exe, err := os.Executable()
	if err != nil {
		return fail(log, opts, title, err, exitError)
	}
	rec, err := installer.ReadRecord(filepath.Dir(exe))
	if err != nil {
		return fail(log, opts, title, fmt.Errorf("read uninstall data: %w", err), exitError)
	}

	if handled, code := ensureElevated(log, opts, rec.AllUsers, title); handled {
		return code
	}

	if m.Setup.SetupMutex != "" {
		release, ok := platform.AcquireSetupMutex(m.Setup.SetupMutex)
		if !ok {
			err := fmt.Errorf("another %s setup is already running", rec.AppName)
			return fail(log, opts, title, err, exitBusy)
		}
		defer release()
	}

	if !opts.unattended() && !confirmUninstall(rec) {
		log.Warn("Uninstall cancelled by user")
		return exitCancelled
	}

	log.Info("Uninstalling %s from %s", rec.AppName, rec.InstallDir)
	runner := &installer.Runner{Log: log}
	if err := runner.Run(installer.BuildUninstallSteps(rec)); err != nil {
		return fail(log, opts, title, err, exitCodeFor(err))
	}

	log.Info("%s removed", rec.AppName)
	if !opts.unattended() {
		announceUninstalled(rec.AppName)
	}
	return exitOK
}

// ensureElevated relaunches the process with administrator rights when
// the install needs them. handled reports that the elevated copy ran
// (or the request failed); code is then the exit code to propagate.
func ensureElevated(log *installer.Logger, opts *options, needed bool, title string) (handled bool, code int) {
	if !needed || platform.IsElevated() {
		return false, 0
	}

	log.Info("Administrator privileges required, requesting elevation")
	if opts.LogPath == "" && log.Path() != "" {
		// The elevated copy appends to the log this process started.
		os.Args = append(os.Args, "/LOG="+log.Path())
	}

	code, err := platform.RelaunchElevated()
	if err != nil {
		if errors.Is(err, platform.ErrElevationDeclined) {
			log.Warn("Elevation declined by user")
			alertError(opts, title, "Administrator privileges are required to continue.")
			return true, exitPermission
		}
		log.Error("Elevation failed: %v", err)
		alertError(opts, title, err.Error())
		return true, exitError
	}
	log.Info("Elevated process finished with exit code %d", code)
	return true, code
}

// fail logs the error, surfaces it to the user, and returns code.
func fail(log *installer.Logger, opts *options, title string, err error, code int) int {
	log.Error("Setup failed: %v", err)
	alertError(opts, title, err.Error())
	return code
}

// exitCodeFor classifies an install error into an exit code.
func exitCodeFor(err error) int {
	var cfgErr *setupforge.ConfigError
	switch {
	case errors.Is(err, installer.ErrCancelled):
		return exitCancelled
	case errors.Is(err, platform.ErrElevationDeclined), errors.Is(err, fs.ErrPermission):
		return exitPermission
	case errors.As(err, &cfgErr):
		return exitConfig
	default:
		return exitError
	}
}

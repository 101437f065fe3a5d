package installer

import "errors"

// ErrCancelled reports that the user cancelled the install. The engine
// stops at the next step boundary; the binary maps it to its own exit
// code.
var ErrCancelled = errors.New("operation cancelled")

// Step is one named action of an install or uninstall plan. The name
// appears in progress callbacks and in error messages.
type Step struct {
	Name   string
	Action func() StepResult
}

// StepResult is the outcome of running a single step.
type StepResult struct {
	// Skip marks the step as not needed, for example a copy whose
	// target is already current or a shortcut gated off by an
	// unselected task. Skipped steps count as successful.
	Skip bool

	// Info is a short outcome message; for skipped steps, the reason.
	Info string

	// Err aborts the plan when non-nil.
	Err error
}

// Success returns a successful result with an optional message.
func Success(info string) StepResult {
	return StepResult{Info: info}
}

// Skipped returns a result marking the step as not needed.
func Skipped(reason string) StepResult {
	return StepResult{Skip: true, Info: reason}
}

// Failed returns a failing result.
func Failed(err error) StepResult {
	return StepResult{Err: err}
}

// SimpleStep wraps a plain error-returning function as a Step, for
// actions that never skip and have nothing to report on success.
//
//	installer.SimpleStep("Register uninstaller", func() error {
//		return platform.RegisterUninstall(appID, entry, allUsers)
//	})
func SimpleStep(name string, action func() error) Step {
	return Step{
		Name: name,
		Action: func() StepResult {
			if err := action(); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

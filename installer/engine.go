package installer

import (
	"fmt"
	"sync/atomic"
)

// StepError reports which step of a plan failed.
type StepError struct {
	// Index is the zero-based position of the step in the plan.
	Index int

	// Name is the display name of the failed step.
	Name string

	// Err is the underlying failure.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes install steps sequentially, stopping at the first
// failure. A nil Log disables logging. OnStep, when set, receives
// progress before each step runs and once more after the last step.
type Runner struct {
	Log    *Logger
	OnStep func(current, total int, name string)

	cancelled atomic.Bool
}

// Cancel makes Run stop before the next step begins. It is safe to
// call from another goroutine, typically a UI cancel button. Steps
// already running are not interrupted.
func (r *Runner) Cancel() {
	r.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (r *Runner) Cancelled() bool {
	return r.cancelled.Load()
}

// Run executes the steps in order. The first failing step aborts the
// run and its error is returned wrapped in a StepError. Cancellation
// between steps returns ErrCancelled. Skipped steps count as
// successful.
func (r *Runner) Run(steps []Step) error {
	total := len(steps)
	for i, step := range steps {
		if r.cancelled.Load() {
			r.Log.Warn("Installation cancelled by user")
			return ErrCancelled
		}

		if r.OnStep != nil {
			r.OnStep(i, total, step.Name)
		}
		r.Log.Step("Starting: %s", step.Name)

		result := step.Action()

		if result.Err != nil {
			r.Log.Error("Step '%s' failed: %v", step.Name, result.Err)
			return &StepError{Index: i, Name: step.Name, Err: result.Err}
		}

		if result.Skip {
			if result.Info != "" {
				r.Log.Info("Step '%s' skipped: %s", step.Name, result.Info)
			} else {
				r.Log.Info("Step '%s' skipped", step.Name)
			}
			continue
		}

		if result.Info != "" {
			r.Log.Info("Step '%s' completed: %s", step.Name, result.Info)
		} else {
			r.Log.Info("Step '%s' completed", step.Name)
		}
	}

	if r.OnStep != nil {
		r.OnStep(total, total, "Complete")
	}
	r.Log.Info("All steps completed successfully")
	return nil
}

// Package installer drives the target-machine side of a setup: it
// opens the payload appended to the running stub, resolves the
// manifest against the machine, and executes the install as a
// sequence of steps.
//
// The pieces, in the order a stub uses them:
//   - OpenPayload / ExtractPayload: read the manifest and stage the
//     packed files into a temp directory, verifying digests
//   - Session: the run's state (mode, folders, install dir, task
//     selections) and the expansion of {app}-style path constants
//   - BuildPlan: turn the manifest into concrete steps; task gates
//     and check expressions are decided here
//   - Runner: execute the steps in order, stopping at the first
//     failure
//   - SplitRuns / LaunchRun: post-install [Run] entries
//   - BuildUninstallSteps: the reverse plan, driven by the Record the
//     install left behind
//
// # Basic Usage
//
//	r, m, err := installer.OpenPayload()
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	folders, err := installer.DefaultFolders(m.Setup.RequiresAdmin())
//	if err != nil {
//	    return err
//	}
//	sess, err := installer.NewSession(m, installer.ModeSilent, folders)
//	if err != nil {
//	    return err
//	}
//
//	staged, err := installer.ExtractPayload(r, m, stagingDir, nil)
//	if err != nil {
//	    return err
//	}
//	sess.SetStaged(stagingDir, staged)
//
//	plan, err := installer.BuildPlan(sess)
//	if err != nil {
//	    return err
//	}
//	runner := &installer.Runner{Log: log}
//	return runner.Run(plan.Steps)
//
// # Step Pattern
//
// Steps are simple structs with a name and action function:
//
//	type Step struct {
//	    Name   string
//	    Action func() StepResult
//	}
//
// The StepResult indicates success, skip, or failure:
//
//	type StepResult struct {
//	    Skip bool   // Step was skipped (already done, not needed)
//	    Info string // Success/info message
//	    Err  error  // Error (nil = success)
//	}
//
// Skipped steps count as successful: an installer that finds a newer
// file already in place, or a task checkbox deselected, reports skip
// and moves on.
package installer

package installer

import (
	"fmt"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/crafted-tech/setupforge"
)

// SplitRuns partitions the [Run] section for the session. The during
// entries execute as the final install steps. The post entries carry
// the postinstall flag: the wizard offers them on its finish page,
// while unattended installs execute them automatically. Entries
// suppressed by skipifsilent or a false check expression appear in
// neither list.
func SplitRuns(s *Session) (during, post []setupforge.RunEntry, err error) {
	for _, e := range s.Manifest.Run {
		if e.Flags.SkipIfSilent && s.Unattended() {
			continue
		}
		ok, cerr := s.EvalCheck(e.Check)
		if cerr != nil {
			return nil, nil, fmt.Errorf("[Run] %s: %w", e.Filename, cerr)
		}
		if !ok {
			continue
		}
		if e.Flags.PostInstall {
			post = append(post, e)
		} else {
			during = append(during, e)
		}
	}
	return during, post, nil
}

// LaunchRun executes one [Run] entry. nowait entries are started and
// left running; all others are waited for, and a failure to start or
// a non-zero exit is an error.
func LaunchRun(s *Session, e setupforge.RunEntry) error {
	target, err := s.ExpandPath(e.Filename)
	if err != nil {
		return err
	}
	params, err := s.ExpandString(e.Parameters)
	if err != nil {
		return err
	}

	cmd := exec.Command(target, splitCommandArgs(params)...)
	cmd.Dir = filepath.Dir(target)

	if e.Flags.NoWait {
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", filepath.Base(target), err)
		}
		return cmd.Process.Release()
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", filepath.Base(target), err)
	}
	return nil
}

// StepRun wraps a [Run] entry as an install step.
func StepRun(s *Session, e setupforge.RunEntry) Step {
	return Step{
		Name: fmt.Sprintf("Run %s", runDisplayName(e)),
		Action: func() StepResult {
			if err := LaunchRun(s, e); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

func runDisplayName(e setupforge.RunEntry) string {
	if e.Description != "" {
		return e.Description
	}
	return path.Base(strings.ReplaceAll(e.Filename, `\`, "/"))
}

// splitCommandArgs splits a parameter string into arguments, honoring
// double quotes.
func splitCommandArgs(s string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	pending := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case (r == ' ' || r == '\t') && !inQuote:
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		args = append(args, cur.String())
	}
	return args
}

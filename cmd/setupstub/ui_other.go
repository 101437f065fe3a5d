//go:build !windows

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/crafted-tech/setupforge/installer"
	"github.com/crafted-tech/setupforge/sfx"
)

var stdin = bufio.NewReader(os.Stdin)

// alertError reports a fatal problem. Without native message boxes it
// goes to stderr.
func alertError(opts *options, title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

func confirmUninstall(rec *installer.Record) bool {
	return promptYesNo(fmt.Sprintf("Remove %s and all of its components?", rec.AppName), false)
}

func announceUninstalled(appName string) {
	fmt.Printf("%s was removed from this computer.\n", appName)
}

// runWizard drives an interactive install from the terminal. The
// Windows build replaces this with a graphical wizard.
func runWizard(log *installer.Logger, s *installer.Session, payload *sfx.Reader, stage string) int {
	setup := &s.Manifest.Setup
	fmt.Printf("%s %s Setup\n\n", setup.AppName, setup.AppVersion)

	if dir := promptLine(fmt.Sprintf("Install directory [%s]: ", s.InstallDir)); dir != "" {
		s.SetInstallDir(dir)
	}
	for _, task := range s.Manifest.Tasks {
		selected := promptYesNo(task.Description, s.TaskSelected(task.Name))
		if err := s.SelectTask(task.Name, selected); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitConfig
		}
	}
	if !promptYesNo(fmt.Sprintf("\nInstall %s to %s?", setup.AppName, s.InstallDir), true) {
		log.Warn("Installation cancelled by user")
		return exitCancelled
	}

	fmt.Println("Preparing to install...")
	staged, err := installer.ExtractPayload(payload, s.Manifest, stage, nil)
	if err != nil {
		log.Error("Setup failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	s.SetStaged(stage, staged)

	during, post, err := installer.SplitRuns(s)
	if err != nil {
		log.Error("Setup failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}
	plan, err := installer.BuildPlan(s)
	if err != nil {
		log.Error("Setup failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	steps := plan.Steps
	for _, e := range during {
		steps = append(steps, installer.StepRun(s, e))
	}

	runner := &installer.Runner{
		Log: log,
		OnStep: func(current, total int, name string) {
			if current < total {
				fmt.Printf("[%d/%d] %s\n", current+1, total, name)
			}
		},
	}
	if err := runner.Run(steps); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	fmt.Printf("\n%s has been installed.\n", setup.AppName)
	for _, e := range post {
		label := e.Description
		if label == "" {
			label = "Run " + e.Filename
		}
		if promptYesNo(label, true) {
			if err := installer.LaunchRun(s, e); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
	return exitOK
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptYesNo(question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer := strings.ToLower(promptLine(fmt.Sprintf("%s [%s]: ", question, hint)))
	if answer == "" {
		return def
	}
	return answer == "y" || answer == "yes"
}

//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lxn/walk"
	. "github.com/lxn/walk/declarative"

	"github.com/crafted-tech/setupforge"
	"github.com/crafted-tech/setupforge/installer"
	"github.com/crafted-tech/setupforge/sfx"
)

// alertError reports a fatal problem. /VERYSILENT suppresses the
// message box; /SILENT keeps error boxes, matching common installer
// behavior.
func alertError(opts *options, title, message string) {
	if opts != nil && opts.Mode == installer.ModeVerySilent {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
		return
	}
	walk.MsgBox(nil, title, message, walk.MsgBoxIconError)
}

func confirmUninstall(rec *installer.Record) bool {
	question := fmt.Sprintf("Are you sure you want to completely remove %s and all of its components?", rec.AppName)
	return walk.MsgBox(nil, rec.AppName+" Uninstall", question,
		walk.MsgBoxYesNo|walk.MsgBoxIconQuestion) == walk.DlgCmdYes
}

func announceUninstalled(appName string) {
	walk.MsgBox(nil, appName+" Uninstall",
		fmt.Sprintf("%s was successfully removed from this computer.", appName),
		walk.MsgBoxIconInformation)
}

type page int

const (
	pageOptions page = iota
	pageProgress
	pageFinish
)

// wizard is the graphical install flow: one window whose option,
// progress, and finish groups are toggled visible in place.
type wizard struct {
	log     *installer.Logger
	session *installer.Session
	payload *sfx.Reader
	stage   string

	win          *walk.MainWindow
	optionsGroup *walk.Composite
	dirEdit      *walk.LineEdit
	taskBoxes    []*walk.CheckBox

	progressGroup *walk.GroupBox
	statusLabel   *walk.Label
	progressBar   *walk.ProgressBar

	finishGroup *walk.Composite
	finishLabel *walk.Label
	postEntries []setupforge.RunEntry
	postBoxes   []*walk.CheckBox

	installBtn *walk.PushButton
	cancelBtn  *walk.PushButton

	runner     *installer.Runner
	installing bool
	finished   bool
	code       int
}

// runWizard drives an interactive install. The returned value is the
// process exit code.
func runWizard(log *installer.Logger, s *installer.Session, payload *sfx.Reader, stage string) int {
	w := &wizard{
		log:     log,
		session: s,
		payload: payload,
		stage:   stage,
		code:    exitCancelled,
	}
	if err := w.create(); err != nil {
		log.Error("Cannot create setup window: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	w.win.Run()
	return w.code
}

func (w *wizard) create() error {
	setup := &w.session.Manifest.Setup
	tasks := w.session.Manifest.Tasks

	taskWidgets := make([]Widget, 0, len(tasks))
	w.taskBoxes = make([]*walk.CheckBox, len(tasks))
	for i := range tasks {
		taskWidgets = append(taskWidgets, CheckBox{
			AssignTo: &w.taskBoxes[i],
			Text:     tasks[i].Description,
			Checked:  w.session.TaskSelected(tasks[i].Name),
		})
	}

	for _, e := range w.session.Manifest.Run {
		if e.Flags.PostInstall {
			w.postEntries = append(w.postEntries, e)
		}
	}
	postWidgets := make([]Widget, 0, len(w.postEntries))
	w.postBoxes = make([]*walk.CheckBox, len(w.postEntries))
	for i, e := range w.postEntries {
		label := e.Description
		if label == "" {
			label = "Run " + e.Filename
		}
		postWidgets = append(postWidgets, CheckBox{
			AssignTo: &w.postBoxes[i],
			Text:     label,
			Checked:  true,
		})
	}

	err := MainWindow{
		AssignTo: &w.win,
		Title:    setup.AppName + " Setup",
		Size:     Size{Width: 540, Height: 400},
		Layout:   VBox{},
		Children: []Widget{
			Composite{
				AssignTo: &w.optionsGroup,
				Layout:   VBox{MarginsZero: true},
				Children: []Widget{
					Label{
						Text: fmt.Sprintf("Welcome to the %s %s Setup Wizard", setup.AppName, setup.AppVersion),
						Font: Font{PointSize: 12, Bold: true},
					},
					Label{
						Text: fmt.Sprintf("This will install %s on your computer.", setup.AppName),
					},
					GroupBox{
						Title:  "Destination folder",
						Layout: HBox{},
						Children: []Widget{
							LineEdit{
								AssignTo:      &w.dirEdit,
								Text:          w.session.InstallDir,
								StretchFactor: 1,
							},
							PushButton{
								Text:      "Browse...",
								OnClicked: w.browse,
							},
						},
					},
					GroupBox{
						Title:    "Additional tasks",
						Layout:   VBox{},
						Visible:  len(taskWidgets) > 0,
						Children: taskWidgets,
					},
					VSpacer{},
				},
			},
			GroupBox{
				AssignTo: &w.progressGroup,
				Title:    "Installing",
				Layout:   VBox{},
				Visible:  false,
				Children: []Widget{
					Label{
						AssignTo: &w.statusLabel,
						Text:     "Preparing to install...",
					},
					ProgressBar{
						AssignTo:      &w.progressBar,
						MaxValue:      100,
						StretchFactor: 1,
					},
					VSpacer{},
				},
			},
			Composite{
				AssignTo: &w.finishGroup,
				Layout:   VBox{MarginsZero: true},
				Visible:  false,
				Children: []Widget{
					Label{
						Text: "Installation complete",
						Font: Font{PointSize: 12, Bold: true},
					},
					Label{
						AssignTo: &w.finishLabel,
					},
					Composite{
						Layout:   VBox{MarginsZero: true},
						Children: postWidgets,
					},
					VSpacer{},
				},
			},
			Composite{
				Layout: HBox{MarginsZero: true},
				Children: []Widget{
					HSpacer{},
					PushButton{
						AssignTo:  &w.installBtn,
						Text:      "Install",
						OnClicked: w.onPrimary,
					},
					PushButton{
						AssignTo:  &w.cancelBtn,
						Text:      "Cancel",
						OnClicked: w.onCancel,
					},
				},
			},
		},
	}.Create()
	if err != nil {
		return err
	}

	w.win.Closing().Attach(func(canceled *bool, reason walk.CloseReason) {
		if w.installing {
			*canceled = true
			w.runner.Cancel()
		}
	})
	return nil
}

func (w *wizard) showPage(p page) {
	w.optionsGroup.SetVisible(p == pageOptions)
	w.progressGroup.SetVisible(p == pageProgress)
	w.finishGroup.SetVisible(p == pageFinish)
}

func (w *wizard) browse() {
	fd := new(walk.FileDialog)
	fd.Title = "Choose the destination folder"
	fd.FilePath = w.dirEdit.Text()

	if ok, err := fd.ShowBrowseFolder(w.win); err != nil {
		walk.MsgBox(w.win, "Setup", err.Error(), walk.MsgBoxIconError)
	} else if ok {
		w.dirEdit.SetText(fd.FilePath)
	}
}

// onPrimary is the Install button, which becomes Finish after a
// successful install.
func (w *wizard) onPrimary() {
	if w.finished {
		w.finish()
		return
	}
	w.install()
}

func (w *wizard) onCancel() {
	if w.installing {
		w.runner.Cancel()
		w.cancelBtn.SetEnabled(false)
		return
	}
	w.win.Close()
}

func (w *wizard) install() {
	dir := strings.TrimSpace(w.dirEdit.Text())
	if dir == "" {
		walk.MsgBox(w.win, "Setup", "Please choose a destination folder.", walk.MsgBoxIconWarning)
		return
	}
	w.session.SetInstallDir(dir)
	for i := range w.session.Manifest.Tasks {
		name := w.session.Manifest.Tasks[i].Name
		if err := w.session.SelectTask(name, w.taskBoxes[i].Checked()); err != nil {
			walk.MsgBox(w.win, "Setup", err.Error(), walk.MsgBoxIconError)
			return
		}
	}

	w.runner = &installer.Runner{
		Log: w.log,
		OnStep: func(current, total int, name string) {
			w.win.Synchronize(func() {
				if total > 0 {
					w.progressBar.SetValue(current * 100 / total)
				}
				if current < total {
					w.statusLabel.SetText(name)
				} else {
					w.statusLabel.SetText("Finishing...")
				}
			})
		},
	}
	w.installing = true
	w.installBtn.SetEnabled(false)
	w.showPage(pageProgress)

	go w.runInstall()
}

// runInstall performs the actual install off the UI thread.
func (w *wizard) runInstall() {
	err := w.doInstall()

	w.win.Synchronize(func() {
		w.installing = false
		if err != nil {
			if errors.Is(err, installer.ErrCancelled) {
				w.code = exitCancelled
				w.win.Close()
				return
			}
			w.code = exitCodeFor(err)
			walk.MsgBox(w.win, "Setup", fmt.Sprintf("Installation failed:\n%v", err), walk.MsgBoxIconError)
			w.win.Close()
			return
		}

		w.code = exitOK
		w.finished = true
		w.finishLabel.SetText(fmt.Sprintf("%s has been installed to %s.",
			w.session.Manifest.Setup.AppName, w.session.InstallDir))
		for i, e := range w.postEntries {
			ok, err := w.session.EvalCheck(e.Check)
			if err != nil || !ok {
				w.postBoxes[i].SetChecked(false)
				w.postBoxes[i].SetVisible(false)
			}
		}
		w.installBtn.SetText("Finish")
		w.installBtn.SetEnabled(true)
		w.cancelBtn.SetVisible(false)
		w.showPage(pageFinish)
	})
}

func (w *wizard) doInstall() error {
	w.setStatus("Extracting files...")
	staged, err := installer.ExtractPayload(w.payload, w.session.Manifest, w.stage, func(name string) {
		w.setStatus("Extracting " + name)
	})
	if err != nil {
		return err
	}
	w.session.SetStaged(w.stage, staged)

	during, _, err := installer.SplitRuns(w.session)
	if err != nil {
		return err
	}
	plan, err := installer.BuildPlan(w.session)
	if err != nil {
		return err
	}
	steps := plan.Steps
	for _, e := range during {
		steps = append(steps, installer.StepRun(w.session, e))
	}
	return w.runner.Run(steps)
}

// finish launches the checked post-install entries and closes the
// window.
func (w *wizard) finish() {
	for i, e := range w.postEntries {
		if !w.postBoxes[i].Visible() || !w.postBoxes[i].Checked() {
			continue
		}
		if err := installer.LaunchRun(w.session, e); err != nil {
			w.log.Error("Post-install action failed: %v", err)
			walk.MsgBox(w.win, "Setup", err.Error(), walk.MsgBoxIconError)
		}
	}
	w.win.Close()
}

func (w *wizard) setStatus(text string) {
	w.win.Synchronize(func() {
		w.statusLabel.SetText(text)
	})
}

package installer

import (
	"errors"
	"strings"
	"testing"
)

func TestRunner_RunsStepsInOrder(t *testing.T) {
	var order []string
	steps := []Step{
		SimpleStep("first", func() error { order = append(order, "first"); return nil }),
		SimpleStep("second", func() error { order = append(order, "second"); return nil }),
		SimpleStep("third", func() error { order = append(order, "third"); return nil }),
	}

	r := &Runner{}
	if err := r.Run(steps); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(order, ","); got != "first,second,third" {
		t.Errorf("execution order = %s", got)
	}
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	steps := []Step{
		SimpleStep("ok", func() error { return nil }),
		SimpleStep("fails", func() error { return boom }),
		SimpleStep("never", func() error { ran = true; return nil }),
	}

	r := &Runner{}
	err := r.Run(steps)
	if err == nil {
		t.Fatal("Run succeeded, want failure")
	}
	if ran {
		t.Error("step after the failure was executed")
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error type = %T, want *StepError", err)
	}
	if stepErr.Index != 1 || stepErr.Name != "fails" {
		t.Errorf("StepError = {Index: %d, Name: %q}", stepErr.Index, stepErr.Name)
	}
	if !errors.Is(err, boom) {
		t.Error("StepError does not unwrap to the step's error")
	}
	if want := "step 2 (fails): boom"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRunner_SkippedStepsCountAsSuccess(t *testing.T) {
	steps := []Step{
		{Name: "skipper", Action: func() StepResult { return Skipped("nothing to do") }},
		SimpleStep("ok", func() error { return nil }),
	}

	r := &Runner{}
	if err := r.Run(steps); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunner_Cancel(t *testing.T) {
	r := &Runner{}
	ran := false
	steps := []Step{
		SimpleStep("first", func() error { r.Cancel(); return nil }),
		SimpleStep("second", func() error { ran = true; return nil }),
	}

	err := r.Run(steps)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run = %v, want ErrCancelled", err)
	}
	if ran {
		t.Error("step ran after cancellation")
	}
	if !r.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}
}

func TestRunner_ReportsProgress(t *testing.T) {
	type tick struct {
		current, total int
		name           string
	}
	var ticks []tick

	steps := []Step{
		SimpleStep("one", func() error { return nil }),
		SimpleStep("two", func() error { return nil }),
	}
	r := &Runner{OnStep: func(current, total int, name string) {
		ticks = append(ticks, tick{current, total, name})
	}}
	if err := r.Run(steps); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []tick{{0, 2, "one"}, {1, 2, "two"}, {2, 2, "Complete"}}
	if len(ticks) != len(want) {
		t.Fatalf("got %d progress ticks, want %d", len(ticks), len(want))
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d = %+v, want %+v", i, ticks[i], want[i])
		}
	}
}

func TestRunner_EmptyPlanSucceeds(t *testing.T) {
	r := &Runner{}
	if err := r.Run(nil); err != nil {
		t.Errorf("Run(nil) = %v", err)
	}
}

package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/product-identification/pid-deploy/internal/cli/render"
	"github.com/product-identification/pid-deploy/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner
type SpinnerProgressReporter struct {
	out            io.Writer
	spinner        *spinner.Spinner
	stages         []stageInfo
	currentStage   usecase.ExecutionStage
	stageStartTime time.Time
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter writing to out
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
		stages:  []stageInfo{},
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.reportStage(event.Stage)
	}

	switch event.Stage {
	case usecase.StageCompleted, usecase.StageFailed:
		r.spinner.Stop()
		return
	}

	// Handle spinner states
	if event.Spinner {
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		r.updateSpinnerDisplay()
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}

	// Update current stage info if needed
	if len(r.stages) > 0 && event.Message != "" {
		r.stages[len(r.stages)-1].Message = event.Message
	}
}

// reportStage records the start of a stage and closes the previous one
func (r *SpinnerProgressReporter) reportStage(stage usecase.ExecutionStage) {
	if r.currentStage != "" {
		r.completeCurrentStage(stage == usecase.StageFailed)
	}

	r.currentStage = stage
	r.stageStartTime = time.Now()
	r.stages = append(r.stages, stageInfo{
		Stage:     stage,
		StartTime: r.stageStartTime,
		Status:    "running",
	})
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Warn prints a warning message
func (r *SpinnerProgressReporter) Warn(message string) {
	r.pause(func() {
		fmt.Fprintln(r.out, render.FormatWarning(message))
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() {
		fmt.Fprintln(r.out, render.FormatError(message))
	})
}

// pause stops the spinner while fn writes, then restarts it
func (r *SpinnerProgressReporter) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	fn()

	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner, if running
func (r *SpinnerProgressReporter) Stop() {
	r.spinner.Stop()
}

// completeCurrentStage marks the current stage as completed or failed
func (r *SpinnerProgressReporter) completeCurrentStage(failed bool) {
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		r.stages[idx].EndTime = time.Now()
		r.stages[idx].Status = "completed"
		if failed {
			r.stages[idx].Status = "failed"
		}
	}
}

// updateSpinnerDisplay updates the spinner suffix with stage information
func (r *SpinnerProgressReporter) updateSpinnerDisplay() {
	var display string

	for _, stage := range r.stages {
		var stageName string
		var icon string
		var stageColor *color.Color

		// Map stage names
		switch stage.Stage {
		case usecase.StageConnecting:
			stageName = "Connecting"
		case usecase.StageDeploying:
			stageName = "Deploying"
		default:
			// Skip other stages in display
			continue
		}

		// Determine icon and color based on status
		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		case "running":
			icon = "●"
			stageColor = color.New(color.FgYellow)
		case "failed":
			icon = "✗"
			stageColor = color.New(color.FgRed)
		default:
			icon = "○"
			stageColor = color.New(color.FgWhite)
		}

		// Calculate duration
		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		}

		if display != "" {
			display += " → "
		}
		display += fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(stageName), duration)
	}

	r.spinner.Suffix = " " + display
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)

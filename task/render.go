package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/flowterm/progress/jobstate"
	"github.com/flowterm/progress/template"
	"github.com/flowterm/progress/term"
)

// barWidth is the fixed width, in cells, of a rendered progress bar.
const barWidth = 30

// statusIcon returns the single-glyph marker shown before a task's name,
// grounded on clicky's Status.Icon().
func statusIcon(status jobstate.Status) string {
	switch status {
	case jobstate.StatusPending:
		return "⏳"
	case jobstate.StatusRunning:
		return "⟳"
	case jobstate.StatusCompleted:
		return "✓"
	case jobstate.StatusFailed:
		return "✗"
	case jobstate.StatusRetry:
		return "↻"
	default:
		return "?"
	}
}

// styleFor returns the style a task's name/icon/header text is painted with
// for its current status.
func (tm *Manager) styleFor(status jobstate.Status) lipgloss.Style {
	switch status {
	case jobstate.StatusCompleted:
		return tm.styles.completed
	case jobstate.StatusFailed:
		return tm.styles.failed
	case jobstate.StatusRunning:
		return tm.styles.running
	case jobstate.StatusRetry:
		return tm.styles.retry
	default:
		return tm.styles.pending
	}
}

// renderBar paints a barWidth-cell progress bar, the filled segment in
// tm.styles.bar and the empty segment in tm.styles.barEmpty, mirroring
// clicky's renderProgressBar.
func (tm *Manager) renderBar(progress float64) string {
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return tm.styles.bar.Render(strings.Repeat("█", filled)) +
		tm.styles.barEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// maxBatchPerTick caps how many pending dirty-signals a single render tick
// drains before painting a frame: up to 50 signals coalesce into one redraw
// every 10ms rather than repainting once per signal.
const maxBatchPerTick = 50

const renderTick = 10 * time.Millisecond

// renderLoop is the single goroutine permitted to write frames: every task
// signals markDirty() instead of writing directly, so concurrent task
// goroutines never race on the terminal.
func (tm *Manager) renderLoop() {
	defer close(tm.renderDone)

	ticker := time.NewTicker(renderTick)
	defer ticker.Stop()

	for {
		select {
		case <-tm.stopRender:
			tm.paintFrame()
			return
		case <-ticker.C:
			if tm.drainSignals() > 0 {
				tm.paintFrame()
			}
		}
	}
}

func (tm *Manager) drainSignals() int {
	drained := 0
	for drained < maxBatchPerTick {
		select {
		case <-tm.renderCh:
			drained++
		default:
			return drained
		}
	}
	return drained
}

// paintFrame renders every tracked task's current state to the manager's
// writer. Interactive terminals redraw the whole frame each tick;
// non-interactive output (e.g. piped) only emits a line for tasks
// that changed since the last frame, matching how a log file should read.
func (tm *Manager) paintFrame() {
	tm.mu.RLock()
	noProgress := tm.noProgress
	isInteractive := tm.isInteractive
	tasks := append([]*Task(nil), tm.tasks...)
	tm.mu.RUnlock()

	if noProgress || len(tasks) == 0 {
		return
	}

	if isInteractive {
		var b strings.Builder
		b.WriteString("\033[H\033[J")
		for _, t := range tasks {
			b.WriteString(tm.renderTaskFrame(t))
			b.WriteByte('\n')
		}
		fmt.Fprint(tm.writer, b.String())
		return
	}

	for _, t := range tasks {
		if t.PopDirty() {
			fmt.Fprintf(tm.writer, "%s\n", tm.renderTaskFrame(t))
		}
	}
}

// renderTaskFrame produces one task's header line (icon, name, progress bar,
// status text) followed by any buffered output lines its mode.Config holds,
// each wrapped to the manager's terminal width. The icon, name and bar are
// painted with the style for the task's current status.
func (tm *Manager) renderTaskFrame(t *Task) string {
	status := t.Status()
	style := tm.styleFor(status)

	summary, err := tm.templates.Render(taskTemplateContext(t))
	if err != nil {
		summary = fmt.Sprintf("[render error: %v]", err)
	}

	header := fmt.Sprintf("%s %s %s",
		style.Render(fmt.Sprintf("%s %s", statusIcon(status), t.Name())),
		tm.renderBar(progressFraction(t)),
		style.Render(summary),
	)

	lines := t.config.GetLines()
	if len(lines) == 0 {
		return header
	}

	width, _ := tm.terminal.Size()
	wrapper := term.NewTextWrapper(width - 2)
	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, wrapper.Wrap(line)...)
	}
	return header + "\n  " + strings.Join(wrapped, "\n  ")
}

// progressFraction is a task's completed/total ratio, clamped to [0,1] and
// forced to 1 once the task itself reports Completed (some modes never see
// their last job tick arrive before the status flips).
func progressFraction(t *Task) float64 {
	base, ok := t.config.BaseConfig()
	if !ok {
		return 0
	}
	total := base.GetTotalJobs()
	if total <= 0 {
		return 0
	}
	completed := base.GetCompletedJobs()
	if base.GetStatus() == jobstate.StatusCompleted {
		completed = total
	}
	progress := float64(completed) / float64(total)
	if progress > 1 {
		progress = 1
	}
	return progress
}

// taskTemplateContext exposes a task's progress state as template variables
// matching the {completed}/{total}/{progress}/{status}/{name} names the
// preset templates reference.
func taskTemplateContext(t *Task) *template.Context {
	ctx := template.NewContext().SetString("name", t.Name()).SetString("status", t.Status().String())

	base, ok := t.config.BaseConfig()
	if !ok {
		return ctx
	}
	total := base.GetTotalJobs()
	completed := base.GetCompletedJobs()
	if base.GetStatus() == jobstate.StatusCompleted {
		completed = total
	}

	return ctx.
		SetNumber("completed", float64(completed)).
		SetNumber("total", float64(total)).
		SetNumber("progress", progressFraction(t))
}

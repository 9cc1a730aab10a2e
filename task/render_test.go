package task

import (
	"strings"
	"testing"

	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/stretchr/testify/assert"

	"github.com/flowterm/progress/jobstate"
)

func TestStatusIconCoversEveryStatus(t *testing.T) {
	for _, s := range []jobstate.Status{
		jobstate.StatusPending,
		jobstate.StatusRunning,
		jobstate.StatusCompleted,
		jobstate.StatusFailed,
		jobstate.StatusRetry,
	} {
		assert.NotEmpty(t, statusIcon(s))
	}
}

func TestRenderBarWidthIsFixed(t *testing.T) {
	tm := NewManagerWithConcurrency(1)
	defer tm.stopRendering()

	bar := tm.renderBar(0.5)
	// The renderer targets stderr, which isn't a terminal under `go test`,
	// so lipgloss emits plain text here with no ANSI escapes to strip.
	assert.Equal(t, barWidth, len([]rune(bar)))
	assert.True(t, strings.HasPrefix(bar, strings.Repeat("█", barWidth/2)))
}

func TestRenderTaskFrameIncludesIconAndName(t *testing.T) {
	tm := NewManagerWithConcurrency(1)
	defer tm.stopRendering()

	tt, err := tm.Start("render-me", func(ctx flanksourceContext.Context) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error starting task: %v", err)
	}
	tt.WaitFor()

	frame := tm.renderTaskFrame(tt)
	assert.Contains(t, frame, "render-me")
	assert.Contains(t, frame, statusIcon(jobstate.StatusCompleted))
}

package term

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalSizeTracking(t *testing.T) {
	term := WithSize(80, 24)
	w, h := term.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	term.SetSize(100, 40)
	w, h = term.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 40, h)
}

func TestEventManagerDispatchesResize(t *testing.T) {
	term := WithSize(80, 24)
	term.StartEventDetection()
	defer term.StopEventDetection()

	received := make(chan Event, 1)
	term.Events().RegisterHandler(func(e Event) error {
		received <- e
		return nil
	})

	term.SetSize(120, 50)

	select {
	case e := <-received:
		assert.Equal(t, EventResize, e.Kind)
		assert.Equal(t, 120, e.Width)
		assert.Equal(t, 50, e.Height)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for resize event")
	}
}

func TestTextWrapperFitsShortLine(t *testing.T) {
	w := NewTextWrapper(20)
	lines := w.Wrap("short line")
	assert.Equal(t, []string{"short line"}, lines)
}

func TestTextWrapperBreaksOnSeparators(t *testing.T) {
	w := NewTextWrapper(10)
	lines := w.Wrap("hello there friend")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, w.VisualWidth(line), 10)
	}
}

func TestTextWrapperTruncation(t *testing.T) {
	w := NewTextWrapper(5)
	out := w.Truncate("a long word here", 5)
	assert.LessOrEqual(t, w.VisualWidth(out), 5)
	assert.Contains(t, out, "…")
}

package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedReplacesLine(t *testing.T) {
	l := NewLimited(1, false)
	assert.Equal(t, 1, l.LinesToDisplay())
	assert.Equal(t, []string{"a"}, l.HandleMessage("a"))
	assert.Equal(t, []string{"b"}, l.HandleMessage("b"))
}

func TestCapturingNeverDisplays(t *testing.T) {
	c := NewCapturing(1)
	assert.Equal(t, 0, c.LinesToDisplay())
	assert.Nil(t, c.HandleMessage("a"))
	assert.Nil(t, c.GetLines())
	assert.Equal(t, []string{"a"}, c.Captured())
}

func TestWindowEvictsOldest(t *testing.T) {
	w, err := NewWindow(1, 3)
	require.NoError(t, err)
	w.HandleMessage("line 1")
	w.HandleMessage("line 2")
	w.HandleMessage("line 3")
	assert.Equal(t, []string{"line 1", "line 2", "line 3"}, w.GetLines())
	w.HandleMessage("line 4")
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, w.GetLines())
}

func TestWindowInvalidSize(t *testing.T) {
	_, err := NewWindow(1, 0)
	assert.Error(t, err)
}

func TestWindowThreadedMessages(t *testing.T) {
	w, err := NewWindow(1, 5)
	require.NoError(t, err)
	w.HandleMessage("[thread1] Message 1")
	w.HandleMessage("[thread2] Message 2")
	w.HandleMessage("[thread1] Message 3")
	lines := w.GetLines()
	assert.Len(t, lines, 2)
	assert.Contains(t, lines, "[thread1] Message 3")
	assert.Contains(t, lines, "[thread2] Message 2")
}

func TestWindowWithTitleReservesFirstLine(t *testing.T) {
	w, err := NewWindowWithTitle(1, 3, "Build")
	require.NoError(t, err)
	assert.Equal(t, 3, w.LinesToDisplay())
	w.AddEmoji("🔥")
	lines := w.HandleMessage("compiling")
	assert.Equal(t, "🔥 Build", lines[0])
	assert.Equal(t, []string{"compiling"}, lines[1:])
}

func TestWindowWithTitleInvalidSize(t *testing.T) {
	_, err := NewWindowWithTitle(1, 1, "Build")
	assert.Error(t, err)
}

func TestWindowWithTitleRequiresTitle(t *testing.T) {
	_, err := NewWindowWithTitle(1, 3, "")
	assert.Error(t, err)
}

func TestFactoryFallbackCascade(t *testing.T) {
	f := NewFactory()
	f.SetErrorPolicy(ErrorPolicyFallback)

	mode, err := f.CreateMode("window_with_title", Parameters{TotalJobs: 1}.WithMaxLines(1))
	require.NoError(t, err)
	// window_with_title fails because no title is given (and 1 line is below
	// its minimum anyway); without a title the cascade skips the titled retry
	// at max_lines=3 and falls through to plain Window(3), then Limited only
	// if that too fails.
	assert.NotNil(t, mode)
}

func TestFactoryPropagatePolicy(t *testing.T) {
	f := NewFactory()
	f.SetErrorPolicy(ErrorPolicyPropagate)
	_, err := f.CreateMode("window", Parameters{TotalJobs: 1}.WithMaxLines(0))
	assert.Error(t, err)
}

func TestRegistryUnknownMode(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("nonexistent", Parameters{TotalJobs: 1})
	assert.Error(t, err)
}

func TestConfigCapabilityDispatch(t *testing.T) {
	w, err := NewWindowWithTitle(1, 3, "Build")
	require.NoError(t, err)
	cfg := NewConfig(w)
	assert.True(t, cfg.Supports(CapabilityTitle))
	assert.True(t, cfg.Supports(CapabilityStandardWindow))
	assert.True(t, cfg.Supports(CapabilityWrappedText))

	titled, ok := cfg.AsTitle()
	require.True(t, ok)
	assert.Equal(t, "Build", titled.GetTitle())

	l := NewLimited(1, false)
	cfg2 := NewConfig(l)
	assert.False(t, cfg2.Supports(CapabilityTitle))
}

// Package testsupport provides a recording terminal double for tests that
// assert on rendered progress-display output, grounded on
// terminal/test_env.rs's TestEnv.
package testsupport

import (
	"strconv"
	"strings"
	"sync"
)

// TestEnv records writes made to a simulated terminal screen and exposes
// the resulting contents for assertions. Unlike the original's vt100-based
// emulator — which tracks a real cursor so interactive escape sequences
// can be replayed — this recorder only needs to capture the full lines a
// renderer emits each frame (mode.Config.GetLines already hands back
// complete lines, never partial cursor-addressed writes), so it keeps a
// flat, line-oriented buffer instead of emulating a VT100 screen.
type TestEnv struct {
	mu     sync.Mutex
	width  int
	height int
	lines  []string
}

// New returns a TestEnv sized to width x height (height is advisory; the
// buffer grows as lines are written).
func New(width, height int) *TestEnv {
	return &TestEnv{width: width, height: height}
}

// NewLike returns a TestEnv with the same dimensions as other.
func NewLike(other *TestEnv) *TestEnv {
	other.mu.Lock()
	defer other.mu.Unlock()
	return New(other.width, other.height)
}

// Size returns the configured (width, height).
func (e *TestEnv) Size() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// Write appends text to the recorded screen, splitting on newlines into
// separate lines.
func (e *TestEnv) Write(text string) *TestEnv {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, segment := range strings.Split(text, "\n") {
		e.lines = append(e.lines, segment)
	}
	return e
}

// WriteLines appends a full frame of already-split lines, as produced by
// mode.Config.GetLines.
func (e *TestEnv) WriteLines(lines []string) *TestEnv {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = append(e.lines, lines...)
	return e
}

// Reset clears all recorded output.
func (e *TestEnv) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
}

// Contents returns every non-empty recorded line, trimmed of trailing
// whitespace, joined with newlines.
func (e *TestEnv) Contents() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, line := range e.lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

// Lines returns a copy of every recorded line, including blanks.
func (e *TestEnv) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.lines))
	copy(out, e.lines)
	return out
}

// ContainsLine reports whether any recorded line equals want exactly.
func (e *TestEnv) ContainsLine(want string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, line := range e.lines {
		if line == want {
			return true
		}
	}
	return false
}

// Merge appends another TestEnv's recorded lines after this one's,
// mirroring terminal/test_env.rs's TestEnv::merge for sequencing output
// from concurrent test helpers.
func (e *TestEnv) Merge(other *TestEnv) {
	other.mu.Lock()
	lines := append([]string(nil), other.lines...)
	other.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, line := range lines {
		if line != "" {
			e.lines = append(e.lines, line)
		}
	}
}

// DumpScreen renders the buffer with line numbers, useful in test failure
// messages.
func (e *TestEnv) DumpScreen() string {
	var b strings.Builder
	lines := strings.Split(e.Contents(), "\n")
	for i, line := range lines {
		b.WriteString(padLineNumber(i))
		b.WriteString(": ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func padLineNumber(i int) string {
	s := strconv.Itoa(i)
	for len(s) < 3 {
		s = " " + s
	}
	return s
}

package mode

import (
	"fmt"
	"strings"

	"github.com/flowterm/progress/jobstate"
	"github.com/flowterm/progress/progresserr"
	"github.com/mattn/go-runewidth"
)

const wrapWidth = 40

// windowBase is the shared scrolling-line-buffer implementation behind
// Window and WindowWithTitle, grounded on modes/window_base.rs.
type windowBase struct {
	base jobstate.Base

	lines         []string
	maxLines      int
	threadBuffers map[string][]string
	threaded      bool
	lineWrapping  bool
}

func newWindowBase(totalJobs uint64, maxLines int, modeName string) (*windowBase, error) {
	if maxLines < 1 {
		return nil, &progresserr.InvalidWindowSize{
			Size: maxLines, MinSize: 1, ModeName: modeName,
			Reason: "window size must be at least 1 line",
		}
	}
	wb := &windowBase{maxLines: maxLines, threadBuffers: map[string][]string{}}
	wb.base = *jobstate.NewBase(totalJobs)
	return wb, nil
}

// addMessage mirrors WindowBase::add_message: thread-tagged messages
// (`[id] text`) fan out into per-thread buffers once any such message has
// been seen; otherwise lines are split on '\n' and wrapped if enabled.
func (w *windowBase) addMessage(message string) {
	if strings.HasPrefix(message, "[") && strings.Contains(message, "]") {
		end := strings.Index(message, "]")
		threadID := message[1:end]
		content := strings.TrimSpace(message[end+1:])
		w.threadBuffers[threadID] = append(w.threadBuffers[threadID], content)
		w.threaded = true
		return
	}
	if w.threaded {
		for id, buf := range w.threadBuffers {
			w.threadBuffers[id] = append(buf, message)
		}
		return
	}
	if strings.Contains(message, "\n") {
		for _, line := range strings.Split(message, "\n") {
			if line != "" {
				w.addSingleLine(line)
			}
		}
		return
	}
	w.addSingleLine(message)
}

func (w *windowBase) addSingleLine(line string) {
	if w.lineWrapping {
		remaining := line
		for remaining != "" {
			if runewidth.StringWidth(remaining) <= wrapWidth {
				w.lines = append(w.lines, remaining)
				break
			}
			breakPos := runeBreakPosition(remaining, wrapWidth)
			optimal := strings.LastIndex(remaining[:breakPos], " ")
			actual := breakPos
			if optimal > 0 {
				actual = optimal
			}
			w.lines = append(w.lines, remaining[:actual])
			remaining = strings.TrimLeft(remaining[actual:], " ")
		}
	} else {
		w.lines = append(w.lines, line)
	}

	for len(w.lines) > w.maxLines {
		w.lines = w.lines[1:]
	}
}

// runeBreakPosition finds a byte offset at or before width display columns,
// snapped to a rune boundary.
func runeBreakPosition(s string, width int) int {
	col := 0
	pos := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if col+w > width {
			return i
		}
		col += w
		pos = i + len(string(r))
	}
	return pos
}

func (w *windowBase) getLines() []string {
	if w.threaded {
		result := make([]string, 0, len(w.threadBuffers))
		for id, buf := range w.threadBuffers {
			if len(buf) > 0 {
				result = append(result, fmt.Sprintf("[%s] %s", id, buf[len(buf)-1]))
			}
		}
		return result
	}
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}

func (w *windowBase) maxLinesValue() int { return w.maxLines }

func (w *windowBase) clear() {
	w.lines = nil
	w.threadBuffers = map[string][]string{}
	w.threaded = false
}

func (w *windowBase) isEmpty() bool {
	if w.threaded {
		for _, buf := range w.threadBuffers {
			if len(buf) > 0 {
				return false
			}
		}
		return true
	}
	return len(w.lines) == 0
}

func (w *windowBase) lineCount() int {
	if w.threaded {
		return len(w.threadBuffers)
	}
	return len(w.lines)
}

func (w *windowBase) setLineWrapping(enabled bool) { w.lineWrapping = enabled }
func (w *windowBase) hasLineWrapping() bool        { return w.lineWrapping }

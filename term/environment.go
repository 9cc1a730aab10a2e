package term

import (
	"os"
	"strings"
)

// ColorSupport reports whether ANSI color output should be used, grounded
// on terminal/size.rs's detect_color_support: an explicit NO_COLOR always
// wins, COLORTERM=truecolor/24bit is a strong yes, and otherwise TERM is
// consulted before defaulting to on (most modern terminals do support
// color).
func ColorSupport() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if colorterm := os.Getenv("COLORTERM"); colorterm == "truecolor" || colorterm == "24bit" {
		return true
	}
	if term := strings.ToLower(os.Getenv("TERM")); term != "" {
		if strings.Contains(term, "color") || strings.Contains(term, "xterm") || strings.Contains(term, "256") {
			return true
		}
	}
	return true
}

// CursorMovementSupport reports whether the terminal is expected to honor
// ANSI cursor-movement sequences, grounded on detect_cursor_support.
func CursorMovementSupport() bool {
	term := strings.ToLower(os.Getenv("TERM"))
	if term == "" {
		return true
	}
	for _, want := range []string{"xterm", "rxvt", "screen", "tmux"} {
		if strings.Contains(term, want) {
			return true
		}
	}
	return true
}

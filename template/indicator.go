package template

import (
	"strings"

	"github.com/flowterm/progress/progresserr"
)

// indicatorKind enumerates the progress-bar rendering styles a {var:bar:...}
// tag can select, grounded on formatter.rs's ProgressIndicator.
type indicatorKind int

const (
	indicatorBar indicatorKind = iota
	indicatorBlock
	indicatorSpinner
	indicatorNumeric
	indicatorCustom
)

type progressIndicator struct {
	kind       indicatorKind
	customName string
}

// defaultSpinnerFrames mirrors ProgressIndicator::default_spinner_frames.
func defaultSpinnerFrames() []string { return []string{"-", "\\", "|", "/"} }

// defaultBlockChars mirrors ProgressIndicator::default_block_chars.
func defaultBlockChars() string { return "█▓▒░ " }

// parseProgressIndicator parses the second format token of a {var:bar:...}
// tag. A bare "custom" token (without an embedded colon) does not parse
// here: by the time format tokens reach this function the enclosing tag
// has already been split on ':', so "custom:dots" arrives as two tokens.
// formatBar handles that case itself by taking the custom indicator name
// from the token that follows "custom".
func parseProgressIndicator(s string) (progressIndicator, bool) {
	parts := strings.SplitN(s, ":", 2)
	switch strings.ToLower(parts[0]) {
	case "bar":
		return progressIndicator{kind: indicatorBar}, true
	case "block":
		return progressIndicator{kind: indicatorBlock}, true
	case "spinner":
		return progressIndicator{kind: indicatorSpinner}, true
	case "numeric":
		return progressIndicator{kind: indicatorNumeric}, true
	case "custom":
		if len(parts) > 1 {
			return progressIndicator{kind: indicatorCustom, customName: parts[1]}, true
		}
		return progressIndicator{}, false
	default:
		return progressIndicator{}, false
	}
}

type customIndicatorKind int

const (
	customDots customIndicatorKind = iota
	customBraille
	customGradient
)

func parseCustomIndicatorKind(s string) (customIndicatorKind, bool) {
	switch strings.ToLower(s) {
	case "dots":
		return customDots, true
	case "braille":
		return customBraille, true
	case "gradient":
		return customGradient, true
	default:
		return 0, false
	}
}

func customIndicatorVariants() []string { return []string{"dots", "braille", "gradient"} }

// colorName enumerates the ANSI colors {var:color:name} accepts, grounded
// on formatter.rs's ColorName.
type colorName int

const (
	colorBlack colorName = iota
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite
	colorReset
)

func parseColorName(s string) (colorName, bool) {
	switch strings.ToLower(s) {
	case "black":
		return colorBlack, true
	case "red":
		return colorRed, true
	case "green":
		return colorGreen, true
	case "yellow":
		return colorYellow, true
	case "blue":
		return colorBlue, true
	case "magenta":
		return colorMagenta, true
	case "cyan":
		return colorCyan, true
	case "white":
		return colorWhite, true
	case "reset":
		return colorReset, true
	default:
		return 0, false
	}
}

// ansiCode returns the ANSI escape sequence for a color, matching
// formatter.rs's crossterm_color -> ANSI literal mapping exactly (a
// from-scratch termenv.Color lookup would not reproduce the raw "\x1B[0m"
// reset-to-black-on-unknown quirk the original falls back to).
func (c colorName) ansiCode() string {
	switch c {
	case colorBlack:
		return "\x1B[30m"
	case colorRed:
		return "\x1B[31m"
	case colorGreen:
		return "\x1B[32m"
	case colorYellow:
		return "\x1B[33m"
	case colorBlue:
		return "\x1B[34m"
	case colorMagenta:
		return "\x1B[35m"
	case colorCyan:
		return "\x1B[36m"
	case colorWhite:
		return "\x1B[37m"
	case colorReset:
		return "\x1B[0m"
	default:
		return "\x1B[0m"
	}
}

func displayErr(operation, detail string) error {
	return progresserr.NewDisplayOperation(operation, "template", errString(detail))
}

type errString string

func (e errString) Error() string { return string(e) }

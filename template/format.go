package template

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// applyFormat dispatches a format token (format_parts[0]) to its renderer,
// grounded on formatter.rs's ProgressTemplate::apply_format.
func (t *Template) applyFormat(v Var, formatParts []string, ctx *Context) (string, bool, error) {
	if len(formatParts) == 0 {
		return v.AsString(), true, nil
	}
	switch formatParts[0] {
	case "bar":
		return t.formatBar(v, formatParts)
	case "percent":
		return t.formatPercent(v)
	case "ratio":
		return t.formatRatio(v, formatParts, ctx)
	case "pad", "lpad", "rpad":
		return t.formatPadding(v, formatParts[0], formatParts)
	case "color":
		return t.formatColor(v, formatParts)
	default:
		return v.AsString(), true, nil
	}
}

func (t *Template) formatBar(v Var, formatParts []string) (string, bool, error) {
	n, ok := v.IsNumber()
	if !ok {
		return "", false, displayErr("apply_format", "progress bar format requires a number")
	}
	progress := clamp01(n)

	indicator := progressIndicator{kind: indicatorBar}
	if len(formatParts) > 1 {
		if parsed, ok := parseProgressIndicator(formatParts[1]); ok {
			indicator = parsed
		} else if strings.EqualFold(formatParts[1], "custom") && len(formatParts) > 2 {
			// The tag was split on ':', so "custom:<name>" arrives as two tokens.
			indicator = progressIndicator{kind: indicatorCustom, customName: formatParts[2]}
		}
	}

	switch indicator.kind {
	case indicatorBar:
		return t.formatBarIndicator(progress, formatParts)
	case indicatorBlock:
		return t.formatBlockIndicator(progress, formatParts)
	case indicatorSpinner:
		return t.formatSpinnerIndicator(progress, formatParts)
	case indicatorNumeric:
		return t.formatNumericIndicator(progress, formatParts)
	case indicatorCustom:
		return t.formatCustomIndicator(indicator.customName, progress, formatParts)
	default:
		return t.formatBarIndicator(progress, formatParts)
	}
}

// formatBarIndicator renders "[====    ]". width/fill/bg come from
// formatParts[2]/[3]/[4] — note that when formatParts holds only
// ["bar", "<width>"] (e.g. the literal tag "{p:bar:10}"), index 2 is out of
// range and the width stays at its default, exactly as in formatter.rs: to
// actually override the width you must first name an indicator type, e.g.
// "{p:bar:bar:10}".
func (t *Template) formatBarIndicator(progress float64, formatParts []string) (string, bool, error) {
	width := 10
	if len(formatParts) > 2 {
		if w, err := strconv.Atoi(formatParts[2]); err == nil {
			width = w
		}
	}
	fillChar := '='
	if len(formatParts) > 3 {
		fillChar = firstRune(formatParts[3], '=')
	}
	bgChar := ' '
	if len(formatParts) > 4 {
		bgChar = firstRune(formatParts[4], ' ')
	}

	filled := int(math.Round(float64(width) * progress))
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteRune(fillChar)
		} else {
			b.WriteRune(bgChar)
		}
	}
	b.WriteByte(']')
	return b.String(), true, nil
}

func (t *Template) formatBlockIndicator(progress float64, formatParts []string) (string, bool, error) {
	width := 10
	if len(formatParts) > 2 {
		if w, err := strconv.Atoi(formatParts[2]); err == nil {
			width = w
		}
	}
	blockChars := defaultBlockChars()
	if len(formatParts) > 3 {
		blockChars = formatParts[3]
	}
	blocks := []rune(blockChars)
	if len(blocks) == 0 {
		return "", false, displayErr("format_block_indicator", "block indicator requires at least one character")
	}
	fillChar := blocks[0]
	bgChar := ' '
	if len(blocks) > 1 {
		bgChar = blocks[len(blocks)-1]
	}

	filled := int(math.Round(float64(width) * progress))
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteRune(fillChar)
		} else {
			b.WriteRune(bgChar)
		}
	}
	b.WriteByte(']')
	return b.String(), true, nil
}

func (t *Template) formatSpinnerIndicator(progress float64, formatParts []string) (string, bool, error) {
	var frames []rune
	if len(formatParts) > 2 {
		frames = []rune(formatParts[2])
	} else {
		frames = []rune(strings.Join(defaultSpinnerFrames(), ""))
	}
	if len(frames) == 0 {
		return "", false, displayErr("format_spinner_indicator", "spinner indicator requires at least one frame")
	}
	idx := int(math.Floor(progress*float64(len(frames)))) % len(frames)
	return string(frames[idx]), true, nil
}

func (t *Template) formatNumericIndicator(progress float64, formatParts []string) (string, bool, error) {
	percent := int(math.Round(progress * 100))
	includeSign := len(formatParts) <= 2 || formatParts[2] != "false"
	if includeSign {
		return fmt.Sprintf("%d%%", percent), true, nil
	}
	return fmt.Sprintf("%d", percent), true, nil
}

func (t *Template) formatPercent(v Var) (string, bool, error) {
	n, ok := v.IsNumber()
	if !ok {
		return "", false, displayErr("format_percent", "percentage format requires a number")
	}
	percent := int(math.Round(clamp01(n) * 100))
	return fmt.Sprintf("%d%%", percent), true, nil
}

func (t *Template) formatRatio(v Var, formatParts []string, ctx *Context) (string, bool, error) {
	n, ok := v.IsNumber()
	if !ok {
		return "", false, displayErr("format_ratio", "ratio format requires a number")
	}
	numerator := int(n)

	denominator := 100
	if len(formatParts) > 1 {
		if d, err := strconv.Atoi(formatParts[1]); err == nil {
			denominator = d
		} else if ctxVar, ok := ctx.Get(formatParts[1]); ok {
			if dn, ok := ctxVar.IsNumber(); ok {
				denominator = int(dn)
			}
		}
	}
	return fmt.Sprintf("%d/%d", numerator, denominator), true, nil
}

func (t *Template) formatPadding(v Var, format string, formatParts []string) (string, bool, error) {
	text := v.AsString()
	width := runewidth.StringWidth(text)
	if len(formatParts) > 1 {
		if w, err := strconv.Atoi(formatParts[1]); err == nil {
			width = w
		}
	}
	switch format {
	case "lpad":
		return padLeft(text, width), true, nil
	case "rpad":
		return padRight(text, width), true, nil
	default:
		return padCenter(text, width), true, nil
	}
}

func (t *Template) formatColor(v Var, formatParts []string) (string, bool, error) {
	text := v.AsString()
	if len(formatParts) < 2 {
		return "", false, displayErr("format_color", "color format requires a color name")
	}
	name := strings.TrimSpace(formatParts[1])
	color, ok := parseColorName(name)
	if !ok {
		return "", false, displayErr("format_color", fmt.Sprintf("unknown color: %s", name))
	}
	return fmt.Sprintf("%s%s\x1B[0m", color.ansiCode(), text), true, nil
}

func (t *Template) formatCustomIndicator(name string, progress float64, formatParts []string) (string, bool, error) {
	kind, ok := parseCustomIndicatorKind(name)
	if !ok {
		return "", false, displayErr("format_custom_indicator", fmt.Sprintf(
			"unknown custom indicator: %s. Valid options are: %s", name, strings.Join(customIndicatorVariants(), ", ")))
	}
	switch kind {
	case customDots:
		return t.formatDotsIndicator(progress, formatParts)
	case customBraille:
		return t.formatBrailleIndicator(progress, formatParts)
	default:
		return t.formatGradientIndicator(progress, formatParts)
	}
}

// formatDotsIndicator renders a braille fill-level bar, e.g. "⣿⣿⣿⣿⣄⠀⠀⠀"
// (width 8 at 55%).
func (t *Template) formatDotsIndicator(progress float64, formatParts []string) (string, bool, error) {
	width := widthAt(formatParts, 3, 10)
	dots := []rune("⠀⡀⣀⣄⣤⣦⣶⣾⣿")

	filled := int(math.Round(float64(width) * progress))
	partialFill := int(float64(width)*progress*8) % 8

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			b.WriteRune(dots[len(dots)-1])
		case i == filled && partialFill > 0:
			b.WriteRune(dots[partialFill])
		default:
			b.WriteRune(dots[0])
		}
	}
	return b.String(), true, nil
}

// formatBrailleIndicator renders a braille ramp bar, e.g. "⣿⣿⣿⣿⣿⠟⠄⠄⠄"
// (width 9 at 60%).
func (t *Template) formatBrailleIndicator(progress float64, formatParts []string) (string, bool, error) {
	width := widthAt(formatParts, 3, 10)
	full := '⣿'
	partial := []rune("⠿⠷⠯⠟⠻⠛⠙⠉")
	empty := '⠄'

	filled := int(math.Round(float64(width) * progress))
	partialFill := 0
	if filled < width {
		partialFill = int(float64(width)*progress*float64(len(partial))) % len(partial)
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			b.WriteRune(full)
		case i == filled && partialFill > 0:
			b.WriteRune(partial[partialFill])
		default:
			b.WriteRune(empty)
		}
	}
	return b.String(), true, nil
}

// formatGradientIndicator renders "[====    ]" with each filled cell
// colored along a two-color gradient (red/green by default).
func (t *Template) formatGradientIndicator(progress float64, formatParts []string) (string, bool, error) {
	width := widthAt(formatParts, 3, 10)
	startColor := gradientColorAt(formatParts, 4, colorRed)
	endColor := gradientColorAt(formatParts, 5, colorGreen)

	filled := int(math.Round(float64(width) * progress))
	denom := filled
	if denom == 0 {
		denom = 1
	}

	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < width; i++ {
		if i >= filled {
			b.WriteByte(' ')
			continue
		}
		colorPos := float64(i) / float64(denom)
		var color colorName
		switch {
		case startColor == colorRed && endColor == colorGreen:
			if colorPos < 0.5 {
				color = colorRed
			} else {
				color = colorGreen
			}
		case startColor == colorBlue && endColor == colorCyan:
			if colorPos < 0.5 {
				color = colorBlue
			} else {
				color = colorCyan
			}
		default:
			if colorPos < 0.5 {
				color = startColor
			} else {
				color = endColor
			}
		}
		fmt.Fprintf(&b, "%s=%s", color.ansiCode(), "\x1B[0m")
	}
	b.WriteByte(']')
	return b.String(), true, nil
}

func widthAt(formatParts []string, idx, def int) int {
	if len(formatParts) > idx {
		if w, err := strconv.Atoi(formatParts[idx]); err == nil {
			return w
		}
	}
	return def
}

func gradientColorAt(formatParts []string, idx int, def colorName) colorName {
	if len(formatParts) > idx {
		switch formatParts[idx] {
		case "red":
			return colorRed
		case "green":
			return colorGreen
		case "blue":
			return colorBlue
		case "yellow":
			return colorYellow
		case "magenta":
			return colorMagenta
		case "cyan":
			return colorCyan
		}
	}
	return def
}

func clamp01(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func firstRune(s string, def rune) rune {
	for _, r := range s {
		return r
	}
	return def
}

func padLeft(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

func padRight(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func padCenter(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	left := n / 2
	right := n - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

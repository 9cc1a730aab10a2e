package term

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TextWrapper wraps and truncates text at a target display width,
// grounded on terminal/text.rs's TextWrapper. It operates on grapheme
// clusters (via rivo/uniseg) rather than runes, so combining marks and
// multi-codepoint emoji are never split mid-cluster, and measures width
// with mattn/go-runewidth so CJK/fullwidth clusters count as two columns.
type TextWrapper struct {
	maxWidth         int
	breakLongWords   bool
	wordSeparators   map[rune]struct{}
	truncationMarker string
}

// NewTextWrapper returns a TextWrapper breaking lines at maxWidth columns,
// breaking overlong words by default.
func NewTextWrapper(maxWidth int) *TextWrapper {
	seps := map[rune]struct{}{}
	for _, r := range []rune{' ', '\t', '-', '_', ',', ';', ':', '!', '?', '.'} {
		seps[r] = struct{}{}
	}
	return &TextWrapper{
		maxWidth:         maxWidth,
		breakLongWords:   true,
		wordSeparators:   seps,
		truncationMarker: "…",
	}
}

// BreakLongWords controls whether words exceeding maxWidth are split
// across lines (true) or truncated with the truncation marker (false).
func (w *TextWrapper) BreakLongWords(v bool) *TextWrapper { w.breakLongWords = v; return w }

// TruncationMarker sets the string appended to a truncated line.
func (w *TextWrapper) TruncationMarker(marker string) *TextWrapper {
	w.truncationMarker = marker
	return w
}

// VisualWidth measures text's display width in terminal columns.
func (w *TextWrapper) VisualWidth(text string) int { return runewidth.StringWidth(text) }

// Wrap splits text into lines no wider than maxWidth, breaking at word
// separators where possible.
func (w *TextWrapper) Wrap(text string) []string {
	if text == "" {
		return []string{""}
	}
	if w.VisualWidth(text) <= w.maxWidth {
		return []string{text}
	}

	graphemes := splitGraphemes(text)
	var result []string
	var currentLine strings.Builder
	currentWidth := 0
	i := 0

	for i < len(graphemes) {
		word, wordWidth, consumed := w.nextWord(graphemes[i:])

		switch {
		case currentWidth+wordWidth <= w.maxWidth:
			currentLine.WriteString(word)
			currentWidth += wordWidth
			i += consumed
		case wordWidth > w.maxWidth && w.breakLongWords:
			first, remaining := w.breakWord(word, w.maxWidth-currentWidth)
			currentLine.WriteString(first)
			result = append(result, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(remaining)
			currentWidth = w.VisualWidth(remaining)
			i += consumed
		default:
			if currentLine.Len() > 0 {
				result = append(result, currentLine.String())
				currentLine.Reset()
				currentWidth = 0
			}
			if wordWidth > w.maxWidth && !w.breakLongWords {
				result = append(result, w.Truncate(word, w.maxWidth))
			} else {
				currentLine.WriteString(word)
				currentWidth = wordWidth
			}
			i += consumed
		}
	}

	if currentLine.Len() > 0 {
		result = append(result, currentLine.String())
	}
	return result
}

// Truncate shortens text to width columns, appending the truncation
// marker when it had to cut content.
func (w *TextWrapper) Truncate(text string, width int) string {
	if w.VisualWidth(text) <= width {
		return text
	}
	markerWidth := w.VisualWidth(w.truncationMarker)
	available := width - markerWidth
	if available < 0 {
		available = 0
	}

	var b strings.Builder
	current := 0
	for _, g := range splitGraphemes(text) {
		gw := w.VisualWidth(g)
		if current+gw > available {
			break
		}
		b.WriteString(g)
		current += gw
	}
	b.WriteString(w.truncationMarker)
	return b.String()
}

func (w *TextWrapper) nextWord(graphemes []string) (word string, width, consumed int) {
	if len(graphemes) == 0 {
		return "", 0, 0
	}
	first := firstRuneOf(graphemes[0])
	if _, isSep := w.wordSeparators[first]; isSep {
		return graphemes[0], w.VisualWidth(graphemes[0]), 1
	}
	end := 1
	for end < len(graphemes) {
		if _, isSep := w.wordSeparators[firstRuneOf(graphemes[end])]; isSep {
			break
		}
		end++
	}
	joined := strings.Join(graphemes[:end], "")
	return joined, w.VisualWidth(joined), end
}

func (w *TextWrapper) breakWord(word string, available int) (first, remaining string) {
	graphemes := splitGraphemes(word)
	var b strings.Builder
	width := 0
	i := 0
	for i < len(graphemes) && width < available {
		gw := w.VisualWidth(graphemes[i])
		if width+gw > available {
			break
		}
		b.WriteString(graphemes[i])
		width += gw
		i++
	}
	return b.String(), strings.Join(graphemes[i:], "")
}

func splitGraphemes(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

func firstRuneOf(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

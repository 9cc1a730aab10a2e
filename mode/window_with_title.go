package mode

import (
	"strings"

	"github.com/flowterm/progress/jobstate"
	"github.com/flowterm/progress/progresserr"
)

// WindowWithTitle reserves its first visible line for a title (optionally
// prefixed with emoji markers) and behaves like Window(N-1) for the rest.
// Requires N >= 2.
type WindowWithTitle struct {
	wb     *windowBase
	title  string
	emojis []string
}

// NewWindowWithTitle constructs a WindowWithTitle mode. maxLines must be >= 2.
func NewWindowWithTitle(totalJobs uint64, maxLines int, title string) (*WindowWithTitle, error) {
	if maxLines < 2 {
		return nil, &progresserr.InvalidWindowSize{
			Size: maxLines, MinSize: 2, ModeName: "window_with_title",
			Reason: "window_with_title requires at least 2 lines (title + content)",
		}
	}
	if title == "" {
		return nil, &progresserr.MissingParameter{
			ParamName: "title", ModeName: "window_with_title",
			Reason: "a title must be supplied",
		}
	}
	wb, err := newWindowBase(totalJobs, maxLines-1, "window_with_title")
	if err != nil {
		return nil, err
	}
	return &WindowWithTitle{wb: wb, title: title}, nil
}

func (w *WindowWithTitle) BaseConfig() *jobstate.Base { return &w.wb.base }

func (w *WindowWithTitle) LinesToDisplay() int { return w.wb.maxLinesValue() + 1 }

func (w *WindowWithTitle) HandleMessage(message string) []string {
	w.wb.addMessage(message)
	return w.GetLines()
}

func (w *WindowWithTitle) GetLines() []string {
	lines := make([]string, 0, w.wb.maxLinesValue()+1)
	lines = append(lines, w.GetFormattedTitle())
	lines = append(lines, w.wb.getLines()...)
	return lines
}

func (w *WindowWithTitle) Clone() ThreadConfig {
	cp := *w.wb
	cp.lines = append([]string(nil), w.wb.lines...)
	cp.threadBuffers = map[string][]string{}
	for k, v := range w.wb.threadBuffers {
		cp.threadBuffers[k] = append([]string(nil), v...)
	}
	return &WindowWithTitle{wb: &cp, title: w.title, emojis: append([]string(nil), w.emojis...)}
}

func (w *WindowWithTitle) SetMaxLines(maxLines int) error {
	if maxLines < 2 {
		return &progresserr.InvalidWindowSize{
			Size: maxLines, MinSize: 2, ModeName: "window_with_title",
			Reason: "window_with_title requires at least 2 lines (title + content)",
		}
	}
	nb, err := newWindowBase(w.wb.base.GetTotalJobs(), maxLines-1, "window_with_title")
	if err != nil {
		return err
	}
	w.wb = nb
	return nil
}

func (w *WindowWithTitle) GetMaxLines() int { return w.wb.maxLinesValue() + 1 }

func (w *WindowWithTitle) Clear()               { w.wb.clear() }
func (w *WindowWithTitle) GetContent() []string  { return w.wb.getLines() }
func (w *WindowWithTitle) AddLine(line string)   { w.wb.addMessage(line) }
func (w *WindowWithTitle) IsEmpty() bool         { return w.wb.isEmpty() }
func (w *WindowWithTitle) LineCount() int        { return w.wb.lineCount() }
func (w *WindowWithTitle) SetLineWrapping(b bool) { w.wb.setLineWrapping(b) }
func (w *WindowWithTitle) HasLineWrapping() bool  { return w.wb.hasLineWrapping() }

func (w *WindowWithTitle) SetTitle(title string) error {
	if err := invalidTitle(title, "window_with_title"); err != nil {
		return err
	}
	w.title = title
	return nil
}

func (w *WindowWithTitle) GetTitle() string { return w.title }

func (w *WindowWithTitle) AddEmoji(emoji string) error {
	if emoji == "" {
		return &progresserr.ValidationError{
			ModeName: "window_with_title", Rule: "non_empty_emoji", Value: emoji,
			Reason: "emoji must not be empty",
		}
	}
	w.emojis = append(w.emojis, emoji)
	return nil
}

func (w *WindowWithTitle) GetEmojis() []string {
	out := make([]string, len(w.emojis))
	copy(out, w.emojis)
	return out
}

func (w *WindowWithTitle) SetTitleWithEmoji(title, emoji string) error {
	if err := w.SetTitle(title); err != nil {
		return err
	}
	return w.AddEmoji(emoji)
}

func (w *WindowWithTitle) ResetWithTitle(title string) error {
	w.emojis = nil
	return w.SetTitle(title)
}

func (w *WindowWithTitle) GetFormattedTitle() string {
	if len(w.emojis) == 0 {
		return w.title
	}
	return strings.Join(w.emojis, " ") + " " + w.title
}

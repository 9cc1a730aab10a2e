package mode

import "github.com/flowterm/progress/jobstate"

// Window is the scrolling-window display mode: the last N lines are shown,
// oldest evicted first. Requires N >= 1.
type Window struct {
	wb *windowBase
}

// NewWindow constructs a Window mode with maxLines >= 1 visible rows.
func NewWindow(totalJobs uint64, maxLines int) (*Window, error) {
	wb, err := newWindowBase(totalJobs, maxLines, "window")
	if err != nil {
		return nil, err
	}
	return &Window{wb: wb}, nil
}

func (w *Window) BaseConfig() *jobstate.Base { return &w.wb.base }

func (w *Window) LinesToDisplay() int { return w.wb.maxLinesValue() }

func (w *Window) HandleMessage(message string) []string {
	w.wb.addMessage(message)
	return w.wb.getLines()
}

func (w *Window) GetLines() []string { return w.wb.getLines() }

func (w *Window) Clone() ThreadConfig {
	cp := *w.wb
	cp.lines = append([]string(nil), w.wb.lines...)
	cp.threadBuffers = map[string][]string{}
	for k, v := range w.wb.threadBuffers {
		cp.threadBuffers[k] = append([]string(nil), v...)
	}
	return &Window{wb: &cp}
}

func (w *Window) SetMaxLines(maxLines int) error {
	nb, err := newWindowBase(w.wb.base.GetTotalJobs(), maxLines, "window")
	if err != nil {
		return err
	}
	w.wb = nb
	return nil
}

func (w *Window) GetMaxLines() int { return w.wb.maxLinesValue() }

func (w *Window) Clear()                { w.wb.clear() }
func (w *Window) GetContent() []string  { return w.wb.getLines() }
func (w *Window) AddLine(line string)   { w.wb.addMessage(line) }
func (w *Window) IsEmpty() bool         { return w.wb.isEmpty() }
func (w *Window) LineCount() int        { return w.wb.lineCount() }
func (w *Window) SetLineWrapping(b bool) { w.wb.setLineWrapping(b) }
func (w *Window) HasLineWrapping() bool  { return w.wb.hasLineWrapping() }

package mode

import "github.com/flowterm/progress/jobstate"

// Limited is the single-line display mode: every message replaces the
// previous line. It optionally tees raw output to a passthrough sink.
type Limited struct {
	base           jobstate.Base
	currentLine    string
	passthrough    bool
	passthroughSink func(string)
}

// NewLimited constructs a Limited mode tracking totalJobs units of work.
func NewLimited(totalJobs uint64, passthrough bool) *Limited {
	return &Limited{base: *jobstate.NewBase(totalJobs), passthrough: passthrough}
}

func (l *Limited) BaseConfig() *jobstate.Base { return &l.base }

func (l *Limited) LinesToDisplay() int { return 1 }

func (l *Limited) HandleMessage(message string) []string {
	l.currentLine = message
	if l.passthrough && l.passthroughSink != nil {
		l.passthroughSink(message)
	}
	return l.GetLines()
}

func (l *Limited) GetLines() []string {
	if l.currentLine == "" {
		return nil
	}
	return []string{l.currentLine}
}

func (l *Limited) Clone() ThreadConfig {
	clone := *l
	return &clone
}

// SetPassthroughSink installs the sink invoked on every message when
// passthrough is enabled. nil disables the side effect without disabling
// the flag itself.
func (l *Limited) SetPassthroughSink(sink func(string)) { l.passthroughSink = sink }

func (l *Limited) SetPassthrough(enabled bool) { l.passthrough = enabled }
func (l *Limited) HasPassthrough() bool        { return l.passthrough }

package mode

import "github.com/flowterm/progress/jobstate"

// Capturing is the silent-capture mode: it records every message but never
// contributes a line to the rendered view (lines_to_display is 0).
type Capturing struct {
	base   jobstate.Base
	buffer []string
}

// NewCapturing constructs a Capturing mode tracking totalJobs units of work.
func NewCapturing(totalJobs uint64) *Capturing {
	return &Capturing{base: *jobstate.NewBase(totalJobs)}
}

func (c *Capturing) BaseConfig() *jobstate.Base { return &c.base }

func (c *Capturing) LinesToDisplay() int { return 0 }

func (c *Capturing) HandleMessage(message string) []string {
	c.buffer = append(c.buffer, message)
	return nil
}

func (c *Capturing) GetLines() []string { return nil }

// Captured returns every message recorded so far.
func (c *Capturing) Captured() []string {
	out := make([]string, len(c.buffer))
	copy(out, c.buffer)
	return out
}

func (c *Capturing) Clone() ThreadConfig {
	clone := *c
	clone.buffer = append([]string(nil), c.buffer...)
	return &clone
}

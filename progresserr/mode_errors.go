package progresserr

import (
	"fmt"
	"strings"
)

// ModeCreationError is returned by the mode registry/factory when a mode
// cannot be validated or constructed. It is a sealed-style interface
// implemented by the five variants below, mirroring the original crate's
// ModeCreationError enum.
type ModeCreationError interface {
	error
	modeCreationError()
}

// InvalidWindowSize is returned when a window-style mode is given a size
// below its minimum.
type InvalidWindowSize struct {
	Size, MinSize int
	ModeName      string
	Reason        string
}

func (e *InvalidWindowSize) Error() string {
	msg := fmt.Sprintf("invalid window size %d for mode %q (minimum %d)", e.Size, e.ModeName, e.MinSize)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
func (*InvalidWindowSize) modeCreationError() {}

// MissingParameter is returned when a required construction parameter is
// absent.
type MissingParameter struct {
	ParamName, ModeName, Reason string
}

func (e *MissingParameter) Error() string {
	return fmt.Sprintf("missing parameter %q for mode %q: %s", e.ParamName, e.ModeName, e.Reason)
}
func (*MissingParameter) modeCreationError() {}

// ValidationError is returned when a parameter fails a mode-specific rule.
type ValidationError struct {
	ModeName, Rule, Value, Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("mode %q failed validation rule %q (value %q): %s", e.ModeName, e.Rule, e.Value, e.Reason)
}
func (*ValidationError) modeCreationError() {}

// ModeNotRegistered is returned when a mode name has no registered creator.
// Available lists the names that were registered at lookup time, so callers
// can suggest a correction instead of just reporting the miss.
type ModeNotRegistered struct {
	ModeName  string
	Available []string
}

func (e *ModeNotRegistered) Error() string {
	return fmt.Sprintf("no creator registered for mode %q (available: %s)", e.ModeName, strings.Join(e.Available, ", "))
}
func (*ModeNotRegistered) modeCreationError() {}

// Implementation is returned for internal invariant violations in a
// ModeCreator's implementation.
type Implementation struct {
	ModeName, Reason string
}

func (e *Implementation) Error() string {
	return fmt.Sprintf("mode %q implementation error: %s", e.ModeName, e.Reason)
}
func (*Implementation) modeCreationError() {}

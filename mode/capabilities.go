// Package mode implements the capability-based display-region engine: the
// four Mode variants, their optional capability mixins, and the
// registry/factory that validates parameters and applies fallbacks.
package mode

import "github.com/flowterm/progress/progresserr"

// ThreadConfig is what the renderer loop needs from every mode: how many
// lines it wants to occupy, how it reacts to a new message, and its current
// visible lines.
type ThreadConfig interface {
	LinesToDisplay() int
	HandleMessage(message string) []string
	GetLines() []string
	Clone() ThreadConfig
}

// WithTitle is an optional capability: modes that can show a title.
type WithTitle interface {
	SetTitle(title string) error
	GetTitle() string
}

// WithCustomSize is an optional capability: modes whose visible line count
// can be resized after construction.
type WithCustomSize interface {
	SetMaxLines(maxLines int) error
	GetMaxLines() int
}

// WithEmoji is an optional capability: modes that can carry emoji markers.
type WithEmoji interface {
	AddEmoji(emoji string) error
	GetEmojis() []string
}

// WithTitleAndEmoji combines WithTitle and WithEmoji, supplementing the
// spec's Capabilities table with the original crate's combined-capability
// convenience methods.
type WithTitleAndEmoji interface {
	WithTitle
	WithEmoji
	SetTitleWithEmoji(title, emoji string) error
	ResetWithTitle(title string) error
	GetFormattedTitle() string
}

// StandardWindow is an optional capability: modes with line-buffer
// semantics (clear/add/inspect).
type StandardWindow interface {
	WithCustomSize
	Clear()
	GetContent() []string
	AddLine(line string)
	IsEmpty() bool
	LineCount() int
}

// WithWrappedText is an optional capability: modes that can wrap long
// lines to a fixed width instead of truncating the window.
type WithWrappedText interface {
	SetLineWrapping(enabled bool)
	HasLineWrapping() bool
}

// Capability enumerates the optional features a mode may support, used for
// runtime feature probing through Config (see config.go).
type Capability int

const (
	CapabilityTitle Capability = iota
	CapabilityCustomSize
	CapabilityEmoji
	CapabilityTitleAndEmoji
	CapabilityStandardWindow
	CapabilityWrappedText
	CapabilityProgress
)

// invalidTitle is a small helper shared by WindowWithTitle's two capability
// implementations to keep the empty-title rejection in one place.
func invalidTitle(title, modeName string) error {
	if title == "" {
		return &progresserr.ValidationError{
			ModeName: modeName,
			Rule:     "non_empty_title",
			Value:    title,
			Reason:   "title must not be empty",
		}
	}
	return nil
}

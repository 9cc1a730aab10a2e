package mode

import "github.com/flowterm/progress/jobstate"

// Config is a type-erased handle around a concrete ThreadConfig, offering
// capability dispatch via type assertion instead of the original crate's
// as_any/downcast_ref pattern — the Go-idiomatic replacement spec.md §9
// calls for.
type Config struct {
	inner ThreadConfig
}

// NewConfig wraps a concrete mode value.
func NewConfig(inner ThreadConfig) *Config { return &Config{inner: inner} }

// Inner returns the wrapped ThreadConfig.
func (c *Config) Inner() ThreadConfig { return c.inner }

// LinesToDisplay delegates to the wrapped mode.
func (c *Config) LinesToDisplay() int { return c.inner.LinesToDisplay() }

// HandleMessage delegates to the wrapped mode.
func (c *Config) HandleMessage(message string) []string { return c.inner.HandleMessage(message) }

// GetLines delegates to the wrapped mode.
func (c *Config) GetLines() []string { return c.inner.GetLines() }

// Clone returns a Config wrapping a structural clone of the inner mode, for
// snapshotting into a ThreadMessage.
func (c *Config) Clone() *Config { return &Config{inner: c.inner.Clone()} }

// BaseConfig returns the embedded jobstate.Base if the wrapped mode exposes
// one (every standard mode does).
func (c *Config) BaseConfig() (*jobstate.Base, bool) {
	if hb, ok := c.inner.(jobstate.HasBase); ok {
		return hb.BaseConfig(), true
	}
	return nil, false
}

// Supports reports whether the wrapped mode implements the given capability.
func (c *Config) Supports(cap Capability) bool {
	switch cap {
	case CapabilityTitle:
		_, ok := c.inner.(WithTitle)
		return ok
	case CapabilityCustomSize:
		_, ok := c.inner.(WithCustomSize)
		return ok
	case CapabilityEmoji:
		_, ok := c.inner.(WithEmoji)
		return ok
	case CapabilityTitleAndEmoji:
		_, ok := c.inner.(WithTitleAndEmoji)
		return ok
	case CapabilityStandardWindow:
		_, ok := c.inner.(StandardWindow)
		return ok
	case CapabilityWrappedText:
		_, ok := c.inner.(WithWrappedText)
		return ok
	case CapabilityProgress:
		_, ok := c.inner.(jobstate.HasBase)
		return ok
	default:
		return false
	}
}

// AsTitle returns the wrapped mode as a WithTitle, if supported.
func (c *Config) AsTitle() (WithTitle, bool) { t, ok := c.inner.(WithTitle); return t, ok }

// AsCustomSize returns the wrapped mode as a WithCustomSize, if supported.
func (c *Config) AsCustomSize() (WithCustomSize, bool) {
	t, ok := c.inner.(WithCustomSize)
	return t, ok
}

// AsEmoji returns the wrapped mode as a WithEmoji, if supported.
func (c *Config) AsEmoji() (WithEmoji, bool) { t, ok := c.inner.(WithEmoji); return t, ok }

// AsTitleAndEmoji returns the wrapped mode as a WithTitleAndEmoji, if supported.
func (c *Config) AsTitleAndEmoji() (WithTitleAndEmoji, bool) {
	t, ok := c.inner.(WithTitleAndEmoji)
	return t, ok
}

// AsStandardWindow returns the wrapped mode as a StandardWindow, if supported.
func (c *Config) AsStandardWindow() (StandardWindow, bool) {
	t, ok := c.inner.(StandardWindow)
	return t, ok
}

// AsWrappedText returns the wrapped mode as a WithWrappedText, if supported.
func (c *Config) AsWrappedText() (WithWrappedText, bool) {
	t, ok := c.inner.(WithWrappedText)
	return t, ok
}

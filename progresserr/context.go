// Package progresserr defines the typed error taxonomy raised by the mode
// engine and the display pipeline, each carrying an ErrorContext describing
// where and why it happened.
package progresserr

import "github.com/samber/oops"

// ErrorContext enriches a typed error with where it happened.
type ErrorContext struct {
	Operation string
	Component string
	ThreadID  *uint64
	Details   map[string]string
}

func newContext(operation, component string) ErrorContext {
	return ErrorContext{Operation: operation, Component: component}
}

// WithThreadID attaches a thread id to the context and returns it.
func (c ErrorContext) WithThreadID(id uint64) ErrorContext {
	c.ThreadID = &id
	return c
}

// WithDetail attaches a key/value detail and returns the context.
func (c ErrorContext) WithDetail(key, value string) ErrorContext {
	if c.Details == nil {
		c.Details = map[string]string{}
	}
	c.Details[key] = value
	return c
}

// oopsBuilder renders an ErrorContext into an oops error builder carrying
// the same structured fields, so wrapped causes keep operation/component/
// thread-id tagging when logged or reported upstream.
func (c ErrorContext) oopsBuilder() oops.OopsErrorBuilder {
	b := oops.In(c.Component).With("operation", c.Operation)
	if c.ThreadID != nil {
		b = b.With("thread_id", *c.ThreadID)
	}
	for k, v := range c.Details {
		b = b.With(k, v)
	}
	return b
}

// Wrap decorates cause with the given ErrorContext using samber/oops, for
// the cases where a typed error variant isn't specific enough (e.g.
// passthrough errors from an external Writer).
func Wrap(cause error, operation, component string) error {
	return newContext(operation, component).oopsBuilder().Wrap(cause)
}

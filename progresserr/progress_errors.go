package progresserr

import "fmt"

// ProgressError is raised by the display/renderer pipeline once modes have
// already been constructed (as opposed to ModeCreationError, which is
// raised during construction).
type ProgressError interface {
	error
	progressError()
}

// DisplayOperation wraps a failure in the renderer loop (draw, clear, flush).
type DisplayOperation struct {
	Context ErrorContext
	Cause   error
}

func (e *DisplayOperation) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("display operation %q failed: %v", e.Context.Operation, e.Cause)
	}
	return fmt.Sprintf("display operation %q failed", e.Context.Operation)
}
func (e *DisplayOperation) Unwrap() error { return e.Cause }
func (*DisplayOperation) progressError()  {}

// TaskOperation wraps a failure tied to a specific task (capture, pause,
// cancel, dependency resolution).
type TaskOperation struct {
	Context ErrorContext
	Cause   error
}

func (e *TaskOperation) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("task operation %q failed: %v", e.Context.Operation, e.Cause)
	}
	return fmt.Sprintf("task operation %q failed", e.Context.Operation)
}
func (e *TaskOperation) Unwrap() error { return e.Cause }
func (*TaskOperation) progressError()  {}

// NewDisplayOperation builds a DisplayOperation error with context.
func NewDisplayOperation(operation, component string, cause error) *DisplayOperation {
	return &DisplayOperation{Context: newContext(operation, component), Cause: cause}
}

// NewTaskOperation builds a TaskOperation error with context.
func NewTaskOperation(operation, component string, threadID uint64, cause error) *TaskOperation {
	return &TaskOperation{Context: newContext(operation, component).WithThreadID(threadID), Cause: cause}
}

// Package task implements the concurrent task pipeline: admission-controlled
// execution of named units of work, each driving a mode.Config that a single
// renderer goroutine paints to the terminal. Grounded on clicky's task
// package (Task/Manager/worker/render structure) and thread.rs's
// ThreadManager/ThreadContext (admission waiting, retry, cancellation).
package task

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/flanksource/commons/logger"
	"github.com/google/uuid"

	"github.com/flowterm/progress/jobstate"
	"github.com/flowterm/progress/mode"
)

// Waitable is satisfied by anything a caller can block on for completion,
// whether a single Task or a Group of them.
type Waitable interface {
	WaitFor() *WaitResult
	GetTask() *Task
}

// Taskable is the common surface Group.Items holds: either a *Task or a
// nested *Group, both reducible to a representative *Task for status
// aggregation.
type Taskable interface {
	GetTask() *Task
	IsGroup() bool
}

// WaitResult summarizes the outcome of waiting on a Task or Group.
type WaitResult struct {
	Status       jobstate.Status
	Duration     time.Duration
	Error        error
	TaskCount    int
	SuccessCount int
	FailureCount int
}

// LogEntry records one line a task logged during execution.
type LogEntry struct {
	Level   logger.LogLevel
	Message string
	Time    time.Time
}

// RetryConfig controls how a failed task is retried.
type RetryConfig struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	JitterFactor    float64
	RetryableErrors []string
}

// DefaultRetryConfig returns a config with no automatic retries: callers
// opt in via WithRetryConfig.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      0,
		BaseDelay:       500 * time.Millisecond,
		MaxDelay:        30 * time.Second,
		BackoffFactor:   2.0,
		JitterFactor:    0.2,
		RetryableErrors: []string{"timeout", "connection reset", "temporarily unavailable"},
	}
}

// TaskFunc is the body a typed task runs.
type TaskFunc[T any] func(flanksourceContext.Context, *Task) (T, error)

// TaskResult pairs a typed value with the error from producing it.
type TaskResult[T any] struct {
	Value T
	Err   error
}

// Task tracks one unit of concurrent work: its mode.Config (progress state
// and rendering), lifecycle bookkeeping, retry policy, and dependencies on
// other tasks.
type Task struct {
	mu sync.Mutex

	id       string
	name     string
	identity string

	config *mode.Config

	dirty atomic.Bool

	startTime time.Time
	endTime   time.Time

	manager *Manager

	logs []LogEntry

	ctx            context.Context
	cancel         context.CancelFunc
	flanksourceCtx flanksourceContext.Context

	timeout     time.Duration
	taskTimeout time.Duration

	runFunc func(flanksourceContext.Context, *Task) error

	err error

	retryConfig RetryConfig
	retryCount  int

	parent *Group

	doneChan chan struct{}
	doneOnce sync.Once

	dependencies []*Task
	completed    atomic.Bool

	priority   int
	enqueuedAt time.Time

	result     interface{}
	resultType reflect.Type
}

// newTask allocates a Task bound to manager, with its progress state created
// via the manager's mode factory. params.TotalJobs defaults to 1 when zero so
// a task with no known unit count still renders as indeterminate-but-alive
// rather than permanently-at-0%.
func newTask(manager *Manager, name string, params mode.Parameters, opts ...Option) (*Task, error) {
	if params.TotalJobs == 0 {
		params.TotalJobs = 1
	}
	cfg, err := manager.factory.CreateDefault(params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()

	t := &Task{
		id:          uuid.NewString(),
		name:        name,
		config:      mode.NewConfig(cfg),
		manager:     manager,
		ctx:         ctx,
		cancel:      cancel,
		retryConfig: manager.retryConfig,
		doneChan:    make(chan struct{}),
		enqueuedAt:  now,
		startTime:   now,
	}
	t.flanksourceCtx = flanksourceContext.NewContext(t.ctx)

	for _, opt := range opts {
		opt(t)
	}

	if t.timeout > 0 {
		timeoutCtx, timeoutCancel := context.WithTimeout(ctx, t.timeout)
		t.ctx = timeoutCtx
		t.flanksourceCtx = flanksourceContext.NewContext(timeoutCtx)
		originalCancel := t.cancel
		t.cancel = func() {
			timeoutCancel()
			originalCancel()
		}
	}

	return t, nil
}

// Config returns the task's mode.Config, exposing progress/line state to the
// renderer.
func (t *Task) Config() *mode.Config { return t.config }

// GetTask satisfies Taskable for a bare Task.
func (t *Task) GetTask() *Task { return t }

// Identity returns the task's stable identifier, set by WithIdentity or
// defaulted to its internal ID (a UUID assigned at creation).
func (t *Task) Identity() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.identity != "" {
		return t.identity
	}
	return t.id
}

// ID returns the task's immutable internal identifier, assigned once at
// creation regardless of any explicit WithIdentity.
func (t *Task) ID() string { return t.id }

// Context returns the context the task's function runs under.
func (t *Task) Context() context.Context { return t.ctx }

// FlanksourceContext returns the wrapped commons context passed to runFunc.
func (t *Task) FlanksourceContext() flanksourceContext.Context { return t.flanksourceCtx }

// Cancel cancels the task's context and marks its progress state cancelled.
func (t *Task) Cancel() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.mu.Unlock()
	if base, ok := t.config.BaseConfig(); ok {
		base.SetCancelled("cancelled by caller")
	}
}

func (t *Task) signalDone() {
	t.doneOnce.Do(func() { close(t.doneChan) })
}

// markDirty flags the task as having unrendered changes and wakes the
// manager's render loop.
func (t *Task) markDirty() {
	t.dirty.Store(true)
	if t.manager != nil {
		t.manager.markDirty()
	}
}

func (t *Task) log(level logger.LogLevel, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.mu.Lock()
	t.logs = append(t.logs, LogEntry{Level: level, Message: message, Time: time.Now()})
	t.mu.Unlock()
	t.config.HandleMessage(message)
	t.markDirty()
}

func (t *Task) Debugf(format string, args ...interface{}) { t.log(logger.Debug, format, args...) }
func (t *Task) Infof(format string, args ...interface{})  { t.log(logger.Info, format, args...) }
func (t *Task) Warnf(format string, args ...interface{})  { t.log(logger.Warn, format, args...) }
func (t *Task) Errorf(format string, args ...interface{}) { t.log(logger.Error, format, args...) }

// PopDirty reports and clears whether the task has unrendered changes.
func (t *Task) PopDirty() bool { return t.dirty.Swap(false) }

// SetName changes the task's display name.
func (t *Task) SetName(name string) {
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
	t.markDirty()
}

// Name returns the task's display name.
func (t *Task) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// SetStatus transitions the task's underlying progress status, stamping
// endTime and releasing its context on any terminal state.
func (t *Task) SetStatus(status jobstate.Status) {
	base, ok := t.config.BaseConfig()
	if !ok {
		return
	}
	base.SetStatus(status)

	switch status {
	case jobstate.StatusCompleted, jobstate.StatusFailed:
		t.mu.Lock()
		t.endTime = time.Now()
		if t.cancel != nil {
			t.cancel()
			t.cancel = nil
		}
		t.mu.Unlock()
	}
	t.markDirty()
}

// SetProgress overwrites the completed-units counter.
func (t *Task) SetProgress(completed, total uint64) {
	if base, ok := t.config.BaseConfig(); ok {
		base.SetTotalJobs(total)
		base.SetCompletedJobs(completed)
	}
	t.markDirty()
}

// Success marks the task completed.
func (t *Task) Success() *Task {
	if base, ok := t.config.BaseConfig(); ok {
		base.MarkCompleted()
	}
	t.SetStatus(jobstate.StatusCompleted)
	return t
}

// Failed marks the task failed with no recorded error.
func (t *Task) Failed() *Task {
	t.SetStatus(jobstate.StatusFailed)
	return t
}

// FailedWithError marks the task failed, records err in its logs, and
// returns both for convenient propagation.
func (t *Task) FailedWithError(err error) (*Task, error) {
	t.Errorf("%s", err.Error())
	if base, ok := t.config.BaseConfig(); ok {
		base.MarkFailed(err.Error())
	}
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	t.SetStatus(jobstate.StatusFailed)
	return t, err
}

// Fatal marks the task failed and immediately stops the owning manager's
// render loop and exits the process, mirroring how an unrecoverable task
// error should halt an interactive display rather than leave it spinning.
func (t *Task) Fatal(err error) {
	t.mu.Lock()
	t.err = err
	name := t.name
	t.mu.Unlock()
	t.SetStatus(jobstate.StatusFailed)

	if t.manager != nil {
		t.manager.stopRendering()
	}
	logger.Fatalf("Fatal: %s: %v", name, err)
}

// Error returns the task's recorded error, if any.
func (t *Task) Error() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// IsOk reports whether the task completed without error.
func (t *Task) IsOk() bool {
	return t.Error() == nil && t.Status() == jobstate.StatusCompleted
}

// Status returns the task's current lifecycle status.
func (t *Task) Status() jobstate.Status {
	base, ok := t.config.BaseConfig()
	if !ok {
		return jobstate.StatusPending
	}
	return base.GetStatus()
}

// StartTime returns when the task began executing.
func (t *Task) StartTime() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startTime
}

// Duration returns how long the task has been (or was) running.
func (t *Task) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.startTime.IsZero() {
		return 0
	}
	end := t.endTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(t.startTime)
}

// IsGroup reports false: a bare Task is never a Group.
func (t *Task) IsGroup() bool { return false }

// WaitFor blocks until the task finishes, is cancelled, or times out after
// 30 seconds, then returns a summary of the outcome.
func (t *Task) WaitFor() *WaitResult {
	select {
	case <-t.doneChan:
	case <-t.ctx.Done():
		if t.Status() == jobstate.StatusRunning || t.Status() == jobstate.StatusPending {
			t.SetStatus(jobstate.StatusFailed)
		}
	case <-time.After(30 * time.Second):
		if t.Status() == jobstate.StatusRunning || t.Status() == jobstate.StatusPending {
			t.mu.Lock()
			t.err = fmt.Errorf("task wait timeout after 30 seconds")
			t.mu.Unlock()
			t.SetStatus(jobstate.StatusFailed)
		}
	}

	status := t.Status()
	result := &WaitResult{
		Status:    status,
		Duration:  t.Duration(),
		Error:     t.Error(),
		TaskCount: 1,
	}
	switch status {
	case jobstate.StatusCompleted:
		result.SuccessCount = 1
	case jobstate.StatusFailed:
		result.FailureCount = 1
	}
	return result
}

// GetResult returns the stored result value and error.
func (t *Task) GetResult() (interface{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// SetResult stores an arbitrary result value on the task.
func (t *Task) SetResult(result interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = result
	if result != nil {
		t.resultType = reflect.TypeOf(result)
	}
}

// GetTypedResult copies the stored result into target, which must be a
// pointer of an assignable type.
func (t *Task) GetTypedResult(target interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil {
		return t.err
	}
	if t.result == nil {
		return nil
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}
	resultValue := reflect.ValueOf(t.result)
	targetElement := targetValue.Elem()
	if !resultValue.Type().AssignableTo(targetElement.Type()) {
		return fmt.Errorf("result type %s cannot be assigned to target type %s", resultValue.Type(), targetElement.Type())
	}
	targetElement.Set(resultValue)
	return nil
}

// TypedTask wraps a Task with a phantom result type so GetResult can return
// T directly instead of interface{}.
type TypedTask[T any] struct {
	*Task
}

// GetResult returns the task's typed result.
func (t TypedTask[T]) GetResult() (T, error) {
	var zero T
	raw, err := t.Task.GetResult()
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("result type %T is not assignable to %T", raw, zero)
	}
	return v, nil
}

// StartTask runs fn in the default manager's pool under name and returns a
// handle typed to fn's result.
func StartTask[T any](name string, fn TaskFunc[T], opts ...Option) TypedTask[T] {
	t, err := Global.StartWithResult(name, func(ctx flanksourceContext.Context, task *Task) (interface{}, error) {
		return fn(ctx, task)
	}, opts...)
	if err != nil {
		t = failedTask(Global, name, err)
	}
	return TypedTask[T]{t}
}

// failedTask builds a Task that is already in a terminal failed state, for
// callers that need a valid, fully wired Task (config included) to return
// even when creation itself rejected the request (e.g. an invalid mode
// parameter) rather than the task's own runFunc failing.
func failedTask(manager *Manager, name string, err error) *Task {
	t, buildErr := newTask(manager, name, mode.Parameters{})
	if buildErr != nil {
		panic(fmt.Sprintf("task: could not build fallback task for %q: %v", name, buildErr))
	}
	t.name = name
	t.err = err
	t.SetStatus(jobstate.StatusFailed)
	t.signalDone()
	return t
}

package task

import (
	"flag"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/spf13/pflag"
)

// Option configures a Task at creation time.
type Option func(*Task)

// WithTimeout cancels the task's whole lifetime (queue wait included) after
// d.
func WithTimeout(d time.Duration) Option {
	return func(t *Task) { t.timeout = d }
}

// WithTaskTimeout bounds only the execution of runFunc, applied once the
// task is dequeued rather than from creation.
func WithTaskTimeout(d time.Duration) Option {
	return func(t *Task) { t.taskTimeout = d }
}

// WithDependencies makes the task wait for deps to complete (successfully)
// before it becomes eligible to run.
func WithDependencies(deps ...*Task) Option {
	return func(t *Task) {
		if t != nil {
			t.dependencies = append(t.dependencies, deps...)
		}
	}
}

// WithFunc sets the function the task executes.
func WithFunc(fn func(flanksourceContext.Context, *Task) error) Option {
	return func(t *Task) { t.runFunc = fn }
}

// WithIdentity sets a stable identifier distinct from the display name, used
// for dedup lookups in the manager.
func WithIdentity(identity string) Option {
	return func(t *Task) { t.identity = identity }
}

// WithTotal sets the number of work units the task's progress is measured
// against.
func WithTotal(total uint64) Option {
	return func(t *Task) {
		if base, ok := t.config.BaseConfig(); ok {
			base.SetTotalJobs(total)
		}
	}
}

// WithRetryConfig overrides the manager's default retry policy for this
// task.
func WithRetryConfig(config RetryConfig) Option {
	return func(t *Task) { t.retryConfig = config }
}

// WithPriority sets scheduling priority; lower values are dequeued first.
func WithPriority(priority int) Option {
	return func(t *Task) { t.priority = priority }
}

// ManagerOptions configures a Manager at construction.
type ManagerOptions struct {
	NoColor         bool
	NoProgress      bool
	MaxConcurrent   int
	GracefulTimeout time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultManagerOptions returns sensible defaults: one worker, no automatic
// retries, a 10 second graceful shutdown window.
func DefaultManagerOptions() *ManagerOptions {
	return &ManagerOptions{
		MaxConcurrent:   1,
		GracefulTimeout: 10 * time.Second,
		MaxRetries:      0,
		RetryDelay:      500 * time.Millisecond,
	}
}

// Apply configures an already-constructed Manager with these options.
func (opts *ManagerOptions) Apply(tm *Manager) {
	tm.SetNoColor(opts.NoColor)
	tm.SetNoProgress(opts.NoProgress)
	tm.SetGracefulTimeout(opts.GracefulTimeout)

	if opts.MaxRetries > 0 {
		config := tm.retryConfig
		config.MaxRetries = opts.MaxRetries
		config.BaseDelay = opts.RetryDelay
		tm.SetRetryConfig(config)
	}
}

// BindManagerFlags registers ManagerOptions on a standard flag.FlagSet.
func BindManagerFlags(flags *flag.FlagSet, options *ManagerOptions) {
	flags.BoolVar(&options.NoColor, "no-color", options.NoColor, "Disable colored output")
	flags.BoolVar(&options.NoProgress, "no-progress", options.NoProgress, "Disable progress display")
	flags.IntVar(&options.MaxConcurrent, "max-concurrent", options.MaxConcurrent, "Maximum concurrent tasks")
	flags.DurationVar(&options.GracefulTimeout, "graceful-timeout", options.GracefulTimeout, "Timeout for graceful shutdown on interrupt")
	flags.IntVar(&options.MaxRetries, "max-retries", options.MaxRetries, "Maximum retry attempts for failed tasks")
	flags.DurationVar(&options.RetryDelay, "retry-delay", options.RetryDelay, "Base delay between retry attempts")
}

// BindManagerPFlags registers ManagerOptions on a pflag.FlagSet (cobra).
func BindManagerPFlags(flags *pflag.FlagSet, options *ManagerOptions) {
	flags.BoolVar(&options.NoColor, "no-color", options.NoColor, "Disable colored output")
	flags.BoolVar(&options.NoProgress, "no-progress", options.NoProgress, "Disable progress display")
	flags.IntVar(&options.MaxConcurrent, "max-concurrent", options.MaxConcurrent, "Maximum concurrent tasks")
	flags.DurationVar(&options.GracefulTimeout, "graceful-timeout", options.GracefulTimeout, "Timeout for graceful shutdown on interrupt")
	flags.IntVar(&options.MaxRetries, "max-retries", options.MaxRetries, "Maximum retry attempts for failed tasks")
	flags.DurationVar(&options.RetryDelay, "retry-delay", options.RetryDelay, "Base delay between retry attempts")
}

// NewManagerWithOptions constructs a Manager and immediately applies options.
func NewManagerWithOptions(options *ManagerOptions) *Manager {
	tm := NewManagerWithConcurrency(options.MaxConcurrent)
	options.Apply(tm)
	return tm
}

package task

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/collections"
	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/flanksource/commons/logger"
	"github.com/muesli/termenv"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/flowterm/progress/ioext"
	"github.com/flowterm/progress/jobstate"
	"github.com/flowterm/progress/mode"
	"github.com/flowterm/progress/template"
	tterm "github.com/flowterm/progress/term"
)

// styleSet holds the lipgloss styles used to paint a task's status and
// progress bar, built once per Manager against its render destination so
// color-capability detection (NO_COLOR, COLORTERM, TERM) happens a single
// time rather than per frame.
type styleSet struct {
	pending   lipgloss.Style
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
	retry     lipgloss.Style
	bar       lipgloss.Style
	barEmpty  lipgloss.Style
}

// Manager owns the task queue, its worker pool, and the single renderer
// goroutine that paints every task's current frame to a terminal.
type Manager struct {
	mu     sync.RWMutex
	wg     sync.WaitGroup
	tasks  []*Task
	groups []*Group

	factory   *mode.Factory
	terminal  *tterm.Terminal
	writer    ioext.Writer
	templates *template.Template
	renderer  *lipgloss.Renderer
	styles    styleSet

	isInteractive bool
	noColor       bool
	noProgress    bool
	verbose       bool

	retryConfig     RetryConfig
	gracefulTimeout time.Duration
	onInterrupt     func()

	taskQueue     *collections.Queue[*Task]
	workers       []*worker
	maxConcurrent int
	workersActive atomic.Int32
	shutdown      chan struct{}
	shutdownOnce  sync.Once

	renderCh   chan struct{}
	stopRender chan struct{}
	renderDone chan struct{}

	signalChan       chan os.Signal
	signalRegistered bool
	signalMu         sync.Mutex
	shutdownSignal   sync.Once

	tasksByIdentity sync.Map // string -> *Task
}

// Global is the process-default manager used by the package-level StartTask
// helper, mirroring the original crate's process-wide ThreadManager.
var Global *Manager

func init() {
	Global = NewManager()
}

// NewManager creates a Manager with a single worker.
func NewManager() *Manager { return NewManagerWithConcurrency(0) }

// NewManagerWithConcurrency creates a Manager whose worker pool has
// maxConcurrent workers (0 defaults to 1).
func NewManagerWithConcurrency(maxConcurrent int) *Manager {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width == 0 {
		width = 80
	}
	isInteractive := term.IsTerminal(int(os.Stderr.Fd()))

	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	taskQueue, err := collections.NewQueue(collections.QueueOpts[*Task]{
		Comparator: func(a, b *Task) int {
			if a.priority != b.priority {
				if a.priority < b.priority {
					return -1
				}
				return 1
			}
			if !a.enqueuedAt.Equal(b.enqueuedAt) {
				if a.enqueuedAt.Before(b.enqueuedAt) {
					return -1
				}
				return 1
			}
			return 0
		},
		Dedupe:  false,
		Metrics: collections.MetricsOpts[*Task]{Disable: true},
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create task queue: %v", err))
	}

	termHandle := tterm.New().WithSize(width, 24)
	renderer := lipgloss.NewRenderer(os.Stderr)

	tm := &Manager{
		factory:         mode.NewFactory(),
		terminal:        termHandle,
		writer:          ioext.NewNamedWriter("stderr", os.Stderr),
		templates:       template.New(template.PresetJobProgress.TemplateString()),
		renderer:        renderer,
		isInteractive:   isInteractive,
		retryConfig:     DefaultRetryConfig(),
		gracefulTimeout: 10 * time.Second,
		taskQueue:       taskQueue,
		maxConcurrent:   maxConcurrent,
		workers:         make([]*worker, 0, maxConcurrent),
		shutdown:        make(chan struct{}),
		renderCh:        make(chan struct{}, 256),
		stopRender:      make(chan struct{}),
		renderDone:      make(chan struct{}),
	}

	tm.styles.pending = renderer.NewStyle().Foreground(lipgloss.Color("7"))
	tm.styles.running = renderer.NewStyle().Foreground(lipgloss.Color("14"))
	tm.styles.completed = renderer.NewStyle().Foreground(lipgloss.Color("10"))
	tm.styles.failed = renderer.NewStyle().Foreground(lipgloss.Color("9"))
	tm.styles.retry = renderer.NewStyle().Foreground(lipgloss.Color("11"))
	tm.styles.bar = renderer.NewStyle().Foreground(lipgloss.Color("12"))
	tm.styles.barEmpty = renderer.NewStyle().Foreground(lipgloss.Color("8"))
	taskLogger := logger.GetLogger("task")
	tm.verbose = taskLogger.IsLevelEnabled(3) || os.Getenv("VERBOSE") != "" || os.Getenv("DEBUG") != ""
	if tm.verbose && !isInteractive {
		tm.noProgress = true
	}

	for i := 0; i < maxConcurrent; i++ {
		w := &worker{id: i, manager: tm}
		tm.workers = append(tm.workers, w)
		go w.run()
	}

	tm.registerSignalHandling()
	go tm.renderLoop()

	return tm
}

// SetVerbose toggles verbose task logging.
func (tm *Manager) SetVerbose(verbose bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.verbose = verbose
}

// SetNoColor disables ANSI color in rendered frames by forcing the lipgloss
// renderer's color profile down to plain ASCII.
func (tm *Manager) SetNoColor(noColor bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.noColor = noColor
	if noColor {
		tm.renderer.SetColorProfile(termenv.Ascii)
	} else {
		tm.renderer.SetColorProfile(termenv.EnvColorProfile())
	}
}

// SetNoProgress disables the render loop entirely; tasks still execute.
func (tm *Manager) SetNoProgress(noProgress bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.noProgress = noProgress
}

// SetRetryConfig sets the default retry policy applied to tasks started
// without their own WithRetryConfig.
func (tm *Manager) SetRetryConfig(config RetryConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.retryConfig = config
}

// SetGracefulTimeout sets how long Shutdown waits for tasks to finish on
// their own before escalating.
func (tm *Manager) SetGracefulTimeout(timeout time.Duration) {
	tm.signalMu.Lock()
	defer tm.signalMu.Unlock()
	tm.gracefulTimeout = timeout
}

// SetInterruptHandler registers a callback invoked once, before task
// cancellation, when a shutdown signal arrives.
func (tm *Manager) SetInterruptHandler(fn func()) {
	tm.signalMu.Lock()
	defer tm.signalMu.Unlock()
	tm.onInterrupt = fn
}

// SetWriter redirects rendered frames to w instead of stderr.
func (tm *Manager) SetWriter(w ioext.Writer) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.writer = w
}

// SetTemplate replaces the template used to render each task's header line,
// e.g. with one resolved through a config.PresetRegistry.
func (tm *Manager) SetTemplate(t *template.Template) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.templates = t
}

// Start creates and enqueues a task running fn, with no typed result.
func (tm *Manager) Start(name string, fn func(flanksourceContext.Context) error, opts ...Option) (*Task, error) {
	return tm.startInternal(name, mode.Parameters{}, func(ctx flanksourceContext.Context, t *Task) error {
		return fn(ctx)
	}, opts...)
}

// StartWithResult creates and enqueues a task whose runFunc produces an
// untyped result value, stored on the task for later retrieval. Go methods
// cannot introduce their own type parameters, so the generic, ergonomic
// entry point is the package-level StartTask function, which wraps this.
func (tm *Manager) StartWithResult(name string, fn func(flanksourceContext.Context, *Task) (interface{}, error), opts ...Option) (*Task, error) {
	return tm.startInternal(name, mode.Parameters{}, func(ctx flanksourceContext.Context, task *Task) error {
		result, err := fn(ctx, task)
		if err != nil {
			task.mu.Lock()
			task.err = err
			task.mu.Unlock()
			return err
		}
		task.SetResult(result)
		return nil
	}, opts...)
}

func (tm *Manager) startInternal(name string, params mode.Parameters, runFunc func(flanksourceContext.Context, *Task) error, opts ...Option) (*Task, error) {
	t, err := newTask(tm, name, params, opts...)
	if err != nil {
		return nil, err
	}
	t.runFunc = runFunc

	if len(t.dependencies) > 0 && t.priority == 0 {
		t.priority = 1
	}

	tm.mu.Lock()
	tm.tasks = append(tm.tasks, t)
	tm.mu.Unlock()

	if t.identity != "" {
		tm.tasksByIdentity.Store(t.identity, t)
	}

	tm.taskQueue.Enqueue(t)
	tm.markDirty()
	return t, nil
}

// CancelAll cancels every tracked task and group.
func (tm *Manager) CancelAll() {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	for _, t := range tm.tasks {
		t.Cancel()
	}
	for _, g := range tm.groups {
		g.Cancel()
	}
}

// ClearTasks drops every task that has already reached a terminal status.
func (tm *Manager) ClearTasks() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	active := tm.tasks[:0]
	for _, t := range tm.tasks {
		if !t.completed.Load() {
			active = append(active, t)
		}
	}
	tm.tasks = active
}

// Wait blocks until the queue is drained and every tracked task has
// finished, then stops the render loop and returns a shell-style exit code
// (0 clean, 1 if any task failed).
func (tm *Manager) Wait() int {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if tm.taskQueue.Empty() && tm.workersActive.Load() == 0 {
			if tm.allTasksComplete() {
				break
			}
		}
		<-ticker.C
	}

	tm.stopRendering()

	failed := 0
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	for _, t := range tm.tasks {
		if t.Status() == jobstate.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func (tm *Manager) allTasksComplete() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	for _, t := range tm.tasks {
		if !t.completed.Load() {
			return false
		}
	}
	return true
}

// Run waits for completion and returns every failed task's error combined
// into one, so a caller sees all failures from a batch instead of only
// whichever task happened to be tracked first.
func (tm *Manager) Run() error {
	tm.Wait()
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	var combined error
	for _, t := range tm.tasks {
		if err := t.Error(); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("task %s: %w", t.Name(), err))
		}
	}
	return combined
}

func (tm *Manager) markDirty() {
	select {
	case tm.renderCh <- struct{}{}:
	default:
	}
}

func (tm *Manager) stopRendering() {
	tm.shutdownOnce.Do(func() {
		close(tm.stopRender)
		<-tm.renderDone
	})
}

// Debug returns a one-shot human-readable snapshot, used when an interrupt
// or panic needs to print current task state without going through the
// template renderer.
func (tm *Manager) Debug() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	out := fmt.Sprintf("Task Manager: {no-color=%v, no-progress=%v, workers=%v}\n", tm.noColor, tm.noProgress, tm.workersActive.Load())
	out += fmt.Sprintf("  Total Tasks: %d\n", len(tm.tasks))
	for _, t := range tm.tasks {
		status := t.Status()
		line := tm.styleFor(status).Render(fmt.Sprintf("%s %s: %s", statusIcon(status), t.Name(), status))
		out += fmt.Sprintf("    - %s\n", line)
	}
	return out
}

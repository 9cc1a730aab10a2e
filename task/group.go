package task

import (
	"context"
	"sync"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"

	"github.com/flowterm/progress/jobstate"
)

// Group collects related tasks (or nested groups) so callers can wait on and
// cancel them as a unit, grounded on clicky's group.go.
type Group struct {
	mu        sync.RWMutex
	name      string
	Items     []Taskable
	startTime time.Time
	manager   *Manager
	ctx       context.Context
	cancel    context.CancelFunc
}

// GetTasks returns the group's direct items.
func (g *Group) GetTasks() []Taskable {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Taskable(nil), g.Items...)
}

// Name returns the group's display name.
func (g *Group) Name() string { return g.name }

// IsGroup reports true for Group.
func (g *Group) IsGroup() bool { return true }

// Cancel cancels the group's own context and every item within it.
func (g *Group) Cancel() {
	g.mu.RLock()
	items := append([]Taskable(nil), g.Items...)
	cancel := g.cancel
	g.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	for _, item := range items {
		item.GetTask().Cancel()
	}
}

// Status aggregates the group's items into a single status: Running if any
// item is running, Pending if any haven't started, Failed if any failed
// (and nothing is still pending/running), else Completed.
func (g *Group) Status() jobstate.Status {
	items := g.GetTasks()
	if len(items) == 0 {
		return jobstate.StatusPending
	}

	hasRunning, hasFailed, allComplete := false, false, true
	for _, item := range items {
		switch item.GetTask().Status() {
		case jobstate.StatusRunning:
			hasRunning = true
			allComplete = false
		case jobstate.StatusPending:
			allComplete = false
		case jobstate.StatusFailed:
			hasFailed = true
		}
	}

	switch {
	case hasRunning:
		return jobstate.StatusRunning
	case !allComplete:
		return jobstate.StatusPending
	case hasFailed:
		return jobstate.StatusFailed
	default:
		return jobstate.StatusCompleted
	}
}

// TypedGroup adds a typed Add/GetResults surface over a Group whose tasks
// all produce the same result type T.
type TypedGroup[T any] struct {
	*Group
}

// StartGroup creates a new group tracked by the default manager.
func StartGroup[T any](name string) TypedGroup[T] {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Group{name: name, manager: Global, ctx: ctx, cancel: cancel}

	Global.mu.Lock()
	Global.groups = append(Global.groups, g)
	Global.mu.Unlock()

	return TypedGroup[T]{g}
}

// Add starts fn as a new task within the group.
func (g TypedGroup[T]) Add(name string, fn TaskFunc[T], opts ...Option) TypedTask[T] {
	t, err := g.manager.StartWithResult(name, func(ctx flanksourceContext.Context, task *Task) (interface{}, error) {
		return fn(ctx, task)
	}, opts...)
	if err != nil {
		t = failedTask(g.manager, name, err)
	}
	t.parent = g.Group

	g.mu.Lock()
	g.Items = append(g.Items, TypedTask[T]{t})
	if g.startTime.IsZero() || t.StartTime().Before(g.startTime) {
		g.startTime = t.StartTime()
	}
	g.mu.Unlock()

	return TypedTask[T]{t}
}

// GetResults waits for nothing itself — callers should WaitFor first — and
// returns every item's typed result keyed by its task.
func (g TypedGroup[T]) GetResults() (map[*Task]T, error) {
	results := make(map[*Task]T)
	for _, item := range g.GetTasks() {
		tt, ok := item.(TypedTask[T])
		if !ok {
			continue
		}
		value, err := tt.GetResult()
		if err != nil {
			return nil, err
		}
		results[tt.Task] = value
	}
	return results, nil
}

// Duration returns elapsed time from the first item's start to the last
// item's end, or time-since-start while any item is still in flight.
func (g TypedGroup[T]) Duration() time.Duration {
	g.mu.RLock()
	start := g.startTime
	items := append([]Taskable(nil), g.Items...)
	g.mu.RUnlock()

	if start.IsZero() {
		return 0
	}

	var latestEnd time.Time
	for _, item := range items {
		t := item.GetTask()
		switch t.Status() {
		case jobstate.StatusPending, jobstate.StatusRunning:
			return time.Since(start)
		}
		t.mu.Lock()
		end := t.endTime
		t.mu.Unlock()
		if end.After(latestEnd) {
			latestEnd = end
		}
	}
	if latestEnd.IsZero() {
		return time.Since(start)
	}
	return latestEnd.Sub(start)
}

// WaitFor blocks until every current item in the group finishes, then — to
// accommodate tasks added concurrently with the wait — keeps checking for a
// few stable iterations before declaring the group done.
func (g TypedGroup[T]) WaitFor() *WaitResult {
	lastCount := -1
	stable := 0
	const requiredStable = 3

	for {
		g.mu.RLock()
		count := len(g.Items)
		g.mu.RUnlock()

		if count != lastCount {
			lastCount = count
			stable = 0
			time.Sleep(10 * time.Millisecond)
			continue
		}

		allDone, anyRunning := true, false
		for _, item := range g.GetTasks() {
			switch item.GetTask().Status() {
			case jobstate.StatusPending:
				allDone = false
			case jobstate.StatusRunning:
				allDone = false
				anyRunning = true
			}
		}

		if allDone {
			stable++
			if stable >= requiredStable {
				break
			}
			time.Sleep(10 * time.Millisecond)
		} else if anyRunning {
			time.Sleep(50 * time.Millisecond)
			stable = 0
		} else {
			time.Sleep(10 * time.Millisecond)
			stable = 0
		}
	}

	result := &WaitResult{Status: g.Status(), Duration: g.Duration()}
	if g.manager != nil {
		g.manager.markDirty()
	}
	return result
}

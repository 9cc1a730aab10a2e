package task

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"

	"github.com/flowterm/progress/jobstate"
)

// worker is one goroutine of the manager's pool, repeatedly dequeuing and
// executing tasks. Grounded on clicky's worker.go; the 10ms idle-poll on an
// empty queue mirrors thread.rs's ThreadManager polling for a free admission
// slot every 100ms, shortened here since the queue itself (not a separate
// semaphore) is the admission point.
type worker struct {
	manager *Manager
	id      int
}

func (w *worker) run() {
	for {
		select {
		case <-w.manager.shutdown:
			return
		default:
		}

		t, ok := w.manager.taskQueue.Dequeue()
		if !ok {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if !w.dependenciesSatisfied(t) {
			if t.completed.Load() {
				// A dependency permanently failed; dependenciesSatisfied
				// already marked t failed, so finish it rather than
				// requeuing a task that will never become runnable.
				w.finish(t)
				continue
			}
			w.manager.taskQueue.EnqueueWithDelay(t, 50*time.Millisecond)
			continue
		}

		w.manager.workersActive.Add(1)
		w.execute(t)
		w.manager.workersActive.Add(-1)

		t.completed.Store(true)
		w.finish(t)
	}
}

func (w *worker) finish(t *Task) {
	if t.identity != "" {
		w.manager.tasksByIdentity.Delete(t.identity)
	}
	t.signalDone()
	w.manager.markDirty()
}

// dependenciesSatisfied reports whether t may run now. A task whose
// dependency has already failed is itself failed rather than left waiting
// forever; anything else incomplete just defers t for another pass.
func (w *worker) dependenciesSatisfied(t *Task) bool {
	for _, dep := range t.dependencies {
		if dep == nil {
			continue
		}
		if !dep.completed.Load() {
			return false
		}
		if dep.Status() == jobstate.StatusFailed {
			t.mu.Lock()
			t.err = fmt.Errorf("dependency %q failed", dep.Name())
			t.mu.Unlock()
			t.SetStatus(jobstate.StatusFailed)
			t.completed.Store(true)
			return false
		}
	}
	return true
}

func (w *worker) execute(t *Task) {
	t.mu.Lock()
	t.startTime = time.Now()
	t.mu.Unlock()
	t.SetStatus(jobstate.StatusRunning)
	if base, ok := t.config.BaseConfig(); ok {
		base.MarkRunning()
	}

	if t.taskTimeout > 0 {
		timeoutCtx, timeoutCancel := context.WithTimeout(t.ctx, t.taskTimeout)
		defer timeoutCancel()

		t.mu.Lock()
		originalCancel := t.cancel
		t.flanksourceCtx = flanksourceContext.NewContext(timeoutCtx)
		t.ctx = timeoutCtx
		t.cancel = func() {
			timeoutCancel()
			originalCancel()
		}
		t.mu.Unlock()
	}

	w.executeWithRetry(t)
}

func (w *worker) executeWithRetry(t *Task) {
	for {
		if t.runFunc == nil {
			t.Success()
			return
		}

		err := t.runFunc(t.flanksourceCtx, t)
		if t.Status() != jobstate.StatusRunning {
			return
		}

		if err == nil {
			t.Success()
			return
		}

		if shouldRetry(err, t.retryConfig) && t.retryCount < t.retryConfig.MaxRetries {
			t.retryCount++
			t.Warnf("attempt %d failed, retrying: %v", t.retryCount, err)

			delay := backoffDelay(t.retryCount, t.retryConfig)
			select {
			case <-time.After(delay):
				continue
			case <-t.ctx.Done():
				t.SetStatus(jobstate.StatusFailed)
				return
			}
		}

		t.FailedWithError(err)
		return
	}
}

func shouldRetry(err error, config RetryConfig) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range config.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func backoffDelay(retryCount int, config RetryConfig) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.BackoffFactor, float64(retryCount-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	jitter := delay * config.JitterFactor * (rand.Float64() - 0.5) * 2
	final := delay + jitter
	if final < 0 {
		final = float64(config.BaseDelay)
	}
	return time.Duration(final)
}

package jobstate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// Base is the shared per-task state embedded by every display mode. Counters
// that are read far more often than written are kept as atomics; everything
// else (status, relationships, timing) sits behind one mutex.
//
// Any type that embeds Base by value gets every capability interface in this
// package for free through method promotion — the Go equivalent of the
// original crate's blanket "any type with a BaseConfig accessor" rule.
type Base struct {
	totalJobs       uint64
	completedJobs   atomic.Uint64
	priority        atomic.Uint32
	paused          atomic.Bool
	cancelled       atomic.Bool
	failureCount    atomic.Uint64
	retryCount      atomic.Uint64
	maxRetries      atomic.Uint64

	mu                     sync.Mutex
	progressFormat         string
	parentJobID            *uint64
	childJobIDs            []uint64
	dependencies           []uint64
	errorMessage           *string
	cancellationReason     *string
	status                 Status
	lastUpdateTime         time.Time
	startTime              time.Time
	progressSpeed          *float64
	estimatedTimeRemaining *time.Duration
}

// NewBase creates a new Base tracking totalJobs units of work.
func NewBase(totalJobs uint64) *Base {
	now := time.Now()
	b := &Base{
		totalJobs:      totalJobs,
		progressFormat: "{completed}/{total} ({percent}%)",
		status:         StatusPending,
		lastUpdateTime: now,
		startTime:      now,
	}
	b.maxRetries.Store(3)
	return b
}

// GetTotalJobs returns the total number of units of work.
func (b *Base) GetTotalJobs() uint64 { return atomic.LoadUint64(&b.totalJobs) }

// SetTotalJobs updates the total number of units of work. The original
// crate only permits this under an exclusive (&mut self) borrow; here the
// value is stored atomically, so concurrent readers see either the old or
// the new total.
func (b *Base) SetTotalJobs(total uint64) { atomic.StoreUint64(&b.totalJobs, total) }

// IncrementCompletedJobs bumps the completed counter by one and returns the
// new count. A no-op (returns the unchanged count) if the job is cancelled.
func (b *Base) IncrementCompletedJobs() uint64 {
	if b.IsCancelled() {
		return b.GetCompletedJobs()
	}
	count := b.completedJobs.Add(1)
	if count >= b.GetTotalJobs() {
		b.mu.Lock()
		b.status = StatusCompleted
		b.mu.Unlock()
	}
	if b.GetTotalJobs() > 0 {
		b.UpdateTimeEstimates()
	}
	return count
}

// GetCompletedJobs returns the current completed count.
func (b *Base) GetCompletedJobs() uint64 { return b.completedJobs.Load() }

// SetCompletedJobs overwrites the completed count and returns it.
func (b *Base) SetCompletedJobs(completed uint64) uint64 {
	b.completedJobs.Store(completed)
	return completed
}

// GetProgressFormat returns the format string used to render progress text.
func (b *Base) GetProgressFormat() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progressFormat
}

// SetProgressFormat sets the format string used to render progress text.
func (b *Base) SetProgressFormat(format string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progressFormat = format
}

// AddChildJob records a child job id. Returns false if already present.
func (b *Base) AddChildJob(childID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if lo.Contains(b.childJobIDs, childID) {
		return false
	}
	b.childJobIDs = append(b.childJobIDs, childID)
	return true
}

// RemoveChildJob removes a child job id. Returns false if not present.
func (b *Base) RemoveChildJob(childID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, id := range b.childJobIDs {
		if id == childID {
			b.childJobIDs = append(b.childJobIDs[:i], b.childJobIDs[i+1:]...)
			return true
		}
	}
	return false
}

// GetParentJobID returns the parent job id, if any.
func (b *Base) GetParentJobID() (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.parentJobID == nil {
		return 0, false
	}
	return *b.parentJobID, true
}

// SetParentJobID records the parent job id.
func (b *Base) SetParentJobID(parentID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parentJobID = &parentID
}

// GetChildJobIDs returns a snapshot of child job ids.
func (b *Base) GetChildJobIDs() []uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]uint64, len(b.childJobIDs))
	copy(out, b.childJobIDs)
	return out
}

// Pause marks the job as paused.
func (b *Base) Pause() { b.paused.Store(true) }

// Resume clears the paused flag.
func (b *Base) Resume() { b.paused.Store(false) }

// IsPaused reports whether the job is paused.
func (b *Base) IsPaused() bool { return b.paused.Load() }

// GetPriority returns the job's priority (higher means more urgent; nothing
// in this module orders jobs by it).
func (b *Base) GetPriority() uint32 { return b.priority.Load() }

// SetPriority sets the job's priority.
func (b *Base) SetPriority(priority uint32) { b.priority.Store(priority) }

// AddDependency records that this job depends on jobID.
func (b *Base) AddDependency(jobID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if lo.Contains(b.dependencies, jobID) {
		return false
	}
	b.dependencies = append(b.dependencies, jobID)
	return true
}

// RemoveDependency removes a recorded dependency.
func (b *Base) RemoveDependency(jobID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, id := range b.dependencies {
		if id == jobID {
			b.dependencies = append(b.dependencies[:i], b.dependencies[i+1:]...)
			return true
		}
	}
	return false
}

// GetDependencies returns a snapshot of dependency job ids.
func (b *Base) GetDependencies() []uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]uint64, len(b.dependencies))
	copy(out, b.dependencies)
	return out
}

// HasDependencies reports whether this job has any dependencies.
func (b *Base) HasDependencies() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.dependencies) > 0
}

// AreDependenciesSatisfied reports whether isCompleted holds for every
// recorded dependency.
func (b *Base) AreDependenciesSatisfied(isCompleted func(jobID uint64) bool) bool {
	deps := b.GetDependencies()
	return lo.EveryBy(deps, func(id uint64) bool { return isCompleted(id) })
}

// IsDependencySatisfied reports whether jobID, known to be completed or not
// via the completed argument, is satisfied as a dependency of this job.
func (b *Base) IsDependencySatisfied(jobID uint64, completed bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !lo.Contains(b.dependencies, jobID) || completed
}

// GetStatus returns the current job status.
func (b *Base) GetStatus() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// SetStatus sets the job status directly.
func (b *Base) SetStatus(status Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

// MarkRunning sets the status to Running.
func (b *Base) MarkRunning() { b.SetStatus(StatusRunning) }

// MarkCompleted sets the status to Completed, resets the retry counter, and
// (if the job tracks any units) stamps the completion time and clears the
// ETA. It deliberately leaves the failure count untouched — a job that
// failed twice before finally succeeding still carries that history.
func (b *Base) MarkCompleted() {
	b.SetStatus(StatusCompleted)
	b.retryCount.Store(0)
	if b.GetTotalJobs() > 0 {
		b.mu.Lock()
		b.lastUpdateTime = time.Now()
		b.estimatedTimeRemaining = nil
		b.mu.Unlock()
	}
}

// MarkFailed sets the status to Failed, bumps the failure counter, and
// records the error message. Returns the new failure count.
func (b *Base) MarkFailed(errMsg string) uint64 {
	b.SetStatus(StatusFailed)
	count := b.failureCount.Add(1)
	b.mu.Lock()
	b.errorMessage = &errMsg
	b.mu.Unlock()
	return count
}

// Retry sets the status to Retry, clears the error message (failure history
// is kept), and returns the new retry count.
func (b *Base) Retry() uint64 {
	b.SetStatus(StatusRetry)
	b.mu.Lock()
	b.errorMessage = nil
	b.mu.Unlock()
	return b.retryCount.Add(1)
}

// MarkSucceeded unconditionally clears failure count, retry count, and error
// message, and — unless the job is already Completed — sets status to
// Running. Unlike MarkCompleted, this does wipe failure history: it models
// "this attempt succeeded", not "the whole job is done".
func (b *Base) MarkSucceeded() {
	if !b.IsInStatus(StatusCompleted) {
		b.SetStatus(StatusRunning)
	}
	b.failureCount.Store(0)
	b.retryCount.Store(0)
	b.mu.Lock()
	b.errorMessage = nil
	b.mu.Unlock()
}

// IsInStatus reports whether the job is currently in the given status.
func (b *Base) IsInStatus(status Status) bool { return b.GetStatus() == status }

func (b *Base) IsPending() bool  { return b.IsInStatus(StatusPending) }
func (b *Base) IsRunning() bool  { return b.IsInStatus(StatusRunning) }
func (b *Base) IsCompleted() bool { return b.IsInStatus(StatusCompleted) }
func (b *Base) IsRetrying() bool { return b.IsInStatus(StatusRetry) }

// GetFailureCount returns how many times this job has failed.
func (b *Base) GetFailureCount() uint64 { return b.failureCount.Load() }

// GetErrorMessage returns the most recent error message, if any.
func (b *Base) GetErrorMessage() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errorMessage == nil {
		return "", false
	}
	return *b.errorMessage, true
}

// HasFailed reports whether this job has a recorded failure and error.
func (b *Base) HasFailed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount.Load() > 0 && b.errorMessage != nil
}

// GetRetryCount returns how many retries have been performed.
func (b *Base) GetRetryCount() uint64 { return b.retryCount.Load() }

// SetMaxRetries sets the maximum number of retries permitted.
func (b *Base) SetMaxRetries(max uint64) { b.maxRetries.Store(max) }

// GetMaxRetries returns the maximum number of retries permitted.
func (b *Base) GetMaxRetries() uint64 { return b.maxRetries.Load() }

// HasReachedRetryLimit reports whether the retry count has hit the max.
func (b *Base) HasReachedRetryLimit() bool { return b.GetRetryCount() >= b.GetMaxRetries() }

// ResetStartTime restarts the elapsed-time clock.
func (b *Base) ResetStartTime() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.startTime = time.Now()
}

// GetElapsedTime returns the duration since the job started.
func (b *Base) GetElapsedTime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Since(b.startTime)
}

// GetEstimatedTimeRemaining returns the current ETA, if one has been
// computed.
func (b *Base) GetEstimatedTimeRemaining() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.estimatedTimeRemaining == nil {
		return 0, false
	}
	return *b.estimatedTimeRemaining, true
}

// GetProgressSpeed returns the current smoothed speed, if one has been
// computed.
func (b *Base) GetProgressSpeed() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.progressSpeed == nil {
		return 0, false
	}
	return *b.progressSpeed, true
}

// UpdateTimeEstimates recomputes progress speed and ETA and returns the
// current progress percentage.
//
// The math here reproduces the original crate exactly, "mixed units" and
// all: progressPerSecond is computed as 1/deltaSeconds (one completed unit
// per however long the previous update took, treated as a rate), folded into
// an exponential moving average (0.7 prior, 0.3 new), and the ETA then
// multiplies the remaining units by deltaSeconds again rather than dividing
// by a clean per-second rate. This is deliberately not "fixed" — see
// DESIGN.md for why.
func (b *Base) UpdateTimeEstimates() float64 {
	now := time.Now()
	total := b.GetTotalJobs()
	completed := b.GetCompletedJobs()

	if total == 0 {
		return 0.0
	}

	progress := float64(completed) / float64(total)

	b.mu.Lock()
	deltaTime := now.Sub(b.lastUpdateTime)
	if deltaTime > 0 && completed > 0 {
		progressPerSecond := 1.0 / deltaTime.Seconds()

		var newSpeed float64
		if b.progressSpeed != nil {
			newSpeed = *b.progressSpeed*0.7 + progressPerSecond*0.3
		} else {
			newSpeed = progressPerSecond
		}
		b.progressSpeed = &newSpeed

		remainingJobs := total - completed
		if remainingJobs > 0 && newSpeed > 0 {
			remainingSeconds := float64(remainingJobs) / (newSpeed * deltaTime.Seconds())
			if remainingSeconds < 0 {
				remainingSeconds = 0
			}
			eta := time.Duration(remainingSeconds * float64(time.Second))
			b.estimatedTimeRemaining = &eta
		} else {
			b.estimatedTimeRemaining = nil
		}
	}
	b.lastUpdateTime = now
	b.mu.Unlock()

	return progress * 100.0
}

// IsCancelled reports whether this job has been cancelled.
func (b *Base) IsCancelled() bool { return b.cancelled.Load() }

// SetCancelled marks the job cancelled, optionally recording a reason.
func (b *Base) SetCancelled(reason string) {
	b.cancelled.Store(true)
	if reason != "" {
		b.mu.Lock()
		b.cancellationReason = &reason
		b.mu.Unlock()
	}
}

// GetCancellationReason returns why the job was cancelled, if recorded.
func (b *Base) GetCancellationReason() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancellationReason == nil {
		return "", false
	}
	return *b.cancellationReason, true
}

// Base satisfies HasBase trivially: it is its own accessor.
func (b *Base) BaseConfig() *Base { return b }

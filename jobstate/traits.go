package jobstate

import "time"

// HasBase is implemented by anything that embeds (or otherwise exposes) a
// *Base. Every capability interface below is satisfied automatically by
// embedding Base by value, the same way the original crate's blanket impl
// gave every BaseConfig-bearing type every trait for free.
type HasBase interface {
	BaseConfig() *Base
}

// Tracker is the minimal job-counting capability.
type Tracker interface {
	GetTotalJobs() uint64
	SetTotalJobs(uint64)
	IncrementCompletedJobs() uint64
}

// Pausable lets a job be paused and resumed.
type Pausable interface {
	Pause()
	Resume()
	IsPaused() bool
}

// Hierarchical exposes parent/child job relationships.
type Hierarchical interface {
	GetParentJobID() (uint64, bool)
	SetParentJobID(uint64)
	AddChildJob(uint64) bool
	RemoveChildJob(uint64) bool
	GetChildJobIDs() []uint64
}

// Prioritized exposes a mutable priority.
type Prioritized interface {
	GetPriority() uint32
	SetPriority(uint32)
}

// Dependent exposes dependency bookkeeping and satisfaction checks.
type Dependent interface {
	AddDependency(uint64) bool
	RemoveDependency(uint64) bool
	GetDependencies() []uint64
	HasDependencies() bool
	AreDependenciesSatisfied(func(uint64) bool) bool
	IsDependencySatisfied(jobID uint64, completed bool) bool
}

// FailureHandling exposes retry/failure bookkeeping.
type FailureHandling interface {
	MarkFailed(string) uint64
	Retry() uint64
	MarkSucceeded()
	GetFailureCount() uint64
	GetErrorMessage() (string, bool)
	HasFailed() bool
	GetRetryCount() uint64
	SetMaxRetries(uint64)
	GetMaxRetries() uint64
	HasReachedRetryLimit() bool
}

// StatusTracker exposes lifecycle status queries.
type StatusTracker interface {
	GetStatus() Status
	SetStatus(Status)
	MarkRunning()
	MarkCompleted()
	IsInStatus(Status) bool
	IsPending() bool
	IsRunning() bool
	IsCompleted() bool
	IsRetrying() bool
}

// WithProgress combines job tracking with progress-format and ETA queries.
// Mirrors config/capabilities.rs's WithProgress trait.
type WithProgress interface {
	Tracker
	GetCompletedJobs() uint64
	SetProgressFormat(string)
	GetProgressFormat() string
	GetProgressPercentage() float64
	GetEstimatedTimeRemaining() (time.Duration, bool)
	GetProgressSpeed() (float64, bool)
}

// GetProgressPercentage computes completed/total*100, capped at 100, zero
// when there's no work. Free function operating on any Tracker+GetCompletedJobs
// pair so both Base and test doubles can share it.
func GetProgressPercentage(totalJobs, completedJobs uint64) float64 {
	if totalJobs == 0 {
		return 0.0
	}
	pct := float64(completedJobs) / float64(totalJobs) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// GetProgressPercentage on Base itself, satisfying WithProgress.
func (b *Base) GetProgressPercentage() float64 {
	return GetProgressPercentage(b.GetTotalJobs(), b.GetCompletedJobs())
}


package jobstate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseConfigCreation(t *testing.T) {
	b := NewBase(10)
	assert.Equal(t, uint64(10), b.GetTotalJobs())
	assert.Equal(t, uint64(0), b.GetCompletedJobs())
	assert.Equal(t, StatusPending, b.GetStatus())
}

func TestBaseConfigJobTracking(t *testing.T) {
	b := NewBase(10)
	assert.Equal(t, uint64(1), b.IncrementCompletedJobs())
	assert.Equal(t, uint64(2), b.IncrementCompletedJobs())
	assert.Equal(t, uint64(2), b.GetCompletedJobs())
}

func TestBaseConfigCompletionMarksStatus(t *testing.T) {
	b := NewBase(2)
	b.IncrementCompletedJobs()
	assert.True(t, b.IsRunning() || b.IsPending())
	b.IncrementCompletedJobs()
	assert.True(t, b.IsCompleted())
}

func TestBaseConfigCancellation(t *testing.T) {
	b := NewBase(5)
	b.IncrementCompletedJobs()
	b.SetCancelled("stopped by user")
	before := b.GetCompletedJobs()
	after := b.IncrementCompletedJobs()
	assert.Equal(t, before, after, "incrementing a cancelled job must be a no-op")
	reason, ok := b.GetCancellationReason()
	require.True(t, ok)
	assert.Equal(t, "stopped by user", reason)
}

func TestFailureAndRetryLifecycle(t *testing.T) {
	b := NewBase(5)
	count := b.MarkFailed("boom")
	assert.Equal(t, uint64(1), count)
	assert.True(t, b.IsInStatus(StatusFailed))
	msg, ok := b.GetErrorMessage()
	require.True(t, ok)
	assert.Equal(t, "boom", msg)

	retries := b.Retry()
	assert.Equal(t, uint64(1), retries)
	assert.True(t, b.IsRetrying())
	_, ok = b.GetErrorMessage()
	assert.False(t, ok, "retry clears the error message")
	assert.Equal(t, uint64(1), b.GetFailureCount(), "retry keeps failure history")
}

func TestMarkSucceededResetsEverything(t *testing.T) {
	b := NewBase(5)
	b.MarkFailed("boom")
	b.Retry()
	b.MarkSucceeded()
	assert.Equal(t, uint64(0), b.GetFailureCount())
	assert.Equal(t, uint64(0), b.GetRetryCount())
	_, ok := b.GetErrorMessage()
	assert.False(t, ok)
	assert.True(t, b.IsRunning())
}

func TestMarkCompletedKeepsFailureHistory(t *testing.T) {
	b := NewBase(5)
	b.MarkFailed("boom")
	b.Retry()
	b.MarkCompleted()
	assert.True(t, b.IsCompleted())
	assert.Equal(t, uint64(0), b.GetRetryCount(), "mark completed resets retry count")
	assert.Equal(t, uint64(1), b.GetFailureCount(), "mark completed keeps failure history")
	_, hasETA := b.GetEstimatedTimeRemaining()
	assert.False(t, hasETA)
}

func TestRetryLimit(t *testing.T) {
	b := NewBase(5)
	b.SetMaxRetries(2)
	assert.False(t, b.HasReachedRetryLimit())
	b.Retry()
	assert.False(t, b.HasReachedRetryLimit())
	b.Retry()
	assert.True(t, b.HasReachedRetryLimit())
}

func TestHierarchy(t *testing.T) {
	b := NewBase(1)
	assert.True(t, b.AddChildJob(1))
	assert.False(t, b.AddChildJob(1), "duplicate child id is rejected")
	assert.ElementsMatch(t, []uint64{1}, b.GetChildJobIDs())
	assert.True(t, b.RemoveChildJob(1))
	assert.Empty(t, b.GetChildJobIDs())

	b.SetParentJobID(42)
	parent, ok := b.GetParentJobID()
	require.True(t, ok)
	assert.Equal(t, uint64(42), parent)
}

func TestDependencies(t *testing.T) {
	b := NewBase(1)
	b.AddDependency(7)
	b.AddDependency(8)
	assert.True(t, b.HasDependencies())

	completed := map[uint64]bool{7: true, 8: false}
	assert.False(t, b.AreDependenciesSatisfied(func(id uint64) bool { return completed[id] }))
	completed[8] = true
	assert.True(t, b.AreDependenciesSatisfied(func(id uint64) bool { return completed[id] }))

	assert.True(t, b.IsDependencySatisfied(99, false), "not a tracked dependency at all")
	assert.False(t, b.IsDependencySatisfied(7, false))
	assert.True(t, b.IsDependencySatisfied(7, true))
}

func TestUpdateTimeEstimatesComputesSpeedAndETA(t *testing.T) {
	b := NewBase(10)
	b.IncrementCompletedJobs()
	time.Sleep(5 * time.Millisecond)
	pct := b.UpdateTimeEstimates()
	assert.Greater(t, pct, 0.0)
	speed, ok := b.GetProgressSpeed()
	assert.True(t, ok)
	assert.Greater(t, speed, 0.0)
}

func TestSummaryFormat(t *testing.T) {
	b := NewBase(10)
	for i := 0; i < 2; i++ {
		b.IncrementCompletedJobs()
	}
	summary := b.Summary()
	assert.Contains(t, summary, "Progress: 20.0% (2/10)")
}

package task

import (
	"errors"
	"testing"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowterm/progress/jobstate"
)

func TestStartWithResultSucceeds(t *testing.T) {
	tm := NewManagerWithConcurrency(2)

	tt, err := tm.StartWithResult("sum", func(ctx flanksourceContext.Context, tk *Task) (interface{}, error) {
		tk.SetProgress(1, 1)
		return 42, nil
	})
	require.NoError(t, err)

	result := tt.WaitFor()
	assert.Equal(t, jobstate.StatusCompleted, result.Status)
	assert.True(t, tt.IsOk())

	value, err := tt.GetResult()
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestStartWithResultFails(t *testing.T) {
	tm := NewManagerWithConcurrency(1)

	boom := errors.New("boom")
	tt, err := tm.StartWithResult("explode", func(ctx flanksourceContext.Context, tk *Task) (interface{}, error) {
		return nil, boom
	})
	require.NoError(t, err)

	result := tt.WaitFor()
	assert.Equal(t, jobstate.StatusFailed, result.Status)
	assert.False(t, tt.IsOk())
	assert.ErrorContains(t, tt.Error(), "boom")
}

func TestDependentTaskWaitsThenRuns(t *testing.T) {
	tm := NewManagerWithConcurrency(2)

	var order []string
	first, err := tm.Start("first", func(ctx flanksourceContext.Context) error {
		time.Sleep(30 * time.Millisecond)
		order = append(order, "first")
		return nil
	})
	require.NoError(t, err)

	second, err := tm.Start("second", func(ctx flanksourceContext.Context) error {
		order = append(order, "second")
		return nil
	}, WithDependencies(first))
	require.NoError(t, err)

	second.WaitFor()
	require.Equal(t, []string{"first", "second"}, order)
}

func TestDependencyFailurePropagates(t *testing.T) {
	tm := NewManagerWithConcurrency(2)

	dep, err := tm.Start("dep", func(ctx flanksourceContext.Context) error {
		return errors.New("dep failed")
	})
	require.NoError(t, err)

	downstream, err := tm.Start("downstream", func(ctx flanksourceContext.Context) error {
		return nil
	}, WithDependencies(dep))
	require.NoError(t, err)

	result := downstream.WaitFor()
	assert.Equal(t, jobstate.StatusFailed, result.Status)
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	tm := NewManagerWithConcurrency(1)
	tm.SetRetryConfig(RetryConfig{
		MaxRetries:      3,
		BaseDelay:       5 * time.Millisecond,
		MaxDelay:        20 * time.Millisecond,
		BackoffFactor:   2,
		JitterFactor:    0,
		RetryableErrors: []string{"timeout"},
	})

	attempts := 0
	tt, err := tm.Start("flaky", func(ctx flanksourceContext.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection timeout")
		}
		return nil
	})
	require.NoError(t, err)

	result := tt.WaitFor()
	assert.Equal(t, jobstate.StatusCompleted, result.Status)
	assert.Equal(t, 3, attempts)
}

func TestManagerRunCombinesFailures(t *testing.T) {
	tm := NewManagerWithConcurrency(2)

	_, err := tm.Start("a", func(ctx flanksourceContext.Context) error {
		return errors.New("a failed")
	})
	require.NoError(t, err)

	_, err = tm.Start("b", func(ctx flanksourceContext.Context) error {
		return errors.New("b failed")
	})
	require.NoError(t, err)

	runErr := tm.Run()
	require.Error(t, runErr)
	assert.ErrorContains(t, runErr, "a failed")
	assert.ErrorContains(t, runErr, "b failed")
}

package task

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/stretchr/testify/assert"
)

func TestGroupWaitsForAllItems(t *testing.T) {
	group := StartGroup[int]("wait-for-all")

	var activeCount int64
	var maxActiveCount int64
	var mu sync.Mutex
	var results []int

	for i := 0; i < 5; i++ {
		taskID := i + 1
		group.Add(
			"task",
			func(ctx flanksourceContext.Context, t *Task) (int, error) {
				active := atomic.AddInt64(&activeCount, 1)
				for {
					current := atomic.LoadInt64(&maxActiveCount)
					if active <= current || atomic.CompareAndSwapInt64(&maxActiveCount, current, active) {
						break
					}
				}

				time.Sleep(50 * time.Millisecond)

				mu.Lock()
				results = append(results, taskID)
				mu.Unlock()

				atomic.AddInt64(&activeCount, -1)
				return taskID, nil
			},
		)
	}

	result := group.WaitFor()

	assert.Equal(t, int64(0), activeCount, "expected all tasks to complete")
	assert.Equal(t, 5, len(results), "expected all 5 tasks to complete")
	assert.GreaterOrEqual(t, int(maxActiveCount), 1)
	assert.Equal(t, "Completed", result.Status.String())
	assert.Equal(t, 5, len(group.GetTasks()))
}

func TestGroupResultsAreKeyedPerTask(t *testing.T) {
	group := StartGroup[int]("results")

	for i := 0; i < 3; i++ {
		taskID := i + 1
		group.Add("task", func(ctx flanksourceContext.Context, t *Task) (int, error) {
			time.Sleep(10 * time.Millisecond)
			return taskID * 10, nil
		})
	}

	group.WaitFor()

	results, err := group.GetResults()
	assert.NoError(t, err)
	assert.Equal(t, 3, len(results))

	seen := make(map[int]bool)
	for _, v := range results {
		seen[v] = true
	}
	assert.True(t, seen[10] && seen[20] && seen[30])
}

func TestGroupStatusReflectsFailure(t *testing.T) {
	group := StartGroup[int]("failure")

	group.Add("ok", func(ctx flanksourceContext.Context, t *Task) (int, error) {
		return 1, nil
	})
	group.Add("bad", func(ctx flanksourceContext.Context, t *Task) (int, error) {
		return 0, assert.AnError
	})

	group.WaitFor()

	assert.Equal(t, "Failed", group.Status().String())
}

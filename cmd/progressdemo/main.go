// Command progressdemo drives the task pipeline against a handful of
// simulated jobs, exercising the worker pool, renderer and retry policy end
// to end. It also registers a shutdown hook that cancels every task; the
// command never calls shutdown.Shutdown itself, so that hook runs only if
// something else in the process does.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/spf13/cobra"

	"github.com/flowterm/progress/config"
	"github.com/flowterm/progress/shutdown"
	"github.com/flowterm/progress/task"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	options := task.DefaultManagerOptions()
	var jobCount int
	var failRate float64
	var presetFile string
	var presetName string

	cmd := &cobra.Command{
		Use:   "progressdemo",
		Short: "Run a batch of simulated jobs through the task pipeline",
		Long: `progressdemo starts a handful of simulated jobs, each reporting
incremental progress through the task manager's renderer, and prints a
summary once every job has reached a terminal status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(options, jobCount, failRate, presetFile, presetName)
		},
	}

	task.BindManagerPFlags(cmd.Flags(), options)
	cmd.Flags().IntVar(&jobCount, "jobs", 5, "Number of simulated jobs to run")
	cmd.Flags().Float64Var(&failRate, "fail-rate", 0.2, "Fraction of jobs that simulate a failure")
	cmd.Flags().StringVar(&presetFile, "preset-file", "", "YAML file registering named header templates")
	cmd.Flags().StringVar(&presetName, "preset", "job_progress", "Name of the header template to use")

	return cmd
}

func run(options *task.ManagerOptions, jobCount int, failRate float64, presetFile, presetName string) error {
	if options.MaxConcurrent <= 0 {
		options.MaxConcurrent = 3
	}
	tm := task.NewManagerWithOptions(options)

	registry := config.NewPresetRegistry()
	if presetFile != "" {
		loaded, err := config.LoadPresetRegistry(presetFile)
		if err != nil {
			return fmt.Errorf("loading preset file: %w", err)
		}
		registry = loaded
	}
	if tmpl, ok := registry.Template(presetName); ok {
		tm.SetTemplate(tmpl)
	} else {
		return fmt.Errorf("unknown preset %q", presetName)
	}

	shutdown.AddHookWithPriority("progressdemo-renderer", shutdown.PriorityRenderer, func() {
		tm.CancelAll()
	})

	tasks := make([]task.TypedTask[int], 0, jobCount)
	for i := 0; i < jobCount; i++ {
		name := fmt.Sprintf("job-%d", i+1)
		shouldFail := rand.Float64() < failRate

		tt := startJob(tm, name, shouldFail)
		tasks = append(tasks, tt)
	}

	exitCode := tm.Wait()

	succeeded, failed := 0, 0
	for _, tt := range tasks {
		if tt.IsOk() {
			succeeded++
		} else {
			failed++
		}
	}
	fmt.Fprintf(os.Stderr, "%d succeeded, %d failed\n", succeeded, failed)

	if exitCode != 0 {
		return fmt.Errorf("%d job(s) failed", failed)
	}
	return nil
}

// startJob enqueues a job that reports progress across a handful of steps,
// optionally failing partway through to exercise the retry/failure paths.
// A construction error here means the manager itself rejected the job (bad
// mode parameters), not a job failure, so it's fatal to the whole run.
func startJob(tm *task.Manager, name string, shouldFail bool) task.TypedTask[int] {
	const steps = 10

	t, err := tm.StartWithResult(name, func(ctx flanksourceContext.Context, t *task.Task) (interface{}, error) {
		for step := 1; step <= steps; step++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}

			t.SetProgress(uint64(step), uint64(steps))

			if shouldFail && step == steps/2 {
				return nil, fmt.Errorf("simulated failure in %s at step %d: service temporarily unavailable", name, step)
			}
		}
		return steps, nil
	}, task.WithTotal(steps))
	if err != nil {
		panic(fmt.Sprintf("progressdemo: could not start %s: %v", name, err))
	}

	return task.TypedTask[int]{Task: t}
}

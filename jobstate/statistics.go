package jobstate

import "fmt"

// StatisticsReport is a point-in-time snapshot of a job's progress state,
// grounded on the original crate's JobStatisticsReport.
type StatisticsReport struct {
	TotalJobs              uint64
	CompletedJobs          uint64
	Status                 Status
	ElapsedSeconds         float64
	EstimatedRemaining     *float64
	ProgressSpeed          *float64
	FailureCount           uint64
	RetryCount             uint64
	MaxRetries             uint64
	IsCancelled            bool
	ParentJobID            *uint64
	ChildJobCount          int
	ProgressPercentage     float64
}

// GenerateStatisticsReport snapshots the current state of b.
func (b *Base) GenerateStatisticsReport() StatisticsReport {
	report := StatisticsReport{
		TotalJobs:     b.GetTotalJobs(),
		CompletedJobs: b.GetCompletedJobs(),
		Status:        b.GetStatus(),
		ElapsedSeconds: b.GetElapsedTime().Seconds(),
		FailureCount:  b.GetFailureCount(),
		RetryCount:    b.GetRetryCount(),
		MaxRetries:    b.GetMaxRetries(),
		IsCancelled:   b.IsCancelled(),
		ChildJobCount: len(b.GetChildJobIDs()),
	}
	if eta, ok := b.GetEstimatedTimeRemaining(); ok {
		secs := eta.Seconds()
		report.EstimatedRemaining = &secs
	}
	if speed, ok := b.GetProgressSpeed(); ok {
		s := speed
		report.ProgressSpeed = &s
	}
	if parent, ok := b.GetParentJobID(); ok {
		p := parent
		report.ParentJobID = &p
	}
	if b.GetTotalJobs() > 0 {
		report.ProgressPercentage = float64(report.CompletedJobs) / float64(report.TotalJobs) * 100.0
	}
	return report
}

// Summary renders a one-line human-readable status report, grounded on the
// original crate's JobStatistics::get_job_summary.
func (b *Base) Summary() string {
	report := b.GenerateStatisticsReport()

	remaining := "unknown"
	if report.EstimatedRemaining != nil {
		remaining = fmt.Sprintf("%.1fs", *report.EstimatedRemaining)
	}
	speed := "unknown"
	if report.ProgressSpeed != nil {
		speed = fmt.Sprintf("%.1f units/s", *report.ProgressSpeed)
	}

	return fmt.Sprintf(
		"Status: %s, Progress: %.1f%% (%d/%d) [%.1fs elapsed, %s remaining, %s]",
		report.Status,
		report.ProgressPercentage,
		report.CompletedJobs,
		report.TotalJobs,
		report.ElapsedSeconds,
		remaining,
		speed,
	)
}

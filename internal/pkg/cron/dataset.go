package cron

import (
	"context"
	"time"
)

// DatasetReloadJob is the name of the periodic dataset refresh.
const DatasetReloadJob = "dataset-reload"

// Reloader refreshes the in-memory workforce dataset.
type Reloader interface {
	Reload(ctx context.Context) error
}

// RegisterDatasetJobs schedules a dataset reload every interval. The first
// run is delayed because the server loads the dataset at startup. Nothing is
// registered for a zero interval.
func RegisterDatasetJobs(s *Scheduler, r Reloader, interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.AddJob(Job{
		Name:        DatasetReloadJob,
		Interval:    interval,
		SkipInitial: true,
		Fn:          r.Reload,
	})
}

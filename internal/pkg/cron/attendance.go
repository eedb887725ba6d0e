package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kerjapoint/attendance-backend-go/internal/service/autocheckout"
)

// AttendanceJobs bundles the scheduled attendance maintenance work.
type AttendanceJobs struct {
	runner   *autocheckout.Runner
	interval time.Duration
}

func NewAttendanceJobs(runner *autocheckout.Runner, interval time.Duration) *AttendanceJobs {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &AttendanceJobs{runner: runner, interval: interval}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_checkout_open_sessions", j.interval, j.AutoCheckoutOpenSessions)
}

// AutoCheckoutOpenSessions force-closes sessions past their operational
// window plus the outlet's overtime threshold. The cron scheduler serializes
// executions of this job, which the runner requires.
func (j *AttendanceJobs) AutoCheckoutOpenSessions(ctx context.Context) error {
	if _, err := j.runner.Run(ctx, false); err != nil {
		return fmt.Errorf("auto-checkout run failed: %w", err)
	}
	return nil
}

package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker long running worker
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker drives onWork in a tight loop, backing off when a pass
// returns an error or reports nothing to do.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick run onWork repeatedly until the context ends.
func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	dur := time.Millisecond
	timer := time.NewTimer(dur)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := onWork(ctx); err != nil {
				dur = w.errDelay()
			} else {
				dur = w.delay()
			}
			timer.Reset(dur)
		}
	}
}

func (w *TickWorker) delay() time.Duration {
	if w.Delay > 0 {
		return w.Delay
	}
	return 100 * time.Millisecond
}

func (w *TickWorker) errDelay() time.Duration {
	if w.ErrDelay > 0 {
		return w.ErrDelay
	}
	return time.Second
}

// OnWork job callback
type OnWork func() error

// BaseJob cron scheduled job
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

// Start start the cron schedule
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop the cron schedule
func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

// Run one scheduled pass, skipped while the previous is still running
func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	job.OnWork()
	job.IsRunning = false
}

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Loop runs a job, waits a fixed interval, and repeats until the context is
// cancelled. Strictly sequential: the wait starts only after the job returns,
// so cycles never overlap.
type Loop struct {
	interval time.Duration

	// Replaced in tests so ticks can be driven without wall-clock sleeps.
	after func(time.Duration) <-chan time.Time
}

func NewLoop(interval time.Duration) *Loop {
	return &Loop{
		interval: interval,
		after:    time.After,
	}
}

// Run executes job immediately and then once per interval. Job errors are the
// job's own business (it logs them); Run only stops on cancellation and
// returns nil so a signal-initiated stop exits cleanly.
func (l *Loop) Run(ctx context.Context, job func(context.Context) error) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		_ = job(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-l.after(l.interval):
		}
	}
}

// Cron schedules jobs by cron expression (six fields, with seconds). A job
// still running when its next tick arrives delays that tick instead of
// running concurrently.
type Cron struct {
	cron *cron.Cron
}

func NewCron() *Cron {
	return &Cron{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.DelayIfStillRunning(cron.DiscardLogger)),
		),
	}
}

func (s *Cron) AddJob(spec string, job func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		_ = job(context.Background())
	})
	return err
}

func (s *Cron) Start() {
	s.cron.Start()
}

func (s *Cron) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const jobTimeout = 5 * time.Minute

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

type jobRecorder interface {
	JobRun(job string, d time.Duration, success bool)
}

type Scheduler struct {
	log      logger.Log
	cron     *cron.Cron
	recorder jobRecorder
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(l logger.Log, r jobRecorder) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		log:      l,
		cron:     cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		recorder: r,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add registers a job under a standard five-field cron spec.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	err := job(ctx)
	elapsed := time.Since(start)

	if s.recorder != nil {
		s.recorder.JobRun(name, elapsed, err == nil)
	}
	if err != nil {
		s.log.ErrorErr("scheduled job failed", err, "job", name)
		return
	}
	s.log.Debug("scheduled job done", "job", name, "elapsed", elapsed)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

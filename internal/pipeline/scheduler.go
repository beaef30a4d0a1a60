// Package pipeline runs the recurring jobs that keep the system fresh:
// feature ingestion, model training and forecast inference.
package pipeline

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Job is one recurring pipeline task.
type Job struct {
	Name     string
	Interval time.Duration
	Retry    RetryConfig

	// RunOnStart executes the job immediately instead of waiting for the
	// first tick.
	RunOnStart bool

	Fn func(ctx context.Context) error
}

// Scheduler drives a set of jobs on independent tickers. Start launches one
// goroutine per job; Stop cancels them and waits for in-flight runs.
type Scheduler struct {
	jobs []Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler for the given jobs.
func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// Start launches all job loops. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(ctx, job)
	}
}

// Stop cancels all loops and blocks until running jobs return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	defer s.wg.Done()

	logger := log.WithField("job", job.Name)
	logger.WithField("interval", job.Interval.String()).Info("pipeline job scheduled")

	if job.RunOnStart {
		s.runOnce(ctx, job, logger)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx, job, logger)
		case <-ctx.Done():
			logger.Info("pipeline job stopped")
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job, logger *log.Entry) {
	start := time.Now()
	if err := withRetry(ctx, job.Retry, job.Fn); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithError(err).Error("pipeline job failed")
		return
	}
	logger.WithField("elapsed", time.Since(start).Round(time.Millisecond).String()).Info("pipeline job complete")
}

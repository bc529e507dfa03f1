// Package scheduler runs the client lifecycle sweeps on a single gocron v2 scheduler.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/saasportal/internal/shared/biztime"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of records it acted on.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// Job names tag the sweeps in gocron and in logs.
const (
	JobExpire  = "lifecycle-expire"
	JobNotify  = "lifecycle-notify"
	JobStorage = "lifecycle-storage"
)

// LifecycleJobs are the three reconciliation sweeps.
type LifecycleJobs struct {
	Expire  BatchJob
	Notify  BatchJob
	Storage BatchJob
}

// Intervals configures how often each sweep runs and how long one run may take.
type Intervals struct {
	Expire     time.Duration
	Notify     time.Duration
	Storage    time.Duration
	RunTimeout time.Duration
}

// SchedulerManager owns the gocron scheduler of the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterLifecycleJobs registers one independent duration job per sweep.
// A run that is still going when the next tick fires is rescheduled, never doubled.
func (m *SchedulerManager) RegisterLifecycleJobs(jobs LifecycleJobs, iv Intervals) error {
	if iv.RunTimeout <= 0 {
		iv.RunTimeout = 30 * time.Minute
	}

	specs := []struct {
		name     string
		job      BatchJob
		interval time.Duration
	}{
		{JobExpire, jobs.Expire, iv.Expire},
		{JobNotify, jobs.Notify, iv.Notify},
		{JobStorage, jobs.Storage, iv.Storage},
	}

	for _, spec := range specs {
		if spec.job == nil {
			continue
		}
		if spec.interval <= 0 {
			return fmt.Errorf("job %s: interval must be positive", spec.name)
		}

		name, job := spec.name, spec.job
		_, err := m.scheduler.NewJob(
			gocron.DurationJob(spec.interval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), iv.RunTimeout)
				defer cancel()
				m.runBatch(ctx, name, job)
			}),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithTags("lifecycle"),
			gocron.WithName(name),
		)
		if err != nil {
			return fmt.Errorf("failed to register job %s: %w", name, err)
		}

		m.logger.Infow("registered lifecycle job", "job", name, "interval", spec.interval)
	}

	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("lifecycle job started", "job", name)

	startTime := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if err != nil {
		// Shutdown cancels the context; that is not a failure.
		if ctx.Err() != nil {
			m.logger.Warnw("lifecycle job interrupted", "job", name, "processed", count)
			return
		}
		m.logger.Errorw("lifecycle job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("lifecycle job processed clients",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("lifecycle job found nothing to do",
			"job", name,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

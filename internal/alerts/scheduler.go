package alerts

import (
	"context"
	"time"

	"github.com/ortelius/obsolescence-backend/config"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler triggers the alert job on a cron schedule in the configured timezone
type Scheduler struct {
	cron    *cron.Cron
	job     *Job
	cfg     config.SchedulerConfig
	logger  *zap.Logger
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler registers the job with a cron scheduler. An invalid schedule is an error.
func NewScheduler(cfg config.SchedulerConfig, job *Job, logger *zap.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		job:    job,
		cfg:    cfg,
		logger: logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	id, err := s.cron.AddFunc(cfg.Schedule, func() {
		if _, err := job.TryRun(s.ctx, model.TriggerSchedule); err != nil {
			logger.Info("Scheduled alert run skipped", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	s.entryID = id
	return s, nil
}

// Start begins triggering. It does nothing when the scheduler is disabled.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("Alert scheduler disabled")
		return
	}
	s.cron.Start()
	s.logger.Info("Alert scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.String("timezone", s.cfg.Timezone),
		zap.Time("next_run", s.NextRun()))
}

// Stop halts triggering and waits for a running pass up to ctx's deadline
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.cancel()
}

// NextRun returns the next trigger time, zero before Start
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Package alerts runs the daily obsolescence alert job: it emails the owner
// and project contact of every application with an item close to its end of
// support.
package alerts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/model"
	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned when a run is requested while one is in progress
var ErrAlreadyRunning = errors.New("alert job already running")

// Dispatcher is the part of the notification dispatcher the job uses
type Dispatcher interface {
	Upcoming(ctx context.Context, withinMonths int) ([]notify.Alert, error)
	SendEmail(ctx context.Context, targetType, targetID string, recipients []string, subject, body string) (model.Notification, error)
}

// RunRecorder persists run summaries
type RunRecorder interface {
	SaveAlertRun(ctx context.Context, summary model.AlertRunSummary) error
	LastAlertRun(ctx context.Context) (*model.AlertRunSummary, error)
}

// Job sends the alerts for every upcoming obsolescence. At most one run is
// active at a time.
type Job struct {
	dispatcher      Dispatcher
	recorder        RunRecorder
	thresholdMonths int
	logger          *zap.Logger

	running atomic.Bool
	mu      sync.RWMutex
	last    *model.AlertRunSummary
}

// NewJob creates the alert job. recorder may be nil.
func NewJob(dispatcher Dispatcher, recorder RunRecorder, thresholdMonths int, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		dispatcher:      dispatcher,
		recorder:        recorder,
		thresholdMonths: thresholdMonths,
		logger:          logger,
	}
}

// Run performs one pass. A failure on one item is logged and the pass
// continues with the next one.
func (j *Job) Run(ctx context.Context) model.AlertRunSummary {
	summary := model.AlertRunSummary{StartedAt: time.Now().UTC()}

	alerts, err := j.dispatcher.Upcoming(ctx, j.thresholdMonths)
	if err != nil {
		j.logger.Error("Failed to load upcoming obsolescences", zap.Error(err))
		summary.Error = err.Error()
		summary.FinishedAt = time.Now().UTC()
		return summary
	}

	for _, alert := range alerts {
		summary.Processed++
		app := alert.Application

		recipients := notify.DefaultRecipients(app, alert.Project)
		if len(recipients) == 0 {
			summary.Skipped++
			continue
		}

		body := notify.FormatNotificationHTML(app, alert.Project, alert.Version, alert.Dependency)
		if _, err := j.dispatcher.SendEmail(ctx, notify.TargetApplication, app.Key, recipients, notify.AlertSubject(app.Name), body); err != nil {
			summary.Failed++
			j.logger.Warn("Alert notification failed",
				zap.String("application", app.Name),
				zap.Strings("recipients", recipients),
				zap.Error(err))
			continue
		}
		summary.Sent++
	}

	summary.FinishedAt = time.Now().UTC()
	j.logger.Info("Alert job finished",
		zap.Int("processed", summary.Processed),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary
}

// TryRun performs a pass unless one is already running
func (j *Job) TryRun(ctx context.Context, trigger string) (model.AlertRunSummary, error) {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Info("Alert job already running, skipping", zap.String("trigger", trigger))
		return model.AlertRunSummary{}, ErrAlreadyRunning
	}
	return j.runAndRecord(ctx, trigger), nil
}

// Start launches a pass in the background. It returns ErrAlreadyRunning
// without starting anything when a pass is in progress.
func (j *Job) Start(ctx context.Context, trigger string) error {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.Info("Alert job already running, skipping", zap.String("trigger", trigger))
		return ErrAlreadyRunning
	}
	go j.runAndRecord(ctx, trigger)
	return nil
}

// runAndRecord runs one pass and stores its summary. The caller must hold
// the running flag; it is released when the pass ends.
func (j *Job) runAndRecord(ctx context.Context, trigger string) model.AlertRunSummary {
	defer j.running.Store(false)

	summary := j.Run(ctx)
	summary.Trigger = trigger

	j.mu.Lock()
	j.last = &summary
	j.mu.Unlock()

	if j.recorder != nil {
		if err := j.recorder.SaveAlertRun(ctx, summary); err != nil {
			j.logger.Warn("Failed to save alert run summary", zap.Error(err))
		}
	}
	return summary
}

// Running reports whether a pass is in progress
func (j *Job) Running() bool {
	return j.running.Load()
}

// LastRun returns the latest pass summary, falling back to the persisted one
func (j *Job) LastRun(ctx context.Context) (*model.AlertRunSummary, error) {
	j.mu.RLock()
	last := j.last
	j.mu.RUnlock()
	if last != nil {
		copied := *last
		return &copied, nil
	}
	if j.recorder == nil {
		return nil, nil
	}
	return j.recorder.LastAlertRun(ctx)
}

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/internal/alerts"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	running bool
	started []string
	last    *model.AlertRunSummary
}

func (f *fakeJob) Start(_ context.Context, trigger string) error {
	if f.running {
		return alerts.ErrAlreadyRunning
	}
	f.started = append(f.started, trigger)
	return nil
}

func (f *fakeJob) Running() bool { return f.running }

func (f *fakeJob) LastRun(context.Context) (*model.AlertRunSummary, error) {
	return f.last, nil
}

func newTestApp(job AlertJob) *fiber.App {
	app := fiber.New()
	app.Post("/alerts/run", PostRunAlerts(job))
	app.Get("/alerts/status", GetAlertsStatus(job))
	return app
}

func TestPostRunAlertsStartsManualRun(t *testing.T) {
	job := &fakeJob{}
	app := newTestApp(job)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/alerts/run", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []string{model.TriggerManual}, job.started)
}

func TestPostRunAlertsConflictWhileRunning(t *testing.T) {
	job := &fakeJob{running: true}
	app := newTestApp(job)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/alerts/run", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Empty(t, job.started)
}

func TestGetAlertsStatus(t *testing.T) {
	started := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	job := &fakeJob{last: &model.AlertRunSummary{
		Trigger:    model.TriggerSchedule,
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Processed:  3,
		Sent:       2,
		Failed:     1,
	}}
	app := newTestApp(job)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/alerts/status", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status AlertStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Running)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, 2, status.LastRun.Sent)
	assert.Equal(t, model.TriggerSchedule, status.LastRun.Trigger)
}

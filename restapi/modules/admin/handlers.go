// Package admin implements the REST API handlers for admin operations.
// It provides endpoints to trigger the alert job and monitor its status.
package admin

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/internal/alerts"
	"github.com/ortelius/obsolescence-backend/model"
)

// AlertJob is the alert job surface used by the handlers
type AlertJob interface {
	Start(ctx context.Context, trigger string) error
	Running() bool
	LastRun(ctx context.Context) (*model.AlertRunSummary, error)
}

// AlertStatusResponse reports the alert job state
type AlertStatusResponse struct {
	Running bool                   `json:"running"`
	LastRun *model.AlertRunSummary `json:"last_run,omitempty"`
}

// PostRunAlerts triggers an alert job pass in the background
func PostRunAlerts(job AlertJob) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := job.Start(context.Background(), model.TriggerManual); err != nil {
			if errors.Is(err, alerts.ErrAlreadyRunning) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"success": false,
					"message": "Alert job already in progress",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success": true,
			"message": "Alert job started",
			"status":  "processing",
		})
	}
}

// GetAlertsStatus returns whether the alert job is running and its last summary
func GetAlertsStatus(job AlertJob) fiber.Handler {
	return func(c *fiber.Ctx) error {
		last, err := job.LastRun(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(AlertStatusResponse{
			Running: job.Running(),
			LastRun: last,
		})
	}
}

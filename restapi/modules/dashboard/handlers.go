// Package dashboard implements the REST API handler for dashboard metrics.
package dashboard

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/model"
)

// MetricsService computes the dashboard summary
type MetricsService interface {
	ComputeMetrics(ctx context.Context) (model.DashboardMetrics, error)
}

// GetMetrics returns the full dashboard summary
func GetMetrics(svc MetricsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		metrics, err := svc.ComputeMetrics(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to compute metrics: " + err.Error(),
			})
		}
		return c.JSON(metrics)
	}
}

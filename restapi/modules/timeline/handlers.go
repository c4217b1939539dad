// Package timeline implements the REST API handler that lists the audit trail
// of an application.
package timeline

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/model"
)

// Store lists timeline events
type Store interface {
	ListTimelineEvents(ctx context.Context, applicationKey string) ([]model.TimelineEvent, error)
}

// ListTimeline returns the events of the application named by ?application_id, newest first
func ListTimeline(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applicationKey := c.Query("application_id")
		if applicationKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "application_id is required",
			})
		}

		items, err := store.ListTimelineEvents(c.UserContext(), applicationKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(items)
	}
}

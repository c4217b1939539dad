// Package notifications implements the REST API handlers that send
// obsolescence notifications and list the notification history.
package notifications

import (
	"context"
	"errors"
	"net/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/model"
)

// Sender is the dispatcher surface used by the handlers
type Sender interface {
	ResolveTarget(ctx context.Context, applicationKey, versionKey, dependencyKey string) (*notify.Target, error)
	SendEmail(ctx context.Context, targetType, targetID string, recipients []string, subject, body string) (model.Notification, error)
	SendTeams(ctx context.Context, targetType, targetID, summary string) (model.Notification, error)
}

// HistoryStore lists recorded notifications
type HistoryStore interface {
	ListNotifications(ctx context.Context) ([]model.Notification, error)
}

// errorStatus maps dispatcher errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, notify.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, notify.ErrNoRecipients):
		return fiber.StatusBadRequest
	case errors.Is(err, notify.ErrConfigurationMissing):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, notify.ErrDeliveryFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// PostEmail sends an email about an application and returns the notification record
func PostEmail(sender Sender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.EmailNotificationRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		if req.ApplicationID == "" || len(req.Recipients) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "application_id and recipients are required",
			})
		}
		recipients := make([]string, 0, len(req.Recipients))
		for _, r := range req.Recipients {
			addr, err := mail.ParseAddress(r)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid recipient address: " + r,
				})
			}
			// SMTP RCPT takes the bare address, not the display form
			recipients = append(recipients, addr.Address)
		}

		ctx := c.UserContext()
		target, err := sender.ResolveTarget(ctx, req.ApplicationID, req.VersionID, req.DependencyID)
		if err != nil {
			return errorResponse(c, err)
		}
		app := target.Application.Application

		subject := req.Subject
		if subject == "" {
			subject = notify.AlertSubject(app.Name)
		}
		body := notify.FormatNotificationHTML(app, target.Application.Project, target.Version, target.Dependency)

		n, err := sender.SendEmail(ctx, notify.TargetApplication, app.Key, recipients, subject, body)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

// PostTeams posts an application alert to the Teams webhook
func PostTeams(sender Sender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.TeamsNotificationRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		if req.ApplicationID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "application_id is required",
			})
		}

		ctx := c.UserContext()
		target, err := sender.ResolveTarget(ctx, req.ApplicationID, req.VersionID, req.DependencyID)
		if err != nil {
			return errorResponse(c, err)
		}
		app := target.Application.Application

		summary := req.Summary
		if summary == "" {
			summary = notify.DefaultTeamsSummary(app.Name)
		}

		n, err := sender.SendTeams(ctx, notify.TargetApplication, app.Key, summary)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

// ListNotifications returns the notification history, newest first
func ListNotifications(store HistoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := store.ListNotifications(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(items)
	}
}

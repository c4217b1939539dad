package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/model"
	"go.uber.org/zap"
)

// Sender is the part of the dispatcher a request event needs
type Sender interface {
	ResolveTarget(ctx context.Context, applicationKey, versionKey, dependencyKey string) (*notify.Target, error)
	SendEmail(ctx context.Context, targetType, targetID string, recipients []string, subject, body string) (model.Notification, error)
	SendTeams(ctx context.Context, targetType, targetID, summary string) (model.Notification, error)
}

// HandleNotificationRequested processes a notification.requested event from Kafka.
func HandleNotificationRequested(ctx context.Context, msg []byte, sender Sender, logger *zap.Logger) error {
	var event NotificationRequestedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal NotificationRequestedEvent: %w", err)
	}

	if event.ApplicationID == "" {
		return fmt.Errorf("invalid event: missing application_id")
	}

	target, err := sender.ResolveTarget(ctx, event.ApplicationID, event.VersionID, event.DependencyID)
	if err != nil {
		return err
	}
	app := target.Application.Application

	var n model.Notification
	switch event.Channel {
	case model.ChannelEmail:
		recipients := event.Recipients
		if len(recipients) == 0 {
			recipients = notify.DefaultRecipients(app, target.Application.Project)
		}
		if len(recipients) == 0 {
			logger.Info("No recipients for requested notification", zap.String("application", app.Name))
			return nil
		}
		subject := event.Subject
		if subject == "" {
			subject = notify.AlertSubject(app.Name)
		}
		body := notify.FormatNotificationHTML(app, target.Application.Project, target.Version, target.Dependency)
		n, err = sender.SendEmail(ctx, notify.TargetApplication, app.Key, recipients, subject, body)
	case model.ChannelTeams:
		summary := event.Summary
		if summary == "" {
			summary = notify.DefaultTeamsSummary(app.Name)
		}
		n, err = sender.SendTeams(ctx, notify.TargetApplication, app.Key, summary)
	default:
		return fmt.Errorf("invalid event: unknown channel %q", event.Channel)
	}
	if err != nil {
		return err
	}

	logger.Info("Processed notification request",
		zap.String("event_id", event.EventID),
		zap.String("application", app.Name),
		zap.String("channel", string(n.Channel)))
	return nil
}

// Package notify delivers obsolescence alerts by email or Teams webhook and
// keeps the append-only notification history.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ortelius/obsolescence-backend/config"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/ortelius/obsolescence-backend/util"
	"go.uber.org/zap"
)

// TargetApplication is the target type recorded for application alerts
const TargetApplication = "application"

// teamsRecipient is stored as the recipient list of webhook deliveries
const teamsRecipient = "teams"

// Store is the data access the dispatcher needs
type Store interface {
	ListVersions(ctx context.Context) ([]model.VersionItem, error)
	ListDependencies(ctx context.Context) ([]model.DependencyItem, error)
	GetApplication(ctx context.Context, key string) (*model.ApplicationItem, error)
	GetVersion(ctx context.Context, key string) (*model.Version, error)
	GetDependency(ctx context.Context, key string) (*model.Dependency, error)
	AppendNotification(ctx context.Context, n model.Notification) (model.Notification, error)
}

// Publisher announces persisted notifications to other services
type Publisher interface {
	PublishNotification(ctx context.Context, n model.Notification) error
}

// Alert is one expiring item: a version or a dependency of an application
type Alert struct {
	Application model.Application `json:"application"`
	Project     *model.Project    `json:"project,omitempty"`
	Version     *model.Version    `json:"version,omitempty"`
	Dependency  *model.Dependency `json:"dependency,omitempty"`
}

// Target is an application with the optional version and dependency a manual
// notification refers to
type Target struct {
	Application model.ApplicationItem
	Version     *model.Version
	Dependency  *model.Dependency
}

// Dispatcher sends notifications and records the successful ones
type Dispatcher struct {
	smtp           config.SMTPConfig
	teams          config.TeamsConfig
	recordFailures bool
	location       *time.Location

	store     Store
	mailer    Mailer
	client    *http.Client
	publisher Publisher
	logger    *zap.Logger

	today func() civil.Date
}

// NewDispatcher creates a dispatcher. A nil mailer uses SMTP with cfg.SMTP,
// a nil publisher disables event publishing.
func NewDispatcher(cfg *config.Config, store Store, mailer Mailer, publisher Publisher, logger *zap.Logger) *Dispatcher {
	if mailer == nil {
		mailer = NewSMTPMailer(cfg.SMTP)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		smtp:           cfg.SMTP,
		teams:          cfg.Teams,
		recordFailures: cfg.Notifications.RecordFailures,
		location:       cfg.Scheduler.Location,
		store:          store,
		mailer:         mailer,
		client:         &http.Client{Timeout: cfg.Teams.Timeout},
		publisher:      publisher,
		logger:         logger,
	}
	d.today = func() civil.Date { return util.Today(d.location) }
	return d
}

// SendEmail delivers an HTML email and records it
func (d *Dispatcher) SendEmail(ctx context.Context, targetType, targetID string, recipients []string, subject, body string) (model.Notification, error) {
	if !d.smtp.Configured() {
		return model.Notification{}, configurationMissing(model.ChannelEmail, "SMTP host or sender not set")
	}

	recipients = util.NormalizeRecipients(recipients)
	if len(recipients) == 0 {
		return model.Notification{}, ErrNoRecipients
	}
	joined := strings.Join(recipients, ", ")

	if err := d.mailer.Send(ctx, recipients, subject, body); err != nil {
		d.logger.Error("SMTP delivery failed",
			zap.String("target_id", targetID),
			zap.String("recipients", joined),
			zap.Error(err))
		d.recordFailure(ctx, targetType, targetID, model.ChannelEmail, joined, body)
		return model.Notification{}, deliveryFailed(model.ChannelEmail, err)
	}

	return d.record(ctx, targetType, targetID, model.ChannelEmail, joined, model.NotificationSent, body)
}

// SendTeams posts the summary to the Teams incoming webhook and records it
func (d *Dispatcher) SendTeams(ctx context.Context, targetType, targetID, summary string) (model.Notification, error) {
	if util.IsEmpty(d.teams.WebhookURL) {
		return model.Notification{}, configurationMissing(model.ChannelTeams, "webhook URL not set")
	}

	if err := d.postWebhook(ctx, summary); err != nil {
		d.logger.Error("Teams webhook failed", zap.String("target_id", targetID), zap.Error(err))
		d.recordFailure(ctx, targetType, targetID, model.ChannelTeams, teamsRecipient, summary)
		return model.Notification{}, deliveryFailed(model.ChannelTeams, err)
	}

	return d.record(ctx, targetType, targetID, model.ChannelTeams, teamsRecipient, model.NotificationSent, summary)
}

func (d *Dispatcher) postWebhook(ctx context.Context, summary string) error {
	payload, err := json.Marshal(map[string]string{"text": summary})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.teams.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}

func (d *Dispatcher) record(ctx context.Context, targetType, targetID string, channel model.Channel, recipients, status, message string) (model.Notification, error) {
	n := model.NewNotification(targetType, targetID, channel, recipients, status, message)

	saved, err := d.store.AppendNotification(ctx, *n)
	if err != nil {
		return model.Notification{}, fmt.Errorf("failed to record notification: %w", err)
	}

	if d.publisher != nil {
		if err := d.publisher.PublishNotification(ctx, saved); err != nil {
			d.logger.Warn("Failed to publish notification event", zap.String("key", saved.Key), zap.Error(err))
		}
	}
	return saved, nil
}

func (d *Dispatcher) recordFailure(ctx context.Context, targetType, targetID string, channel model.Channel, recipients, message string) {
	if !d.recordFailures {
		return
	}
	if _, err := d.record(ctx, targetType, targetID, channel, recipients, model.NotificationFailed, message); err != nil {
		d.logger.Warn("Failed to record failed delivery", zap.String("target_id", targetID), zap.Error(err))
	}
}

// Upcoming returns every version and every dependency whose end of support
// falls on or before today + 30*withinMonths days, versions first.
func (d *Dispatcher) Upcoming(ctx context.Context, withinMonths int) ([]Alert, error) {
	threshold := d.today().AddDays(30 * withinMonths)

	versions, err := d.store.ListVersions(ctx)
	if err != nil {
		return nil, err
	}
	dependencies, err := d.store.ListDependencies(ctx)
	if err != nil {
		return nil, err
	}

	alerts := []Alert{}
	for i := range versions {
		v := versions[i]
		if v.Version.EndOfSupport == nil || v.Version.EndOfSupport.After(threshold) {
			continue
		}
		alerts = append(alerts, Alert{Application: v.Application, Project: v.Project, Version: &v.Version})
	}
	for i := range dependencies {
		dep := dependencies[i]
		if dep.Dependency.EndOfSupport == nil || dep.Dependency.EndOfSupport.After(threshold) {
			continue
		}
		alerts = append(alerts, Alert{Application: dep.Application, Project: dep.Project, Dependency: &dep.Dependency})
	}
	return alerts, nil
}

// ResolveTarget loads the application a manual notification refers to. A
// version or dependency that does not belong to the application is ignored.
func (d *Dispatcher) ResolveTarget(ctx context.Context, applicationKey, versionKey, dependencyKey string) (*Target, error) {
	app, err := d.store.GetApplication(ctx, applicationKey)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, applicationKey)
	}

	target := &Target{Application: *app}

	if versionKey != "" {
		v, err := d.store.GetVersion(ctx, versionKey)
		if err != nil {
			return nil, err
		}
		if v != nil && v.ApplicationKey == app.Application.Key {
			target.Version = v
		}
	}
	if dependencyKey != "" {
		dep, err := d.store.GetDependency(ctx, dependencyKey)
		if err != nil {
			return nil, err
		}
		if dep != nil && dep.ApplicationKey == app.Application.Key {
			target.Dependency = dep
		}
	}
	return target, nil
}

// Package notifications defines the Kafka events exchanged about obsolescence notifications.
package notifications

import (
	"time"

	"github.com/ortelius/obsolescence-backend/model"
)

// Event types
const (
	EventNotificationSent      = "notification.sent"
	EventNotificationRequested = "notification.requested"
)

// NotificationSentEvent is published after a notification record is persisted.
type NotificationSentEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Notification model.Notification `json:"notification"`
}

// NotificationRequestedEvent asks this service to notify about an application.
type NotificationRequestedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	Channel       model.Channel `json:"channel"`
	ApplicationID string        `json:"application_id"`
	VersionID     string        `json:"version_id,omitempty"`
	DependencyID  string        `json:"dependency_id,omitempty"`

	// Email only; owner and project contact are used when empty
	Recipients []string `json:"recipients,omitempty"`
	Subject    string   `json:"subject,omitempty"`

	// Teams only
	Summary string `json:"summary,omitempty"`
}

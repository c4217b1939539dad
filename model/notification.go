// Package model - Notification is the append-only audit record of a delivery attempt
package model

import "time"

// Notification delivery outcomes
const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification records one delivery through a channel. Records are never updated.
type Notification struct {
	Key        string    `json:"_key,omitempty"`
	TargetType string    `json:"target_type"` // e.g., "application"
	TargetID   string    `json:"target_id"`   // key of the target document
	Channel    Channel   `json:"type"`        // "email" or "teams"
	Recipients string    `json:"recipients"`  // comma separated, "teams" for the webhook
	Status     string    `json:"status"`      // "sent" or "failed"
	SentAt     time.Time `json:"sent_at"`
	Message    string    `json:"message,omitempty"`
	ObjType    string    `json:"objtype"` // "Notification"
	CreatedAt  time.Time `json:"created_at"`
}

// NewNotification creates a new notification record stamped with the current time.
func NewNotification(targetType, targetID string, channel Channel, recipients, status, message string) *Notification {
	now := time.Now().UTC()
	return &Notification{
		TargetType: targetType,
		TargetID:   targetID,
		Channel:    channel,
		Recipients: recipients,
		Status:     status,
		SentAt:     now,
		Message:    message,
		ObjType:    "Notification",
		CreatedAt:  now,
	}
}

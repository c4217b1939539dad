// Package model - TimelineEvent is the append-only audit trail of an application
package model

import "time"

// Timeline entity types
const (
	EntityApplication = "application"
	EntityVersion     = "version"
	EntityDependency  = "dependency"
	EntityActionPlan  = "action_plan"
)

// Timeline event types
const (
	EventCreate = "create"
	EventUpdate = "update"
	EventDelete = "delete"
)

// TimelineEvent records one change made to an application or one of its items.
// Events are never updated.
type TimelineEvent struct {
	Key            string    `json:"_key,omitempty"`
	ApplicationKey string    `json:"application_key"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	EventType      string    `json:"event_type"`
	Description    string    `json:"description"`
	PerformedBy    string    `json:"performed_by,omitempty"`
	ObjType        string    `json:"objtype,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTimelineEvent creates an event stamped with the current time
func NewTimelineEvent(applicationKey, entityType, entityID, eventType, description, performedBy string) *TimelineEvent {
	return &TimelineEvent{
		ApplicationKey: applicationKey,
		EntityType:     entityType,
		EntityID:       entityID,
		EventType:      eventType,
		Description:    description,
		PerformedBy:    performedBy,
		ObjType:        "TimelineEvent",
		CreatedAt:      time.Now().UTC(),
	}
}

// Package timeline writes the append-only audit trail of inventory changes.
package timeline

import (
	"context"

	"github.com/ortelius/obsolescence-backend/model"
	"go.uber.org/zap"
)

// Store persists timeline events
type Store interface {
	AppendTimelineEvent(ctx context.Context, e model.TimelineEvent) (model.TimelineEvent, error)
}

// Recorder appends timeline events. A failed write is logged and never fails
// the change it describes, which is already stored.
type Recorder struct {
	store  Store
	logger *zap.Logger
}

// NewRecorder creates a recorder
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends e
func (r *Recorder) Record(ctx context.Context, e model.TimelineEvent) {
	if _, err := r.store.AppendTimelineEvent(ctx, e); err != nil {
		r.logger.Warn("Failed to record timeline event",
			zap.String("application", e.ApplicationKey),
			zap.String("entity_type", e.EntityType),
			zap.String("entity_id", e.EntityID),
			zap.String("event_type", e.EventType),
			zap.Error(err))
	}
}

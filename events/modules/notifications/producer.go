package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/segmentio/kafka-go"
)

// NotificationProducer sends notification events to Kafka
type NotificationProducer struct {
	Writer *kafka.Writer
}

// NewNotificationProducer initializes a new Kafka writer for notification events
func NewNotificationProducer(brokers []string, topic string) *NotificationProducer {
	return &NotificationProducer{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 10 * time.Second,
		},
	}
}

// NewSentEvent wraps a persisted notification in its event envelope
func NewSentEvent(n model.Notification) NotificationSentEvent {
	return NotificationSentEvent{
		EventType:     EventNotificationSent,
		EventID:       uuid.New().String(),
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		Notification:  n,
	}
}

// PublishNotification sends a notification.sent event keyed by the target
func (p *NotificationProducer) PublishNotification(ctx context.Context, n model.Notification) error {
	payload, err := json.Marshal(NewSentEvent(n))
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.TargetType + ":" + n.TargetID),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *NotificationProducer) Close() error {
	return p.Writer.Close()
}

// Package kafka runs the consumer that turns notification.requested events into deliveries.
package kafka

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ortelius/obsolescence-backend/config"
	notifications "github.com/ortelius/obsolescence-backend/events/modules/notifications"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

// NewDialer returns a dialer using SASL/PLAIN over TLS when credentials are set
func NewDialer(cfg config.KafkaConfig) *kafka.Dialer {
	if cfg.APIKey != "" && cfg.APISecret != "" {
		return &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			SASLMechanism: plain.Mechanism{
				Username: cfg.APIKey,
				Password: cfg.APISecret,
			},
			TLS: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	// Local development (no SASL/TLS)
	return &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
}

// RunEventProcessor checks the broker is reachable and starts a goroutine
// consuming notification requests until ctx is cancelled.
func RunEventProcessor(ctx context.Context, cfg config.KafkaConfig, sender notifications.Sender, logger *zap.Logger) error {
	dialer := NewDialer(cfg)

	var conn *kafka.Conn
	var err error

	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		logger.Info("Kafka connection attempt", zap.Int("attempt", i), zap.String("broker", cfg.Brokers[0]))
		conn, err = dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		return err
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.RequestTopic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	go func() {
		defer reader.Close()

		logger.Info("Kafka event processor started", zap.String("topic", cfg.RequestTopic))
		consume(ctx, reader, sender, newReadBackOff(), logger)
	}()

	return nil
}

// messageReader is the part of kafka.Reader the consumer loop uses
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// newReadBackOff waits between failed reads while the broker is unreachable
func newReadBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // retry until the context ends
	return bo
}

// consume reads and handles messages until ctx is cancelled. Read failures
// are logged and retried after the next backoff interval.
func consume(ctx context.Context, reader messageReader, sender notifications.Sender, bo backoff.BackOff, logger *zap.Logger) {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := bo.NextBackOff()
			logger.Warn("Failed to read notification request", zap.Error(err), zap.Duration("retry_in", wait))
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}
		bo.Reset()

		if err := notifications.HandleNotificationRequested(ctx, msg.Value, sender, logger); err != nil {
			logger.Warn("Failed to process notification request", zap.ByteString("key", msg.Key), zap.Error(err))
		}
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/skyfare/airline-service/config"
	"github.com/skyfare/airline-service/pkg/logger"
)

const (
	defaultHeartbeat      = 3 * time.Second
	defaultSessionTimeout = 30 * time.Second
)

// Consumer tails a topic of order events. Decoding happens here so callers
// only ever see well-formed events; anything else is logged and skipped.
type Consumer struct {
	reader *kafka.Reader
	log    logger.Logger
}

func NewConsumer(cfg config.KafkaConfig, topic string, log logger.Logger) *Consumer {
	heartbeat := time.Duration(cfg.HeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session <= 0 {
		session = defaultSessionTimeout
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             topic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume runs until ctx is cancelled or the handler returns an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, OrderEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.Warn("skipping undecodable event",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

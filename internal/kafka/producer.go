package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderEvent is the message published after an order commits and consumed
// by the notifications worker.
type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   int64              `json:"order_id"`
	UserID    int64              `json:"user_id"`
	Email     string             `json:"email"`
	Tickets   []OrderEventTicket `json:"tickets"`
	CreatedAt time.Time          `json:"created_at"`
}

type OrderEventTicket struct {
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

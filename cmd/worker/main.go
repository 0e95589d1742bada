package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skyfare/airline-service/config"
	"github.com/skyfare/airline-service/internal/email"
	"github.com/skyfare/airline-service/internal/kafka"
	"github.com/skyfare/airline-service/pkg/logger"
)

// The worker tails the order notification topic and sends confirmation
// emails out of the request path.
func main() {
	log := logger.NewLogger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	sender := email.NewSender()

	log.Info("worker started", "topic", cfg.Kafka.NotificationsTopic, "group_id", cfg.Kafka.GroupID)

	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.OrderEvent) error {
		if err := sender.Send(ctx, event); err != nil {
			log.Error("send notification", "order_id", event.OrderID, "error", err)
			return err
		}
		log.Info("notification sent", "order_id", event.OrderID, "email", event.Email)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Fatal("consumer stopped", "error", err)
	}
}

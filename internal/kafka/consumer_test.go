package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skyfare/airline-service/config"
	"github.com/skyfare/airline-service/pkg/logger"
)

func TestNewConsumer_ConfiguredTimings(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:               []string{"localhost:9092"},
		GroupID:               "airline-worker",
		HeartbeatSeconds:      5,
		SessionTimeoutSeconds: 45,
	}

	consumer := NewConsumer(cfg, "order-notifications", logger.NewNop())
	defer consumer.Close()

	readerCfg := consumer.reader.Config()
	assert.Equal(t, []string{"localhost:9092"}, readerCfg.Brokers)
	assert.Equal(t, "airline-worker", readerCfg.GroupID)
	assert.Equal(t, "order-notifications", readerCfg.Topic)
	assert.Equal(t, 5*time.Second, readerCfg.HeartbeatInterval)
	assert.Equal(t, 45*time.Second, readerCfg.SessionTimeout)
}

func TestNewConsumer_DefaultTimings(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "airline-worker",
	}

	consumer := NewConsumer(cfg, "order-notifications", logger.NewNop())
	defer consumer.Close()

	readerCfg := consumer.reader.Config()
	assert.Equal(t, defaultHeartbeat, readerCfg.HeartbeatInterval)
	assert.Equal(t, defaultSessionTimeout, readerCfg.SessionTimeout)
}

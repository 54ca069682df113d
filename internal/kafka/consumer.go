package kafka

import (
	"context"
	"encoding/json"

	"jastip-express/internal/logger"
	"jastip-express/internal/models"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: log}
}

// Start consumes activity records until ctx is cancelled, handing each one
// to handler. Malformed messages are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(entry models.ActivityLog)) {
	c.logger.Info("KAFKA", "Activity consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("KAFKA", "Activity consumer stopping")
				return
			}
			c.logger.Error("KAFKA", "Error reading message: "+err.Error())
			continue
		}

		var entry models.ActivityLog
		if err := json.Unmarshal(msg.Value, &entry); err != nil {
			c.logger.Warn("KAFKA", "Failed to unmarshal activity message: "+err.Error())
			continue
		}

		handler(entry)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

package kafka

import (
	"context"
	"encoding/json"

	"jastip-express/internal/models"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishActivity streams one audit record to the activity topic, keyed by
// entity ID so changes to the same entity stay ordered.
func (p *Producer) PublishActivity(entry models.ActivityLog) error {
	msgBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(entry.EntityID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

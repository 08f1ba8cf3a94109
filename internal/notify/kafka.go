package notify

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"obradoc/internal/model"
)

// KafkaPublisher mirrors notifications to a Kafka topic so external
// consumers (mail, SMS) can react without polling the database.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n *model.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.UserID.Hex()),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

package repository

import (
	"context"

	"TradeRelay/internal/domain/models"
	"TradeRelay/internal/domain/repository"
	pkgkafka "TradeRelay/pkg/kafka"
)

// KafkaEventPublisher implements Publisher for Kafka. Events are keyed by the
// routed symbol so per-symbol ordering survives partitioning.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, e *models.ExecutionEvent) error {
	key := e.Routed
	if key == "" {
		key = e.Symbol
	}
	return p.producer.Publish(ctx, p.topic, []byte(key), e)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

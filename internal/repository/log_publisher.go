package repository

import (
	"context"

	pkgkafka "TradeRelay/pkg/kafka"
	applogger "TradeRelay/pkg/logger"
)

// KafkaLogPublisher lets the log collector flush aggregated error logs to a
// Kafka topic through the shared producer.
type KafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaLogPublisher(producer *pkgkafka.Producer) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: producer}
}

func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

var _ applogger.Publisher = (*KafkaLogPublisher)(nil)

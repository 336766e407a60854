package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TradeRelay/internal/domain/models"
	drepo "TradeRelay/internal/domain/repository"
	pkgkafka "TradeRelay/pkg/kafka"
)

// KafkaEventsHandler consumes execution events and feeds the dashboard.
type KafkaEventsHandler struct {
	topic    string
	log      drepo.EventLog
	notifier Notifier
	metrics  drepo.Metrics
}

func NewKafkaEventsHandler(topic string, log drepo.EventLog, metrics drepo.Metrics) *KafkaEventsHandler {
	return &KafkaEventsHandler{topic: topic, log: log, metrics: metrics}
}

func (h *KafkaEventsHandler) Topic() string { return h.topic }

// SetNotifier attaches a live feed notifier (nil is allowed).
func (h *KafkaEventsHandler) SetNotifier(n Notifier) { h.notifier = n }

func (h *KafkaEventsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.ExecutionEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("event_e2e_seconds", time.Since(ev.Timestamp).Seconds())

	h.log.Append(&ev)
	if h.notifier != nil {
		h.notifier.Broadcast(&ev)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaEventsHandler)(nil)

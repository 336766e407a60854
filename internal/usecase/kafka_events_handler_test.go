package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"TradeRelay/internal/domain/models"
	"TradeRelay/internal/repository"
)

type fakeNotifier struct{ events []*models.ExecutionEvent }

func (n *fakeNotifier) Broadcast(e *models.ExecutionEvent) { n.events = append(n.events, e) }

func TestKafkaEventsHandlerFeedsLogAndNotifier(t *testing.T) {
	log := repository.NewMemoryEventLog(10)
	h := NewKafkaEventsHandler("traderelay.executions", log, &fakeMetrics{})
	notifier := &fakeNotifier{}
	h.SetNotifier(notifier)

	if h.Topic() != "traderelay.executions" {
		t.Fatalf("topic %s", h.Topic())
	}

	ev := models.ExecutionEvent{
		Type:      models.EventOrderPlaced,
		Symbol:    "NQ",
		Routed:    "QQQ",
		Quantity:  10,
		Timestamp: time.Now().UTC(),
	}
	b, err := json.Marshal(&ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := h.Handle(context.Background(), b); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := log.Recent(1); len(got) != 1 || got[0].Routed != "QQQ" {
		t.Fatalf("event not appended: %+v", got)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("event not broadcast")
	}
}

func TestKafkaEventsHandlerBadPayload(t *testing.T) {
	m := &fakeMetrics{}
	h := NewKafkaEventsHandler("t", repository.NewMemoryEventLog(10), m)
	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if len(m.errors) != 1 || m.errors[0] != "consumer_unmarshal" {
		t.Fatalf("unexpected metrics %v", m.errors)
	}
}

package usecase

import (
	"context"
	"fmt"
	"testing"

	"TradeRelay/internal/domain/models"
	"TradeRelay/internal/repository"
)

type fakeBroker struct {
	placed  []*models.OrderRequest
	failErr error
}

func (b *fakeBroker) Profile(ctx context.Context) error { return nil }

func (b *fakeBroker) PlaceOrder(ctx context.Context, req *models.OrderRequest) (*models.OrderResult, error) {
	if b.failErr != nil {
		return nil, b.failErr
	}
	b.placed = append(b.placed, req)
	return &models.OrderResult{OrderID: "42", Status: "ok"}, nil
}

func (b *fakeBroker) Orders(ctx context.Context) ([]models.BrokerOrder, error) { return nil, nil }

func (b *fakeBroker) Quotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	return nil, nil
}

type fakeMetrics struct{ errors []string }

func (m *fakeMetrics) RecordAlert(source string)                  {}
func (m *fakeMetrics) RecordOrder(outcome, symbol string)         {}
func (m *fakeMetrics) RecordError(kind string)                    { m.errors = append(m.errors, kind) }
func (m *fakeMetrics) RecordLatency(op string, seconds float64)   {}

func newMemoryProcessor(broker *fakeBroker) (*AlertProcessor, *repository.MemoryEventLog) {
	log := repository.NewMemoryEventLog(10).(*repository.MemoryEventLog)
	emitter := NewEventEmitter(nil, log, &fakeMetrics{}, "memory")
	return NewAlertProcessor(broker, emitter, &fakeMetrics{}), log
}

func TestProcessPlacesProxyOrder(t *testing.T) {
	broker := &fakeBroker{}
	proc, log := newMemoryProcessor(broker)

	ev, err := proc.Process(context.Background(), &models.Alert{
		ID: "a1", Symbol: "NQ", Action: "buy", Quantity: 1, Source: "tradingview",
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if ev.Type != models.EventOrderPlaced {
		t.Fatalf("expected placed, got %s (%s)", ev.Type, ev.Reason)
	}
	if ev.Routed != "QQQ" || ev.Quantity != 10 || !ev.IsProxy() {
		t.Fatalf("unexpected routing %+v", ev)
	}
	if ev.OrderID != "42" {
		t.Fatalf("order id %s", ev.OrderID)
	}
	if len(broker.placed) != 1 {
		t.Fatalf("expected 1 order, got %d", len(broker.placed))
	}
	req := broker.placed[0]
	if req.Symbol != "QQQ" || req.Quantity != 10 || req.Type != "market" || req.Duration != "day" {
		t.Fatalf("unexpected order %+v", req)
	}
	if got := log.Recent(10); len(got) != 1 || got[0].Type != models.EventOrderPlaced {
		t.Fatalf("expected placed event in log, got %+v", got)
	}
}

func TestProcessRejectsUnverifiedWithoutOrder(t *testing.T) {
	broker := &fakeBroker{}
	proc, log := newMemoryProcessor(broker)

	ev, err := proc.Process(context.Background(), &models.Alert{
		Symbol: "GME", Action: "buy", Quantity: 1,
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if ev.Type != models.EventOrderRejected || ev.Reason == "" {
		t.Fatalf("expected rejection, got %+v", ev)
	}
	if len(broker.placed) != 0 {
		t.Fatalf("no order should be placed for unverified symbol")
	}
	if s := log.Summary(); s.Rejected != 1 || s.Placed != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestProcessBrokerFailureEmitsRejection(t *testing.T) {
	broker := &fakeBroker{failErr: fmt.Errorf("tradier order rejected (HTTP 400): Invalid symbol")}
	proc, log := newMemoryProcessor(broker)

	ev, err := proc.Process(context.Background(), &models.Alert{
		Symbol: "SPY", Action: "sell", Quantity: 3,
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if ev.Type != models.EventOrderRejected {
		t.Fatalf("expected rejected, got %s", ev.Type)
	}
	if ev.Reason != broker.failErr.Error() {
		t.Fatalf("reason %q", ev.Reason)
	}
	// a broker failure is reported once, never re-submitted
	if s := log.Summary(); s.Total != 1 {
		t.Fatalf("expected exactly one event, got %d", s.Total)
	}
}

func TestEmitterUnknownBackend(t *testing.T) {
	emitter := NewEventEmitter(nil, repository.NewMemoryEventLog(1), &fakeMetrics{}, "bogus")
	if err := emitter.Emit(context.Background(), &models.ExecutionEvent{Type: models.EventOrderPlaced}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

package server

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	models "TradeRelay/internal/domain/models"
	"TradeRelay/internal/usecase"
	"TradeRelay/pkg/config"
	applogger "TradeRelay/pkg/logger"
)

// fakeProducer stands in for both the event publisher and the log
// publisher that share one Kafka producer in production.
type fakeProducer struct {
	mu      sync.Mutex
	closed  bool
	flushes int
}

func (p *fakeProducer) Publish(ctx context.Context, e *models.ExecutionEvent) error { return nil }

func (p *fakeProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakeProducer) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("producer closed")
	}
	p.flushes++
	return nil
}

func TestShutdownFlushesLogsBeforeProducerClose(t *testing.T) {
	prod := &fakeProducer{}

	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "app-logs",
		Publisher:      prod,
	})
	l.Error("pipeline failure")

	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = time.Second
	emitter := usecase.NewEventEmitter(prod, nil, nil, "kafka")
	app := New(cfg, l, nil, nil, emitter, nil)

	if err := app.shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	prod.mu.Lock()
	defer prod.mu.Unlock()
	if prod.flushes != 1 {
		t.Fatalf("expected one log flush before close, got %d", prod.flushes)
	}
	if !prod.closed {
		t.Fatalf("producer must be closed after shutdown")
	}
}

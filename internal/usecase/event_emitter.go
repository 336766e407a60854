package usecase

import (
	"context"
	"fmt"

	"TradeRelay/internal/domain/models"
	drepo "TradeRelay/internal/domain/repository"
)

// Notifier pushes execution events to live dashboard subscribers.
type Notifier interface {
	Broadcast(e *models.ExecutionEvent)
}

// EventEmitter routes execution events to the configured backend. With the
// kafka backend the consumer side feeds the event log; with the memory
// backend the log and subscribers are fed directly.
type EventEmitter struct {
	pub      drepo.Publisher
	log      drepo.EventLog
	notifier Notifier
	metrics  drepo.Metrics
	backend  string
}

// NewEventEmitter creates a new EventEmitter instance.
func NewEventEmitter(pub drepo.Publisher, log drepo.EventLog, metrics drepo.Metrics, backend string) *EventEmitter {
	return &EventEmitter{pub: pub, log: log, metrics: metrics, backend: backend}
}

// SetNotifier attaches a live feed notifier (nil is allowed).
func (e *EventEmitter) SetNotifier(n Notifier) { e.notifier = n }

// Emit sends an execution event to the configured backend.
func (e *EventEmitter) Emit(ctx context.Context, ev *models.ExecutionEvent) error {
	if ev == nil {
		return fmt.Errorf("event is nil")
	}

	switch e.backend {
	case "kafka":
		if err := e.pub.Publish(ctx, ev); err != nil {
			e.metrics.RecordError("emit")
			return fmt.Errorf("emit event: %w", err)
		}
	case "memory":
		e.log.Append(ev)
		if e.notifier != nil {
			e.notifier.Broadcast(ev)
		}
	default:
		return fmt.Errorf("unknown backend: %s", e.backend)
	}
	return nil
}

// Close closes the underlying publisher if available.
func (e *EventEmitter) Close() {
	if e.pub != nil {
		_ = e.pub.Close()
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradeRelay/internal/domain/models"
	drepo "TradeRelay/internal/domain/repository"
)

// AlertProcessor turns validated webhook alerts into brokerage orders and
// emits one execution event per alert. A rejected order is reported, never
// re-submitted.
type AlertProcessor struct {
	broker  drepo.Broker
	emitter *EventEmitter
	metrics drepo.Metrics
}

// NewAlertProcessor creates a new AlertProcessor instance.
func NewAlertProcessor(broker drepo.Broker, emitter *EventEmitter, metrics drepo.Metrics) *AlertProcessor {
	return &AlertProcessor{broker: broker, emitter: emitter, metrics: metrics}
}

// Process routes the alert symbol, places the order, and emits the outcome.
// The returned event describes what happened; err is non-nil only for
// emit/infrastructure failures, not for order rejections.
func (p *AlertProcessor) Process(ctx context.Context, a *models.Alert) (*models.ExecutionEvent, error) {
	if a == nil {
		return nil, fmt.Errorf("alert is nil")
	}
	p.metrics.RecordAlert(a.Source)
	start := time.Now()

	ev := &models.ExecutionEvent{
		AlertID:   a.ID,
		Symbol:    strings.ToUpper(a.Symbol),
		Side:      a.Action,
		Timestamp: time.Now().UTC(),
	}

	routed, err := models.Route(a.Symbol, a.Quantity)
	if err != nil {
		ev.Type = models.EventOrderRejected
		ev.Reason = err.Error()
		p.metrics.RecordOrder("rejected", ev.Symbol)
		return ev, p.emitter.Emit(ctx, ev)
	}
	ev.Routed = routed.Symbol
	ev.Quantity = routed.Quantity
	ev.Multiplier = routed.Multiplier

	res, err := p.broker.PlaceOrder(ctx, &models.OrderRequest{
		Symbol:   routed.Symbol,
		Side:     a.Action,
		Quantity: routed.Quantity,
		Type:     "market",
		Duration: "day",
	})
	if err != nil {
		ev.Type = models.EventOrderRejected
		ev.Reason = err.Error()
		p.metrics.RecordOrder("rejected", routed.Symbol)
		p.metrics.RecordError("broker")
		return ev, p.emitter.Emit(ctx, ev)
	}

	ev.Type = models.EventOrderPlaced
	ev.OrderID = res.OrderID
	ev.Status = res.Status
	p.metrics.RecordOrder("placed", routed.Symbol)
	p.metrics.RecordLatency("place_order", time.Since(start).Seconds())
	return ev, p.emitter.Emit(ctx, ev)
}

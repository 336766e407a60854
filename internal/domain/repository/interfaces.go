package repository

import (
	"context"

	"TradeRelay/internal/domain/models"
)

// Broker places orders against and reads state from the brokerage account.
type Broker interface {
	Profile(ctx context.Context) error // connectivity probe
	PlaceOrder(ctx context.Context, req *models.OrderRequest) (*models.OrderResult, error)
	Orders(ctx context.Context) ([]models.BrokerOrder, error)
	Quotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// Publisher emits execution events to the event pipeline.
type Publisher interface {
	Publish(ctx context.Context, e *models.ExecutionEvent) error
	Close() error
}

// EventLog holds recent execution events for the dashboard.
type EventLog interface {
	Append(e *models.ExecutionEvent)
	Recent(limit int) []*models.ExecutionEvent
	Summary() models.ExecutionSummary
}

// Metrics records observability signals.
type Metrics interface {
	RecordAlert(source string)
	RecordOrder(outcome, symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

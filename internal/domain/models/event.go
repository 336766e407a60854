package models

import "time"

// Execution event types emitted by the alert processor.
const (
	EventOrderPlaced   = "order_placed"
	EventOrderRejected = "order_rejected"
)

// ExecutionEvent records the outcome of forwarding one alert.
type ExecutionEvent struct {
	Type       string    `json:"type"`
	AlertID    string    `json:"alert_id,omitempty"`
	Symbol     string    `json:"symbol"`      // symbol as received
	Routed     string    `json:"routed"`      // symbol actually ordered
	Side       string    `json:"side"`
	Quantity   int       `json:"quantity"`    // quantity actually ordered
	Multiplier int       `json:"multiplier"`  // proxy multiplier, 1 for direct
	OrderID    string    `json:"order_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Reason     string    `json:"reason,omitempty"` // rejection reason
	Timestamp  time.Time `json:"ts"`
}

// IsProxy reports whether the event was routed through a proxy symbol.
func (e *ExecutionEvent) IsProxy() bool { return e.Multiplier > 1 }

// ExecutionSummary aggregates event counts for the dashboard.
type ExecutionSummary struct {
	Placed   int `json:"placed"`
	Filled   int `json:"filled"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
	Proxied  int `json:"proxied"`
	Total    int `json:"total"`
}

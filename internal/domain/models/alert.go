package models

import "time"

// Alert is a normalized TradingView webhook alert.
type Alert struct {
	ID       string
	Symbol   string
	Action   string // "buy" or "sell"
	Quantity int
	Source   string // remote address or configured source tag
	Received time.Time
}

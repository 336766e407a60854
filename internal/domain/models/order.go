package models

// OrderRequest is an equity order ready to submit to the brokerage.
type OrderRequest struct {
	Symbol   string
	Side     string // "buy" or "sell"
	Quantity int
	Type     string // "market"
	Duration string // "day"
}

// OrderResult is the brokerage response to a submitted order.
type OrderResult struct {
	OrderID string
	Status  string
}

// BrokerOrder is an order as reported by the brokerage account listing.
type BrokerOrder struct {
	ID       int64   `json:"id"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Status   string  `json:"status"`
	Type     string  `json:"type"`
	Price    float64 `json:"price,omitempty"`
}

// Order kinds reported by the dashboard classification.
const (
	OrderKindNQProxy  = "nq_proxy"
	OrderKindSPXProxy = "spx_proxy"
	OrderKindStock    = "stock"
	OrderKindOther    = "other"
)

// ClassifiedOrder is a broker order annotated for the dashboard.
type ClassifiedOrder struct {
	BrokerOrder
	Kind      string `json:"kind"`
	ProxyFor  string `json:"proxy_for,omitempty"`
	Contracts int    `json:"contracts,omitempty"`
}

// Classify tags a broker order as a futures/index proxy or a direct stock
// position based on the symbol and quantity conventions the forwarder uses.
func Classify(o BrokerOrder, verified map[string]bool) ClassifiedOrder {
	c := ClassifiedOrder{BrokerOrder: o}
	qty := int(o.Quantity)
	switch {
	case o.Symbol == "QQQ" && qty >= NQProxyMultiplier:
		c.Kind = OrderKindNQProxy
		c.ProxyFor = "NQ"
		c.Contracts = qty / NQProxyMultiplier
	case o.Symbol == "SPY" && qty >= SPXProxyMultiplier:
		c.Kind = OrderKindSPXProxy
		c.ProxyFor = "SPX"
		c.Contracts = qty / SPXProxyMultiplier
	case verified[o.Symbol]:
		c.Kind = OrderKindStock
	default:
		c.Kind = OrderKindOther
	}
	return c
}

package models

import (
	"strings"
	"testing"
)

func TestRouteNQProxy(t *testing.T) {
	for _, sym := range []string{"NQ", "NQH25", "NQZ25", "/NQ", "nq"} {
		r, err := Route(sym, 2)
		if err != nil {
			t.Fatalf("route %s: %v", sym, err)
		}
		if r.Symbol != "QQQ" || r.Quantity != 20 || r.Multiplier != NQProxyMultiplier {
			t.Fatalf("route %s: unexpected %+v", sym, r)
		}
		if r.ProxyFor != "NQ" {
			t.Fatalf("route %s: proxy_for=%s", sym, r.ProxyFor)
		}
	}
}

func TestRouteSPXAndESProxy(t *testing.T) {
	cases := []struct {
		sym   string
		proxy string
	}{
		{"SPX", "SPX"},
		{"SPXW", "SPX"},
		{"ES", "ES"},
		{"ESM25", "ES"},
		{"/ES", "ES"},
	}
	for _, tc := range cases {
		r, err := Route(tc.sym, 1)
		if err != nil {
			t.Fatalf("route %s: %v", tc.sym, err)
		}
		if r.Symbol != "SPY" || r.Quantity != SPXProxyMultiplier {
			t.Fatalf("route %s: unexpected %+v", tc.sym, r)
		}
		if r.ProxyFor != tc.proxy {
			t.Fatalf("route %s: proxy_for=%s want %s", tc.sym, r.ProxyFor, tc.proxy)
		}
	}
}

func TestRouteVerifiedDirect(t *testing.T) {
	r, err := Route(" aapl ", 5)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if r.Symbol != "AAPL" || r.Quantity != 5 || r.Multiplier != 1 || r.ProxyFor != "" {
		t.Fatalf("unexpected %+v", r)
	}
}

func TestRouteUnverifiedRejected(t *testing.T) {
	_, err := Route("GME", 1)
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if !strings.Contains(err.Error(), "GME") || !strings.Contains(err.Error(), "SPY") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		order     BrokerOrder
		kind      string
		contracts int
	}{
		{BrokerOrder{Symbol: "QQQ", Quantity: 20}, OrderKindNQProxy, 2},
		{BrokerOrder{Symbol: "QQQ", Quantity: 5}, OrderKindStock, 0},
		{BrokerOrder{Symbol: "SPY", Quantity: 40}, OrderKindSPXProxy, 2},
		{BrokerOrder{Symbol: "SPY", Quantity: 19}, OrderKindStock, 0},
		{BrokerOrder{Symbol: "TSLA", Quantity: 100}, OrderKindStock, 0},
		{BrokerOrder{Symbol: "GME", Quantity: 1}, OrderKindOther, 0},
	}
	for _, tc := range cases {
		got := Classify(tc.order, VerifiedSymbols)
		if got.Kind != tc.kind {
			t.Fatalf("%s qty=%v: kind=%s want %s", tc.order.Symbol, tc.order.Quantity, got.Kind, tc.kind)
		}
		if got.Contracts != tc.contracts {
			t.Fatalf("%s qty=%v: contracts=%d want %d", tc.order.Symbol, tc.order.Quantity, got.Contracts, tc.contracts)
		}
	}
}

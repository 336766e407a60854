package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "TradeRelay/internal/domain/models"
	"TradeRelay/internal/repository"
	icache "TradeRelay/internal/service/cache"
	pkgcache "TradeRelay/pkg/cache"
	"TradeRelay/pkg/manifest"

	"github.com/labstack/echo/v4"
)

type stubBroker struct {
	orders     []models.BrokerOrder
	quoteCalls int
	profileErr error
}

func (b *stubBroker) Profile(ctx context.Context) error { return b.profileErr }

func (b *stubBroker) PlaceOrder(ctx context.Context, req *models.OrderRequest) (*models.OrderResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (b *stubBroker) Orders(ctx context.Context) ([]models.BrokerOrder, error) {
	return b.orders, nil
}

func (b *stubBroker) Quotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	b.quoteCalls++
	out := make([]models.Quote, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, models.Quote{Symbol: s, Last: 100})
	}
	return out, nil
}

func getJSON(t *testing.T, h *DashboardEchoHandler, path string) envelope {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("http status %d, body %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestDashboardOrders(t *testing.T) {
	log := repository.NewMemoryEventLog(10)
	log.Append(&models.ExecutionEvent{Type: models.EventOrderPlaced, Symbol: "NQ", Routed: "QQQ", Multiplier: 10, Timestamp: time.Now().UTC()})
	log.Append(&models.ExecutionEvent{Type: models.EventOrderRejected, Symbol: "GME", Timestamp: time.Now().UTC()})
	h := NewDashboardEchoHandler(testLogger(t), log, &stubBroker{}, nil)

	env := getJSON(t, h, "/api/orders")
	var out struct {
		Rows  []models.ExecutionEvent `json:"rows"`
		Total int64                   `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 2 || len(out.Rows) != 2 {
		t.Fatalf("expected 2 events, got %+v", out)
	}
	// newest first
	if out.Rows[0].Symbol != "GME" {
		t.Fatalf("expected newest first, got %s", out.Rows[0].Symbol)
	}
}

func TestDashboardOrdersSinceFilter(t *testing.T) {
	log := repository.NewMemoryEventLog(10)
	log.Append(&models.ExecutionEvent{Type: models.EventOrderPlaced, Symbol: "OLD", Timestamp: time.Now().UTC().Add(-time.Hour)})
	log.Append(&models.ExecutionEvent{Type: models.EventOrderPlaced, Symbol: "NEW", Timestamp: time.Now().UTC()})
	h := NewDashboardEchoHandler(testLogger(t), log, &stubBroker{}, nil)

	since := time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)
	env := getJSON(t, h, "/api/orders?since="+since)
	var out struct {
		Rows []models.ExecutionEvent `json:"rows"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Rows) != 1 || out.Rows[0].Symbol != "NEW" {
		t.Fatalf("expected only the recent event, got %+v", out.Rows)
	}
}

func TestDashboardBrokerOrdersClassified(t *testing.T) {
	broker := &stubBroker{orders: []models.BrokerOrder{
		{ID: 1, Symbol: "QQQ", Quantity: 20, Side: "buy"},
		{ID: 2, Symbol: "AAPL", Quantity: 5, Side: "sell"},
	}}
	h := NewDashboardEchoHandler(testLogger(t), repository.NewMemoryEventLog(10), broker, nil)

	env := getJSON(t, h, "/api/orders/broker")
	var out struct {
		Rows []models.ClassifiedOrder `json:"rows"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out.Rows))
	}
	if out.Rows[0].Kind != models.OrderKindNQProxy || out.Rows[0].Contracts != 2 {
		t.Fatalf("unexpected classification %+v", out.Rows[0])
	}
	if out.Rows[1].Kind != models.OrderKindStock {
		t.Fatalf("unexpected classification %+v", out.Rows[1])
	}
}

func TestDashboardSummary(t *testing.T) {
	log := repository.NewMemoryEventLog(10)
	log.Append(&models.ExecutionEvent{Type: models.EventOrderPlaced, Status: "filled", Multiplier: 10})
	log.Append(&models.ExecutionEvent{Type: models.EventOrderPlaced, Status: "open", Multiplier: 1})
	log.Append(&models.ExecutionEvent{Type: models.EventOrderRejected})
	h := NewDashboardEchoHandler(testLogger(t), log, &stubBroker{}, nil)

	env := getJSON(t, h, "/api/summary")
	var s models.ExecutionSummary
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Filled != 1 || s.Pending != 1 {
		t.Fatalf("unexpected fill split %+v", s)
	}
	if s.Placed != 2 || s.Rejected != 1 || s.Proxied != 1 || s.Total != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestDashboardQuotesCached(t *testing.T) {
	broker := &stubBroker{}
	h := NewDashboardEchoHandler(testLogger(t), repository.NewMemoryEventLog(10), broker, nil)
	h.SetCache(icache.NewServiceCache(pkgcache.NewMemoryCache()), time.Minute)

	for i := 0; i < 2; i++ {
		env := getJSON(t, h, "/api/quotes?symbols=spy,qqq")
		var quotes []models.Quote
		if err := json.Unmarshal(env.Data, &quotes); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(quotes) != 2 || quotes[0].Symbol != "SPY" {
			t.Fatalf("unexpected quotes %+v", quotes)
		}
	}
	if broker.quoteCalls != 1 {
		t.Fatalf("expected second request served from cache, broker calls=%d", broker.quoteCalls)
	}
}

func TestDashboardStatus(t *testing.T) {
	broker := &stubBroker{profileErr: fmt.Errorf("401")}
	h := NewDashboardEchoHandler(testLogger(t), repository.NewMemoryEventLog(10), broker, nil)

	env := getJSON(t, h, "/api/status")
	var status map[string]interface{}
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["broker_connected"] != false {
		t.Fatalf("expected broker_connected=false, got %v", status)
	}
}

func TestDashboardRequirements(t *testing.T) {
	h := NewDashboardEchoHandler(testLogger(t), repository.NewMemoryEventLog(10), &stubBroker{}, nil)

	env := getJSON(t, h, "/api/meta/requirements")
	if env.Status != http.StatusNotFound {
		t.Fatalf("expected 404 envelope without manifest, got %d", env.Status)
	}

	m, err := manifest.Parse(strings.NewReader("streamlit\nplotly\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h.SetRequirements(m)

	env = getJSON(t, h, "/api/meta/requirements")
	var out manifest.Manifest
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := out.Names(); len(got) != 2 || got[0] != "streamlit" {
		t.Fatalf("unexpected manifest %v", got)
	}
}

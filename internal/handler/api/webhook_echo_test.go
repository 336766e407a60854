package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "TradeRelay/internal/domain/models"
	mid "TradeRelay/internal/middleware"
	"TradeRelay/internal/service/dedup"
	pkgcache "TradeRelay/pkg/cache"
	xlogger "TradeRelay/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubProc struct {
	alerts   []*models.Alert
	reject   string
	throttle int // throttle the first n calls
}

func (p *stubProc) Process(ctx context.Context, a *models.Alert) (*models.ExecutionEvent, error) {
	if p.throttle > 0 {
		p.throttle--
		return nil, mid.ErrThrottled
	}
	p.alerts = append(p.alerts, a)
	ev := &models.ExecutionEvent{
		Symbol:    strings.ToUpper(a.Symbol),
		Side:      a.Action,
		Timestamp: time.Now().UTC(),
	}
	if p.reject != "" {
		ev.Type = models.EventOrderRejected
		ev.Reason = p.reject
		return ev, nil
	}
	ev.Type = models.EventOrderPlaced
	ev.OrderID = "7"
	return ev, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordAlert(string)            {}
func (nopMetrics) RecordOrder(string, string)    {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func postWebhook(t *testing.T, h *WebhookEchoHandler, body string) envelope {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
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

func TestWebhookPlacesOrder(t *testing.T) {
	proc := &stubProc{}
	pipe := mid.NewAlertPipeline(proc, nopMetrics{}, mid.WithMaxRPS(1000))
	h := NewWebhookEchoHandler(testLogger(t), pipe, nil, "")

	env := postWebhook(t, h, `{"symbol":"NQ","action":"buy","quantity":2}`)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status %d: %s", env.Status, env.Data)
	}
	var ev models.ExecutionEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != models.EventOrderPlaced || ev.OrderID != "7" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if len(proc.alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(proc.alerts))
	}
	a := proc.alerts[0]
	if a.Source != "tradingview" || a.Quantity != 2 {
		t.Fatalf("unexpected alert %+v", a)
	}
}

func TestWebhookAppliesDefaults(t *testing.T) {
	proc := &stubProc{}
	pipe := mid.NewAlertPipeline(proc, nopMetrics{}, mid.WithMaxRPS(1000))
	h := NewWebhookEchoHandler(testLogger(t), pipe, nil, "")

	env := postWebhook(t, h, `{"symbol":"SPY"}`)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status %d: %s", env.Status, env.Data)
	}
	a := proc.alerts[0]
	if a.Action != "buy" || a.Quantity != 1 {
		t.Fatalf("defaults not applied: %+v", a)
	}
}

func TestWebhookValidationFailure(t *testing.T) {
	proc := &stubProc{}
	pipe := mid.NewAlertPipeline(proc, nopMetrics{}, mid.WithMaxRPS(1000))
	h := NewWebhookEchoHandler(testLogger(t), pipe, nil, "")

	env := postWebhook(t, h, `{"action":"hold"}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope, got %d", env.Status)
	}
	if len(proc.alerts) != 0 {
		t.Fatalf("invalid request must not reach the pipeline")
	}
}

func TestWebhookRejectionReported(t *testing.T) {
	proc := &stubProc{reject: "symbol GME not in verified set"}
	pipe := mid.NewAlertPipeline(proc, nopMetrics{}, mid.WithMaxRPS(1000))
	h := NewWebhookEchoHandler(testLogger(t), pipe, nil, "")

	env := postWebhook(t, h, `{"symbol":"GME","action":"buy","quantity":1}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope, got %d", env.Status)
	}
	var ev models.ExecutionEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != models.EventOrderRejected || ev.Reason == "" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestWebhookDuplicateSuppressed(t *testing.T) {
	proc := &stubProc{}
	pipe := mid.NewAlertPipeline(proc, nopMetrics{}, mid.WithMaxRPS(1000))
	h := NewWebhookEchoHandler(testLogger(t), pipe, dedup.New(pkgcache.NewMemoryCache(), time.Minute), "")

	body := `{"id":"alert-1","symbol":"SPY","action":"buy","quantity":1}`
	if env := postWebhook(t, h, body); env.Status != http.StatusOK {
		t.Fatalf("first delivery: %d", env.Status)
	}
	env := postWebhook(t, h, body)
	if env.Status != http.StatusOK {
		t.Fatalf("duplicate delivery: %d", env.Status)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["duplicate"] != true {
		t.Fatalf("expected duplicate marker, got %v", out)
	}
	if len(proc.alerts) != 1 {
		t.Fatalf("duplicate must not be forwarded, got %d calls", len(proc.alerts))
	}
}

func TestWebhookThrottledRetryAccepted(t *testing.T) {
	proc := &stubProc{throttle: 1}
	h := NewWebhookEchoHandler(testLogger(t), proc, dedup.New(pkgcache.NewMemoryCache(), time.Minute), "")

	body := `{"id":"alert-2","symbol":"ES","action":"sell","quantity":1}`
	env := postWebhook(t, h, body)
	if env.Status != http.StatusTooManyRequests {
		t.Fatalf("first delivery should be throttled, got %d", env.Status)
	}
	if len(proc.alerts) != 0 {
		t.Fatalf("throttled alert must not place an order")
	}

	// the throttled id must not count as delivered; the retry goes through
	env = postWebhook(t, h, body)
	if env.Status != http.StatusOK {
		t.Fatalf("retry after throttle: %d", env.Status)
	}
	var ev models.ExecutionEvent
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != models.EventOrderPlaced {
		t.Fatalf("retry must place the order, got %+v", ev)
	}
	if len(proc.alerts) != 1 {
		t.Fatalf("expected 1 placed alert, got %d", len(proc.alerts))
	}
}

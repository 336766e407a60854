package api

import (
	"encoding/json"
	"strings"
	"time"

	models "TradeRelay/internal/domain/models"
	drepo "TradeRelay/internal/domain/repository"
	icache "TradeRelay/internal/service/cache"
	"TradeRelay/internal/service/stream"
	xhttp "TradeRelay/pkg/http"
	xlogger "TradeRelay/pkg/logger"
	"TradeRelay/pkg/manifest"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves the data API the dashboard UI consumes.
type DashboardEchoHandler struct {
	logger   *xlogger.Logger
	log      drepo.EventLog
	broker   drepo.Broker
	hub      *stream.Hub
	cache    icache.BytesCache
	quoteTTL time.Duration
	reqs     *manifest.Manifest
	started  time.Time
}

func NewDashboardEchoHandler(logger *xlogger.Logger, log drepo.EventLog, broker drepo.Broker, hub *stream.Hub) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:   logger,
		log:      log,
		broker:   broker,
		hub:      hub,
		quoteTTL: 15 * time.Second,
		started:  time.Now().UTC(),
	}
}

// SetCache enables quote response caching.
func (h *DashboardEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.quoteTTL = ttl
	}
}

// SetRequirements exposes the parsed demo manifest on the meta endpoint.
func (h *DashboardEchoHandler) SetRequirements(m *manifest.Manifest) { h.reqs = m }

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/orders", h.Orders)
	g.GET("/orders/broker", h.BrokerOrders)
	g.GET("/summary", h.Summary)
	g.GET("/quotes", h.Quotes)
	g.GET("/status", h.Status)
	g.GET("/meta/requirements", h.Requirements)
	if h.hub != nil {
		e.GET("/ws", echo.WrapHandler(h.hub))
	}
}

func (h *DashboardEchoHandler) Orders(c echo.Context) error {
	req := &models.OrdersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	events := h.log.Recent(req.Limit)
	if since, ok := xhttp.ParseTime(c.QueryParam("since")); ok {
		kept := events[:0]
		for _, ev := range events {
			if !ev.Timestamp.Before(since) {
				kept = append(kept, ev)
			}
		}
		events = kept
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

func (h *DashboardEchoHandler) BrokerOrders(c echo.Context) error {
	orders, err := h.broker.Orders(c.Request().Context())
	if err != nil {
		h.logger.Error("broker orders error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("broker orders: %v", err))
	}
	classified := make([]models.ClassifiedOrder, 0, len(orders))
	for _, o := range orders {
		classified = append(classified, models.Classify(o, models.VerifiedSymbols))
	}
	return xhttp.ListResponse(c, classified, int64(len(classified)))
}

func (h *DashboardEchoHandler) Summary(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.log.Summary())
}

func (h *DashboardEchoHandler) Quotes(c echo.Context) error {
	req := &models.QuotesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := strings.Split(strings.ToUpper(req.Symbols), ",")

	cacheKey := "quotes:" + strings.Join(symbols, ",")
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("quotes cache_get_error", xlogger.Error(err))
		} else if ok {
			var quotes []models.Quote
			if err := json.Unmarshal(b, &quotes); err == nil {
				return xhttp.SuccessResponse(c, quotes)
			}
		}
	}

	quotes, err := h.broker.Quotes(c.Request().Context(), symbols)
	if err != nil {
		h.logger.Error("quotes error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("quotes: %v", err))
	}

	if h.cache != nil {
		if b, err := json.Marshal(quotes); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.quoteTTL); err != nil {
				h.logger.Warn("quotes cache_set_error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, quotes)
}

func (h *DashboardEchoHandler) Status(c echo.Context) error {
	connected := true
	if err := h.broker.Profile(c.Request().Context()); err != nil {
		h.logger.Warn("broker probe failed", xlogger.Error(err))
		connected = false
	}
	status := map[string]interface{}{
		"broker_connected": connected,
		"ws_clients":       0,
		"uptime_seconds":   int(time.Since(h.started).Seconds()),
	}
	if h.hub != nil {
		status["ws_clients"] = h.hub.Clients()
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *DashboardEchoHandler) Requirements(c echo.Context) error {
	if h.reqs == nil {
		return xhttp.NotFoundResponse(c, "no demo manifest configured")
	}
	return xhttp.SuccessResponse(c, h.reqs)
}

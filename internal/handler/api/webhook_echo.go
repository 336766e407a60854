package api

import (
	"errors"
	"net/http"
	"time"

	models "TradeRelay/internal/domain/models"
	mid "TradeRelay/internal/middleware"
	"TradeRelay/internal/service/dedup"
	"TradeRelay/internal/service/ratelimit"
	xhttp "TradeRelay/pkg/http"
	xlogger "TradeRelay/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WebhookEchoHandler receives TradingView alerts and hands them to the
// forwarding pipeline.
type WebhookEchoHandler struct {
	logger *xlogger.Logger
	pipe   mid.Proc
	dedup  dedup.Deduper
	rl     *ratelimit.Limiter
	source string
}

func NewWebhookEchoHandler(logger *xlogger.Logger, pipe mid.Proc, dd dedup.Deduper, source string) *WebhookEchoHandler {
	if source == "" {
		source = "tradingview"
	}
	return &WebhookEchoHandler{logger: logger, pipe: pipe, dedup: dd, rl: ratelimit.New(), source: source}
}

func (h *WebhookEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhook", h.Receive)
}

func (h *WebhookEchoHandler) Receive(c echo.Context) error {
	req := &models.WebhookRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	remote := c.RealIP()
	if !h.rl.Allow(remote+":webhook", 10, 5) {
		h.logger.Warn("webhook rate_limited", xlogger.String("remote", remote))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	marked := false
	if req.ID != "" && h.dedup != nil {
		seen, err := h.dedup.Seen(c.Request().Context(), req.ID)
		if err != nil {
			h.logger.Warn("webhook dedup error", xlogger.Error(err))
		} else if seen {
			h.logger.Info("webhook duplicate suppressed", xlogger.String("alert_id", req.ID))
			return xhttp.SuccessResponse(c, map[string]interface{}{"duplicate": true, "alert_id": req.ID})
		} else {
			marked = true
		}
	}

	alert := &models.Alert{
		ID:       req.ID,
		Symbol:   req.Symbol,
		Action:   req.Action,
		Quantity: req.Quantity,
		Source:   h.source,
		Received: time.Now().UTC(),
	}

	ev, err := h.pipe.Process(c.Request().Context(), alert)
	if err != nil {
		if ev == nil && marked {
			// no order was placed, so the id must stay retryable
			if rerr := h.dedup.Release(c.Request().Context(), req.ID); rerr != nil {
				h.logger.Warn("webhook dedup release error", xlogger.Error(rerr))
			}
		}
		if errors.Is(err, mid.ErrThrottled) {
			return xhttp.DataResponse(c, http.StatusTooManyRequests, "alert throttled")
		}
		h.logger.Error("webhook pipeline error", xlogger.Error(err))
		if ev != nil {
			// order outcome is known, only the emit failed
			return xhttp.SuccessResponse(c, ev)
		}
		return xhttp.AppErrorResponse(c, err)
	}

	if ev.Type == models.EventOrderRejected {
		h.logger.Warn("order rejected",
			xlogger.String("symbol", ev.Symbol),
			xlogger.String("reason", ev.Reason),
		)
		return xhttp.BadRequestResponse(c, ev)
	}

	h.logger.Info("order placed",
		xlogger.String("symbol", ev.Symbol),
		xlogger.String("routed", ev.Routed),
		xlogger.Int("quantity", ev.Quantity),
		xlogger.String("order_id", ev.OrderID),
	)
	return xhttp.SuccessResponse(c, ev)
}

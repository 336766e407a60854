package tradier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"TradeRelay/internal/domain/models"
	drepo "TradeRelay/internal/domain/repository"
	xhttp "TradeRelay/pkg/http"
)

// Client implements a Broker backed by the Tradier REST API.
type Client struct {
	baseURL   string
	token     string
	accountID string
	http      *xhttp.Client
}

// New creates a new Tradier Broker.
func New(baseURL, token, accountID string, timeout time.Duration) drepo.Broker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		token:     token,
		accountID: accountID,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.token,
		"Accept":        "application/json",
	}
}

// Profile probes the API with the user profile endpoint.
func (c *Client) Profile(ctx context.Context) error {
	opts := &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/v1/user/profile",
		Headers: c.headers(),
	}
	if err := c.http.SendAndParse(ctx, opts, nil); err != nil {
		return fmt.Errorf("tradier profile: %w", err)
	}
	return nil
}

type orderResponse struct {
	Order struct {
		ID     json.Number `json:"id"`
		Status string      `json:"status"`
	} `json:"order"`
}

type faultResponse struct {
	Fault struct {
		FaultString string `json:"faultstring"`
	} `json:"fault"`
	Errors struct {
		Error []string `json:"error"`
	} `json:"errors"`
}

// PlaceOrder submits a form-encoded equity order.
func (c *Client) PlaceOrder(ctx context.Context, req *models.OrderRequest) (*models.OrderResult, error) {
	headers := c.headers()
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	form := map[string]string{
		"class":    "equity",
		"symbol":   req.Symbol,
		"side":     req.Side,
		"quantity": strconv.Itoa(req.Quantity),
		"type":     req.Type,
		"duration": req.Duration,
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     fmt.Sprintf("%s/v1/accounts/%s/orders", c.baseURL, c.accountID),
		Headers: headers,
		Body:    form,
	})
	if err != nil {
		return nil, fmt.Errorf("tradier order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tradier order read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tradier order rejected (HTTP %d): %s", resp.StatusCode, faultMessage(body))
	}

	var or orderResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, fmt.Errorf("tradier order decode: %w", err)
	}
	return &models.OrderResult{
		OrderID: or.Order.ID.String(),
		Status:  or.Order.Status,
	}, nil
}

// faultMessage extracts a human-readable rejection reason from a fault body.
func faultMessage(body []byte) string {
	var f faultResponse
	if err := json.Unmarshal(body, &f); err == nil {
		if f.Fault.FaultString != "" {
			return f.Fault.FaultString
		}
		if len(f.Errors.Error) > 0 {
			return f.Errors.Error[0]
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}

type ordersResponse struct {
	Orders struct {
		Order json.RawMessage `json:"order"`
	} `json:"orders"`
}

// Orders lists account orders. The "order" node is an object for a single
// order and an array otherwise.
func (c *Client) Orders(ctx context.Context) ([]models.BrokerOrder, error) {
	var raw ordersResponse
	opts := &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/v1/accounts/%s/orders", c.baseURL, c.accountID),
		Headers: c.headers(),
	}
	if err := c.http.SendAndParse(ctx, opts, &raw); err != nil {
		return nil, fmt.Errorf("tradier orders: %w", err)
	}
	if len(raw.Orders.Order) == 0 {
		return nil, nil
	}
	return decodeObjectOrArray[models.BrokerOrder](raw.Orders.Order)
}

type quotesResponse struct {
	Quotes struct {
		Quote json.RawMessage `json:"quote"`
	} `json:"quotes"`
}

// Quotes fetches quotes for the given symbols.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	var raw quotesResponse
	opts := &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/v1/markets/quotes",
		Headers:     c.headers(),
		QueryParams: map[string][]string{"symbols": {strings.Join(symbols, ",")}},
	}
	if err := c.http.SendAndParse(ctx, opts, &raw); err != nil {
		return nil, fmt.Errorf("tradier quotes: %w", err)
	}
	if len(raw.Quotes.Quote) == 0 {
		return nil, nil
	}
	return decodeObjectOrArray[models.Quote](raw.Quotes.Quote)
}

// decodeObjectOrArray handles Tradier's single-object-or-array convention.
func decodeObjectOrArray[T any](raw json.RawMessage) ([]T, error) {
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single T
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return []T{single}, nil
}


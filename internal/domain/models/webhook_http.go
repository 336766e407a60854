package models

// Requests for the webhook and dashboard HTTP endpoints. Defined in domain for
// consistency and reuse.

type WebhookRequest struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol" validate:"required,min=1,max=12"`
	Action   string `json:"action" default:"buy" validate:"oneof=buy sell"`
	Quantity int    `json:"quantity" default:"1" validate:"gte=1,lte=1000"`
}

type QuotesRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
}

type OrdersRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

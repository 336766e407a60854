package models

// Quote is a market quote per the brokerage quotes endpoint.
type Quote struct {
	Symbol string  `json:"symbol"`
	Last   float64 `json:"last"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Change float64 `json:"change"`
	Volume int64   `json:"volume"`
}

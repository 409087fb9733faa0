package market

import (
	"context"
	"fmt"
)

// Quote is a single asset's spot price in a quote currency.
type Quote struct {
	Asset    string  `json:"asset"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

// Conversion is the outcome of converting Amount of FromAsset into ToAsset
// at the fetched Rate. Result is always Amount * Rate.
type Conversion struct {
	Amount    float64 `json:"amount"`
	FromAsset string  `json:"from"`
	ToAsset   string  `json:"to"`
	Rate      float64 `json:"rate"`
	Result    float64 `json:"result"`
}

// PriceSource fetches a single asset's spot price in a fiat currency.
type PriceSource interface {
	SpotPrice(ctx context.Context, asset, currency string) (float64, error)
}

// RateSource fetches a pairwise exchange rate between two assets.
type RateSource interface {
	Rate(ctx context.Context, fromAsset, toAsset string) (float64, error)
}

// Error reports a failed call to a market-data provider: a transport error,
// a malformed response, or a pair the provider does not support.
type Error struct {
	Provider string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cryptooracle/internal/market"
)

const providerName = "coinbase"

// spotResponse is the expected JSON shape of the spot price endpoint.
// The amount is delivered as a string, e.g. {"data":{"amount":"61234.50"}}.
type spotResponse struct {
	Data struct {
		Amount   string `json:"amount"`
		Base     string `json:"base"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// SpotPrice fetches the current price of asset in the given currency.
// Both symbols are normalized to uppercase; an empty currency means USD.
// No retry is performed here; retry policy belongs to the caller.
func (c *Client) SpotPrice(ctx context.Context, asset, currency string) (float64, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	pair := asset + "-" + currency

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+pair+"/spot", http.NoBody)
	if err != nil {
		return 0, &market.Error{Provider: providerName, Op: "spot " + pair, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &market.Error{Provider: providerName, Op: "spot " + pair, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &market.Error{Provider: providerName, Op: "spot " + pair, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body spotResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, &market.Error{Provider: providerName, Op: "spot " + pair, Err: fmt.Errorf("decode: %w", err)}
	}
	if body.Data.Amount == "" {
		return 0, &market.Error{Provider: providerName, Op: "spot " + pair, Err: fmt.Errorf("amount missing in response")}
	}
	price, err := strconv.ParseFloat(body.Data.Amount, 64)
	if err != nil {
		return 0, &market.Error{Provider: providerName, Op: "spot " + pair, Err: fmt.Errorf("parse amount %q: %w", body.Data.Amount, err)}
	}
	return price, nil
}

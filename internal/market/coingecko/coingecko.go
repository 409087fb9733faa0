package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"cryptooracle/internal/httpx"
	"cryptooracle/internal/market"
)

// Config controls the CoinGecko rate client behavior.
type Config struct {
	Name string
	URL  string
	// SymbolMap translates ticker symbols (e.g. "BTC") to CoinGecko
	// identifiers (e.g. "bitcoin"). Unmapped symbols fall back to their
	// lower-cased ticker as a best-effort identifier.
	SymbolMap map[string]string
}

// Client fetches pairwise exchange rates from the CoinGecko simple price API.
type Client struct {
	cfg    Config
	client *httpx.Client

	// coalesce concurrent in-flight lookups for the same pair
	sf singleflight.Group
}

func New(cfg Config, hc *httpx.Client) *Client {
	if cfg.Name == "" {
		cfg.Name = "coingecko"
	}
	if cfg.URL == "" {
		cfg.URL = "https://api.coingecko.com/api/v3/simple/price"
	}
	return &Client{cfg: cfg, client: hc}
}

// Rate returns the multiplier to convert one unit of fromAsset into toAsset.
func (c *Client) Rate(ctx context.Context, fromAsset, toAsset string) (float64, error) {
	fromID := c.mapID(fromAsset)
	toID := c.mapID(toAsset)

	v, err, _ := c.sf.Do(fromID+"/"+toID, func() (any, error) {
		return c.fetchRate(ctx, fromID, toID)
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (c *Client) fetchRate(ctx context.Context, fromID, toID string) (float64, error) {
	op := "rate " + fromID + "->" + toID

	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: err}
	}
	q := u.Query()
	q.Set("ids", fromID)
	q.Set("vs_currencies", toID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	// Response is a nested mapping {fromID: {toID: rate}}.
	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: fmt.Errorf("decode: %w", err)}
	}
	rates, ok := body[fromID]
	if !ok {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: fmt.Errorf("no data for %q", fromID)}
	}
	rate, ok := rates[toID]
	if !ok {
		return 0, &market.Error{Provider: c.cfg.Name, Op: op, Err: fmt.Errorf("pair %s/%s not supported", fromID, toID)}
	}
	return rate, nil
}

func (c *Client) mapID(symbol string) string {
	if id := c.cfg.SymbolMap[strings.ToUpper(strings.TrimSpace(symbol))]; id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(symbol))
}

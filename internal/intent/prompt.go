package intent

import (
	"encoding/json"
	"fmt"
	"strings"
)

const classifyPrompt = `You are an intent classifier for a crypto assistant. Analyze the user's message and output JSON with:
- intent: "price", "convert", "trend", or "error"
- parameters: Extract relevant entities

Output ONLY JSON with these possible structures:
{"intent": "price", "crypto_symbol": "BTC", "fiat_currency": "USD"}
{"intent": "convert", "amount": 0.5, "from_asset": "ETH", "to_asset": "USD"}
{"intent": "trend", "crypto_symbol": "SOL", "timeframe": "7d"}
{"intent": "error", "reason": "message"}

Rules:
1. Default fiat: USD
2. Default timeframe: 7d
3. For price checks: Extract crypto symbol
4. For conversions: Extract amount, from_asset, to_asset
5. For trends: Extract crypto_symbol and timeframe
6. If unsure, return error intent

Examples:
User: "What's bitcoin worth?" -> {"intent": "price", "crypto_symbol": "BTC"}
User: "Convert 1 ethereum to dollars" -> {"intent": "convert", "amount": 1, "from_asset": "ETH", "to_asset": "USD"}
User: "How did solana perform last month?" -> {"intent": "trend", "crypto_symbol": "SOL", "timeframe": "30d"}`

// wireRecord is the union of the four JSON shapes the model may emit.
type wireRecord struct {
	Intent       string  `json:"intent"`
	CryptoSymbol string  `json:"crypto_symbol"`
	FiatCurrency string  `json:"fiat_currency"`
	Amount       float64 `json:"amount"`
	FromAsset    string  `json:"from_asset"`
	ToAsset      string  `json:"to_asset"`
	Timeframe    string  `json:"timeframe"`
	Reason       string  `json:"reason"`
}

// parseRecord parses model output strictly as one JSON object matching one of
// the four intent shapes, applying defaults for omitted fields.
func parseRecord(content string) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &w); err != nil {
		return Record{}, fmt.Errorf("parse intent JSON: %w", err)
	}

	switch w.Intent {
	case string(KindPrice):
		if w.CryptoSymbol == "" {
			return Record{}, fmt.Errorf("price intent without crypto_symbol")
		}
		currency := w.FiatCurrency
		if currency == "" {
			currency = "USD"
		}
		return Record{Kind: KindPrice, Symbol: strings.ToUpper(w.CryptoSymbol), Currency: strings.ToUpper(currency)}, nil
	case string(KindConvert):
		if w.FromAsset == "" || w.ToAsset == "" {
			return Record{}, fmt.Errorf("convert intent without assets")
		}
		amount := w.Amount
		if amount <= 0 {
			amount = 1
		}
		return Record{Kind: KindConvert, Amount: amount, FromAsset: strings.ToUpper(w.FromAsset), ToAsset: strings.ToUpper(w.ToAsset)}, nil
	case string(KindTrend):
		if w.CryptoSymbol == "" {
			return Record{}, fmt.Errorf("trend intent without crypto_symbol")
		}
		timeframe := w.Timeframe
		if timeframe == "" {
			timeframe = "7d"
		}
		return Record{Kind: KindTrend, Symbol: strings.ToUpper(w.CryptoSymbol), Timeframe: timeframe}, nil
	case string(KindError):
		reason := w.Reason
		if reason == "" {
			reason = "Unclear query"
		}
		return Record{Kind: KindError, Reason: reason}, nil
	default:
		return Record{}, fmt.Errorf("unrecognized intent tag %q", w.Intent)
	}
}

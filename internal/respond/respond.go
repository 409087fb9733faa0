package respond

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/dustin/go-humanize"

	"cryptooracle/internal/llm"
	"cryptooracle/internal/market"
)

const composePrompt = `You're a friendly crypto expert. Answer the user's question naturally and conversationally. Follow these guidelines:

1. Be concise (1-2 sentences maximum)
2. Use everyday language, not financial jargon
3. Format numbers clearly (e.g., $12,000.50)
4. Only include risk warnings if there's unusual volatility
5. Add personality with occasional emojis (max 1 per response)
6. NEVER use markdown, bullet points, or numbered lists

Examples:
User: "Price of BTC?"
Good: "Bitcoin is currently trading at $61,200 - up 2% today!"
Bad: "The current price of Bitcoin is $61,200. It has increased by 2% in the last 24 hours."

User: "Convert 5 ETH to USD"
Good: "5 Ethereum would be about $15,250 right now at $3,050 per ETH. Crypto prices move fast though!"
Bad: "Converting 5 ETH to USD gives $15,250. The current exchange rate is $3,050 per ETH."

Data: `

// Composer turns a fetched result into a short natural-language reply.
// The language model is the primary path; deterministic templates back it so
// Compose always produces a reply.
type Composer struct {
	svc llm.CompletionService
}

func NewComposer(svc llm.CompletionService) *Composer {
	return &Composer{svc: svc}
}

// Compose renders a reply for data, which is a market.Quote, a
// market.Conversion, or anything else (generic apology on the fallback path).
func (c *Composer) Compose(ctx context.Context, query string, data any) string {
	if c.svc != nil {
		serialized, err := json.Marshal(data)
		if err == nil {
			out, err := c.svc.Complete(ctx, llm.Request{
				System:      composePrompt + string(serialized),
				Prompt:      query,
				Temperature: 0.8,
			})
			if err == nil && out != "" {
				return out
			}
			if err != nil {
				log.Printf("respond: generation failed: %v", err)
			}
		}
	}
	return fallbackReply(data)
}

func fallbackReply(data any) string {
	switch v := data.(type) {
	case market.Quote:
		return fmt.Sprintf("%s is currently at $%s", v.Asset, money(v.Price))
	case market.Conversion:
		return fmt.Sprintf("%s %s ≈ %s %s", strconv.FormatFloat(v.Amount, 'f', -1, 64), v.FromAsset, money(v.Result), v.ToAsset)
	default:
		return "Having trouble checking prices right now. Try again in a minute!"
	}
}

// money formats with thousands separators and exactly two decimals.
func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

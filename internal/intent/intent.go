package intent

import (
	"context"
	"log"
	"regexp"
	"strings"

	"cryptooracle/internal/llm"
)

// Kind discriminates the classified purpose of a user query.
type Kind string

const (
	KindPrice   Kind = "price"
	KindConvert Kind = "convert"
	KindTrend   Kind = "trend"
	KindError   Kind = "error"
)

// Record is the classified form of one user query. Exactly one kind applies
// per record and only that kind's fields are meaningful.
type Record struct {
	Kind Kind

	// KindPrice
	Symbol   string
	Currency string

	// KindConvert
	Amount    float64
	FromAsset string
	ToAsset   string

	// KindTrend
	Timeframe string

	// KindError
	Reason string
}

// Classifier turns free text into a Record. The language model is the
// primary path; a deterministic regex classification backs it so Classify
// always produces a record, even under full LLM outage.
type Classifier struct {
	svc llm.CompletionService
}

func NewClassifier(svc llm.CompletionService) *Classifier {
	return &Classifier{svc: svc}
}

func (c *Classifier) Classify(ctx context.Context, query string) Record {
	if c.svc != nil {
		out, err := c.svc.Complete(ctx, llm.Request{
			System:      classifyPrompt,
			Prompt:      query,
			Temperature: 0.1,
			JSONOnly:    true,
		})
		if err == nil {
			rec, perr := parseRecord(out)
			if perr == nil {
				return rec
			}
			log.Printf("intent: unusable model output: %v", perr)
		} else {
			log.Printf("intent: classification call failed: %v", err)
		}
	}
	return fallbackClassify(query)
}

var (
	priceWords   = regexp.MustCompile(`(?i)\b(price|worth|value)\b`)
	convertWords = regexp.MustCompile(`(?i)\b(convert|how much|equivalent)\b`)
	knownTickers = regexp.MustCompile(`(?i)\b(BTC|ETH|SOL|BNB|XRP|ADA|DOGE)\b`)
)

// fallbackClassify never fails and never blocks.
func fallbackClassify(query string) Record {
	switch {
	case priceWords.MatchString(query):
		symbol := "BTC"
		if m := knownTickers.FindString(query); m != "" {
			symbol = strings.ToUpper(m)
		}
		return Record{Kind: KindPrice, Symbol: symbol, Currency: "USD"}
	case convertWords.MatchString(query):
		// canned best-effort default, not inferred from the text
		return Record{Kind: KindConvert, Amount: 1, FromAsset: "ETH", ToAsset: "USD"}
	default:
		return Record{Kind: KindError, Reason: "Classification failed"}
	}
}

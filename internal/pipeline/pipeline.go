package pipeline

import (
	"context"
	"fmt"
	"log"

	"cryptooracle/internal/intent"
	"cryptooracle/internal/market"
)

// Classifier turns a free-text query into an intent record.
type Classifier interface {
	Classify(ctx context.Context, query string) intent.Record
}

// Composer turns a fetched result into reply text.
type Composer interface {
	Compose(ctx context.Context, query string, data any) string
}

const (
	helpReply = "Sorry, I didn't understand that. Try something like:\n• 'ETH price'\n• 'Convert 1 BTC to USD'"

	promptReply = "What cryptocurrency are you asking about? Try:\n• 'BTC price'\n• 'Convert 0.5 ETH to SOL'"
)

// stableTargets are conversion targets served by the cheaper single-asset
// spot lookup instead of the generic pairwise rate endpoint.
var stableTargets = map[string]struct{}{
	"USD":  {},
	"USDT": {},
	"USDC": {},
}

// Pipeline sequences classification, data fetch and response composition.
// It holds no per-call mutable state and is safe for concurrent use.
type Pipeline struct {
	classifier Classifier
	prices     market.PriceSource
	rates      market.RateSource
	composer   Composer
}

func New(classifier Classifier, prices market.PriceSource, rates market.RateSource, composer Composer) *Pipeline {
	return &Pipeline{classifier: classifier, prices: prices, rates: rates, composer: composer}
}

// Handle answers one query. It never fails: every error path is converted
// into an apologetic reply string.
func (p *Pipeline) Handle(ctx context.Context, query string) string {
	rec := p.classifier.Classify(ctx, query)
	log.Printf("pipeline: classified intent %q", rec.Kind)

	reply, err := p.dispatch(ctx, query, rec)
	if err != nil {
		log.Printf("pipeline: %v", err)
		return fmt.Sprintf("Oops! Ran into an issue: %v. Try asking differently?", err)
	}
	return reply
}

func (p *Pipeline) dispatch(ctx context.Context, query string, rec intent.Record) (string, error) {
	switch rec.Kind {
	case intent.KindPrice:
		price, err := p.prices.SpotPrice(ctx, rec.Symbol, rec.Currency)
		if err != nil {
			return "", err
		}
		quote := market.Quote{Asset: rec.Symbol, Currency: rec.Currency, Price: price}
		return p.composer.Compose(ctx, query, quote), nil

	case intent.KindConvert:
		var rate float64
		var err error
		if _, ok := stableTargets[rec.ToAsset]; ok {
			rate, err = p.prices.SpotPrice(ctx, rec.FromAsset, "USD")
		} else {
			rate, err = p.rates.Rate(ctx, rec.FromAsset, rec.ToAsset)
		}
		if err != nil {
			return "", err
		}
		conv := market.Conversion{
			Amount:    rec.Amount,
			FromAsset: rec.FromAsset,
			ToAsset:   rec.ToAsset,
			Rate:      rate,
			Result:    rec.Amount * rate,
		}
		return p.composer.Compose(ctx, query, conv), nil

	case intent.KindError:
		return helpReply, nil

	case intent.KindTrend:
		// recognized but not fulfilled: no trend data source is wired
		return promptReply, nil

	default:
		return promptReply, nil
	}
}

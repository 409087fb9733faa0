package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cryptooracle/internal/intent"
	"cryptooracle/internal/market"
)

type fakeClassifier struct{ rec intent.Record }

func (f fakeClassifier) Classify(_ context.Context, _ string) intent.Record { return f.rec }

type fakePrices struct {
	price float64
	err   error

	calls []string // "asset/currency" per call
}

func (f *fakePrices) SpotPrice(_ context.Context, asset, currency string) (float64, error) {
	f.calls = append(f.calls, asset+"/"+currency)
	return f.price, f.err
}

type fakeRates struct {
	rate  float64
	err   error
	calls []string
}

func (f *fakeRates) Rate(_ context.Context, from, to string) (float64, error) {
	f.calls = append(f.calls, from+"/"+to)
	return f.rate, f.err
}

// echoComposer replies with a fixed rendering of the data it receives.
type echoComposer struct{}

func (echoComposer) Compose(_ context.Context, _ string, data any) string {
	switch v := data.(type) {
	case market.Quote:
		return "quote " + v.Asset + " " + v.Currency
	case market.Conversion:
		return "conversion " + v.FromAsset + " " + v.ToAsset
	default:
		return "unknown"
	}
}

func TestHandle_PriceIntent(t *testing.T) {
	prices := &fakePrices{price: 61200}
	p := New(fakeClassifier{intent.Record{Kind: intent.KindPrice, Symbol: "BTC", Currency: "USD"}}, prices, &fakeRates{}, echoComposer{})

	got := p.Handle(t.Context(), "btc price")
	if got != "quote BTC USD" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if len(prices.calls) != 1 || prices.calls[0] != "BTC/USD" {
		t.Fatalf("unexpected spot calls: %v", prices.calls)
	}
}

func TestHandle_ConvertFiatShortcut(t *testing.T) {
	prices := &fakePrices{price: 3050}
	rates := &fakeRates{rate: 0.5}
	rec := intent.Record{Kind: intent.KindConvert, Amount: 2, FromAsset: "ETH", ToAsset: "USDT"}
	p := New(fakeClassifier{rec}, prices, rates, echoComposer{})

	got := p.Handle(t.Context(), "convert 2 eth to usdt")
	if got != "conversion ETH USDT" {
		t.Fatalf("unexpected reply: %q", got)
	}
	// a stablecoin target must use the cheaper spot lookup against USD
	if len(prices.calls) != 1 || prices.calls[0] != "ETH/USD" {
		t.Fatalf("unexpected spot calls: %v", prices.calls)
	}
	if len(rates.calls) != 0 {
		t.Fatalf("rate source should not be used: %v", rates.calls)
	}
}

func TestHandle_ConvertCrossAssetUsesRateSource(t *testing.T) {
	prices := &fakePrices{price: 3050}
	rates := &fakeRates{rate: 0.054}
	rec := intent.Record{Kind: intent.KindConvert, Amount: 1, FromAsset: "ETH", ToAsset: "BTC"}
	p := New(fakeClassifier{rec}, prices, rates, echoComposer{})

	got := p.Handle(t.Context(), "convert 1 eth to btc")
	if got != "conversion ETH BTC" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if len(rates.calls) != 1 || rates.calls[0] != "ETH/BTC" {
		t.Fatalf("unexpected rate calls: %v", rates.calls)
	}
	if len(prices.calls) != 0 {
		t.Fatalf("price source should not be used: %v", prices.calls)
	}
}

func TestHandle_ConversionResultIsAmountTimesRate(t *testing.T) {
	rates := &fakeRates{rate: 0.054}
	rec := intent.Record{Kind: intent.KindConvert, Amount: 3, FromAsset: "ETH", ToAsset: "BTC"}

	var seen market.Conversion
	composer := captureComposer{&seen}
	p := New(fakeClassifier{rec}, &fakePrices{}, rates, composer)

	p.Handle(t.Context(), "convert 3 eth to btc")
	if seen.Result != 3*0.054 || seen.Rate != 0.054 {
		t.Fatalf("unexpected conversion: %+v", seen)
	}
}

type captureComposer struct{ conv *market.Conversion }

func (c captureComposer) Compose(_ context.Context, _ string, data any) string {
	if v, ok := data.(market.Conversion); ok {
		*c.conv = v
	}
	return "ok"
}

func TestHandle_MarketFailureYieldsApology(t *testing.T) {
	prices := &fakePrices{err: &market.Error{Provider: "coinbase", Op: "spot BTC-USD", Err: errors.New("connection refused")}}
	rec := intent.Record{Kind: intent.KindPrice, Symbol: "BTC", Currency: "USD"}
	p := New(fakeClassifier{rec}, prices, &fakeRates{}, echoComposer{})

	got := p.Handle(t.Context(), "btc price")
	if got == "" {
		t.Fatal("empty reply")
	}
	if !strings.Contains(got, "Oops! Ran into an issue") {
		t.Fatalf("expected apology, got %q", got)
	}
}

func TestHandle_ErrorIntentShowsUsageExamples(t *testing.T) {
	rec := intent.Record{Kind: intent.KindError, Reason: "Classification failed"}
	p := New(fakeClassifier{rec}, &fakePrices{}, &fakeRates{}, echoComposer{})

	got := p.Handle(t.Context(), "asdkjhasd")
	if !strings.Contains(got, "ETH price") || !strings.Contains(got, "Convert 1 BTC to USD") {
		t.Fatalf("expected usage examples, got %q", got)
	}
}

func TestHandle_TrendIntentIsUnsupported(t *testing.T) {
	rec := intent.Record{Kind: intent.KindTrend, Symbol: "SOL", Timeframe: "7d"}
	p := New(fakeClassifier{rec}, &fakePrices{}, &fakeRates{}, echoComposer{})

	got := p.Handle(t.Context(), "how did solana do this week")
	if !strings.Contains(got, "What cryptocurrency are you asking about?") {
		t.Fatalf("expected prompting message, got %q", got)
	}
}

func TestHandle_UnrecognizedKindPrompts(t *testing.T) {
	rec := intent.Record{Kind: intent.Kind("portfolio")}
	p := New(fakeClassifier{rec}, &fakePrices{}, &fakeRates{}, echoComposer{})

	got := p.Handle(t.Context(), "show my portfolio")
	if !strings.Contains(got, "What cryptocurrency are you asking about?") {
		t.Fatalf("expected prompting message, got %q", got)
	}
}

func TestHandle_Idempotent(t *testing.T) {
	prices := &fakePrices{price: 61200}
	rec := intent.Record{Kind: intent.KindPrice, Symbol: "BTC", Currency: "USD"}
	p := New(fakeClassifier{rec}, prices, &fakeRates{}, echoComposer{})

	first := p.Handle(t.Context(), "btc price")
	second := p.Handle(t.Context(), "btc price")
	if first != second {
		t.Fatalf("replies differ: %q vs %q", first, second)
	}
}

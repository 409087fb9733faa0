package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cryptooracle/internal/config"
	"cryptooracle/internal/httpx"
	"cryptooracle/internal/intent"
	"cryptooracle/internal/llm"
	"cryptooracle/internal/market"
	"cryptooracle/internal/market/coinbase"
	"cryptooracle/internal/market/coingecko"
	"cryptooracle/internal/market/ratelimit"
	"cryptooracle/internal/pipeline"
	"cryptooracle/internal/respond"
)

// ask runs a single query through the pipeline without the Telegram
// transport. Useful for smoke-testing providers and prompts.
func main() {
	var configPath string
	var timeout int
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: ask [-config config.json] <query>")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.RequestTimeoutSec = timeout
	}

	httpClient := httpx.New(time.Duration(cfg.RequestTimeoutSec) * time.Second)

	prices := coinbase.NewClient(
		coinbase.WithBaseURL(cfg.Coinbase.Endpoint),
		coinbase.WithHTTPClient(httpx.Doer{C: httpClient}),
	)

	var rates market.RateSource = coingecko.New(coingecko.Config{
		URL:       cfg.CoinGecko.Endpoint,
		SymbolMap: cfg.CoinGecko.SymbolMap,
	}, httpClient)
	if cfg.CoinGecko.MinRequestIntervalSec > 0 {
		rates = &ratelimit.MinInterval{S: rates, Interval: time.Duration(cfg.CoinGecko.MinRequestIntervalSec) * time.Second}
	}

	var svc llm.CompletionService
	if cfg.LLM.APIKey != "" {
		openAI, err := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model, time.Duration(cfg.LLM.TimeoutSec)*time.Second)
		if err != nil {
			log.Fatalf("llm: %v", err)
		}
		svc = openAI
	}

	pipe := pipeline.New(intent.NewClassifier(svc), prices, rates, respond.NewComposer(svc))
	fmt.Println(pipe.Handle(context.Background(), query))
}

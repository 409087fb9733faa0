package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
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

const startText = "Hi! I'm your Crypto Oracle. Ask me things like:\n" +
	"• \"What's Bitcoin worth?\"\n" +
	"• \"Convert 0.5 ETH to USD\"\n" +
	"• \"SOL price\"\n\n" +
	"I'll give you quick, friendly answers!"

const helpText = "Just ask naturally! Examples:\n" +
	"\"What's Ethereum worth?\"\n" +
	"\"Convert 1 Bitcoin to US dollars\"\n" +
	"\"Price of Solana\"\n\n" +
	"I support: BTC, ETH, SOL, XRP, ADA, DOGE"

func main() {
	// .env is optional; real deployments use environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Telegram.Token == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	pipe := buildPipeline(cfg)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}
	log.Printf("authorized as @%s", bot.Self.UserName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		bot.StopReceivingUpdates()
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	for update := range bot.GetUpdatesChan(u) {
		msg := update.Message
		if msg == nil || msg.Text == "" {
			continue
		}
		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				send(bot, msg.Chat.ID, startText)
			case "help":
				send(bot, msg.Chat.ID, helpText)
			}
			continue
		}
		go func(msg *tgbotapi.Message) {
			log.Printf("chat %d: %s", msg.Chat.ID, msg.Text)
			send(bot, msg.Chat.ID, pipe.Handle(ctx, msg.Text))
		}(msg)
	}
	log.Println("bot stopped")
}

func buildPipeline(cfg config.Config) *pipeline.Pipeline {
	httpClient := httpx.New(time.Duration(cfg.RequestTimeoutSec) * time.Second)

	prices := coinbase.NewClient(
		coinbase.WithBaseURL(cfg.Coinbase.Endpoint),
		coinbase.WithHTTPClient(httpx.Doer{C: httpClient}),
	)

	var rates market.RateSource = coingecko.New(coingecko.Config{
		URL:       cfg.CoinGecko.Endpoint,
		SymbolMap: cfg.CoinGecko.SymbolMap,
	}, httpClient)
	// Prefer token bucket with burst if RPM is set, otherwise use min-interval
	if cfg.CoinGecko.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.CoinGecko.MaxRequestsPerMinute) / 60.0
		burst := cfg.CoinGecko.Burst
		if burst <= 0 {
			burst = 1
		}
		rates = &ratelimit.TokenBucketRateSource{S: rates, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if cfg.CoinGecko.MinRequestIntervalSec > 0 {
		interval := time.Duration(cfg.CoinGecko.MinRequestIntervalSec) * time.Second
		rates = &ratelimit.MinInterval{S: rates, Interval: interval}
	}

	var svc llm.CompletionService
	if cfg.LLM.APIKey != "" {
		openAI, err := llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model, time.Duration(cfg.LLM.TimeoutSec)*time.Second)
		if err != nil {
			log.Fatalf("llm: %v", err)
		}
		svc = openAI
	} else {
		log.Println("warning: OPENAI_API_KEY not set; deterministic fallbacks only")
	}

	return pipeline.New(intent.NewClassifier(svc), prices, rates, respond.NewComposer(svc))
}

func send(bot *tgbotapi.BotAPI, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("telegram send: %v", err)
	}
}

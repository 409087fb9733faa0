package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Telegram struct {
	Token string `json:"token"`
}

type Coinbase struct {
	Endpoint string `json:"endpoint"`
}

type CoinGecko struct {
	Endpoint              string            `json:"endpoint"`
	SymbolMap             map[string]string `json:"symbol_map"`
	MaxRequestsPerMinute  int               `json:"max_requests_per_minute"`
	MinRequestIntervalSec int               `json:"min_request_interval_sec"`
	Burst                 int               `json:"burst"`
}

type LLM struct {
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`
	TimeoutSec int    `json:"timeout_sec"`
}

type Config struct {
	RequestTimeoutSec int       `json:"request_timeout_sec"`
	Telegram          Telegram  `json:"telegram"`
	Coinbase          Coinbase  `json:"coinbase"`
	CoinGecko         CoinGecko `json:"coingecko"`
	LLM               LLM       `json:"llm"`
}

func Default() Config {
	return Config{
		RequestTimeoutSec: 10,
		Coinbase: Coinbase{
			Endpoint: "https://api.coinbase.com/v2/prices",
		},
		CoinGecko: CoinGecko{
			Endpoint: "https://api.coingecko.com/api/v3/simple/price",
			SymbolMap: map[string]string{
				"BTC":  "bitcoin",
				"ETH":  "ethereum",
				"SOL":  "solana",
				"DOGE": "dogecoin",
				"XRP":  "ripple",
				"ADA":  "cardano",
				"USD":  "usd",
				"USDT": "tether",
				"USDC": "usd-coin",
			},
		},
		LLM: LLM{
			Model:      "gpt-4-turbo",
			TimeoutSec: 30,
		},
	}
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			// only the implicit config.json probe tolerates absence;
			// a named path that is missing is a caller mistake
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		if x := atoi(v); x > 0 {
			cfg.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("COINBASE_ENDPOINT"); v != "" {
		cfg.Coinbase.Endpoint = v
	}
	if v := os.Getenv("COINGECKO_ENDPOINT"); v != "" {
		cfg.CoinGecko.Endpoint = v
	}
	if v := os.Getenv("COINGECKO_MAX_RPM"); v != "" {
		if x := atoi(v); x >= 0 {
			cfg.CoinGecko.MaxRequestsPerMinute = x
		}
	}
	if v := os.Getenv("COINGECKO_MIN_INTERVAL_SEC"); v != "" {
		if x := atoi(v); x >= 0 {
			cfg.CoinGecko.MinRequestIntervalSec = x
		}
	}
	if v := os.Getenv("COINGECKO_BURST"); v != "" {
		if x := atoi(v); x > 0 {
			cfg.CoinGecko.Burst = x
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("OPENAI_TIMEOUT_SEC"); v != "" {
		if x := atoi(v); x > 0 {
			cfg.LLM.TimeoutSec = x
		}
	}
}

func atoi(s string) int {
	var x int
	_, _ = fmt.Sscanf(s, "%d", &x)
	return x
}

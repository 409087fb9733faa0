package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Coinbase.Endpoint != "https://api.coinbase.com/v2/prices" {
		t.Fatalf("unexpected coinbase endpoint: %q", cfg.Coinbase.Endpoint)
	}
	if cfg.CoinGecko.SymbolMap["BTC"] != "bitcoin" {
		t.Fatalf("default symbol map missing BTC: %+v", cfg.CoinGecko.SymbolMap)
	}
}

func TestLoad_ExplicitMissingPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("want error for a named config path that does not exist")
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"request_timeout_sec": 42, "llm": {"model": "gpt-4o-mini"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RequestTimeoutSec != 42 {
		t.Fatalf("timeout not applied: %d", cfg.RequestTimeoutSec)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("model not applied: %q", cfg.LLM.Model)
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("want error for malformed config")
	}
}

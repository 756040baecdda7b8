package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.StartingCash.Equal(decimal.NewFromInt(2000000)) {
		t.Errorf("starting cash = %s, want 2000000", cfg.StartingCash)
	}
	if cfg.SymbolSuffix != ".NS" {
		t.Errorf("suffix = %q", cfg.SymbolSuffix)
	}
	if cfg.MarketDataBaseURL == "" {
		t.Error("base URL empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STARTING_CASH", "500000")
	t.Setenv("SYMBOL_SUFFIX", ".BO")
	t.Setenv("REQUEST_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.StartingCash.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("starting cash = %s, want 500000", cfg.StartingCash)
	}
	if cfg.SymbolSuffix != ".BO" {
		t.Errorf("suffix = %q", cfg.SymbolSuffix)
	}
	if cfg.RequestTimeout.Seconds() != 30 {
		t.Errorf("timeout = %s", cfg.RequestTimeout)
	}
}

func TestLoadRejectsNonPositiveCash(t *testing.T) {
	t.Setenv("STARTING_CASH", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero starting cash")
	}
}

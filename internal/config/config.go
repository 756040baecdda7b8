// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	// StartingCash seeds a fresh portfolio session.
	StartingCash decimal.Decimal `env:"STARTING_CASH" envDefault:"2000000"`
	// BaseCapital is the account size the sizing tools work from.
	BaseCapital decimal.Decimal `env:"BASE_CAPITAL" envDefault:"1000000"`

	DatabaseURL       string        `env:"DATABASE_URL"`
	MarketDataBaseURL string        `env:"MARKET_DATA_BASE_URL" envDefault:"https://query1.finance.yahoo.com"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// SymbolSuffix is appended to bare universe symbols, e.g. ".NS".
	SymbolSuffix string `env:"SYMBOL_SUFFIX" envDefault:".NS"`
	UniverseFile string `env:"UNIVERSE_FILE" envDefault:"universe.csv"`

	SnapshotFile   string `env:"SNAPSHOT_FILE" envDefault:"portfolio.csv"`
	TransactionLog string `env:"TRANSACTION_LOG" envDefault:"transactions.log"`
	ResultsDir     string `env:"RESULTS_DIR" envDefault:"results"`
	ChartsDir      string `env:"CHARTS_DIR" envDefault:"charts"`
	JournalCSV     string `env:"JOURNAL_CSV" envDefault:"journal.csv"`
	JournalText    string `env:"JOURNAL_TEXT" envDefault:"journal.txt"`
	SummaryCSV     string `env:"SUMMARY_CSV" envDefault:"all_stocks_info.csv"`
	SummaryText    string `env:"SUMMARY_TEXT" envDefault:"all_stocks_info.txt"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if !cfg.StartingCash.IsPositive() {
		return Config{}, fmt.Errorf("STARTING_CASH must be positive, got %s", cfg.StartingCash)
	}
	if !cfg.BaseCapital.IsPositive() {
		return Config{}, fmt.Errorf("BASE_CAPITAL must be positive, got %s", cfg.BaseCapital)
	}
	return cfg, nil
}

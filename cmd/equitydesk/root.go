package main

import (
	"os"
	"time"

	"equitydesk/internal/config"
	"equitydesk/internal/marketdata"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg    config.Config
	log    zerolog.Logger
	market *marketdata.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "equitydesk",
		Short:         "Market scanners, position sizing and a virtual portfolio for NSE equities",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()

			a.market = marketdata.New(cfg.MarketDataBaseURL, cfg.RequestTimeout)
			return nil
		},
	}

	root.AddCommand(
		newScanCmd(a),
		newPositionCmd(a),
		newStockInfoCmd(a),
		newChartCmd(a),
		newPortfolioCmd(a),
	)
	return root
}

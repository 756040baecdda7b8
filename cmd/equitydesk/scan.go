package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"equitydesk/internal/chart"
	"equitydesk/internal/repository"
	"equitydesk/internal/scan"
	"equitydesk/types"

	"github.com/spf13/cobra"
)

// Lookbacks are padded past the indicator windows so weekends and holidays
// still leave enough trading sessions.
const (
	breakoutLookback = 500 * 24 * time.Hour
	crossLookback    = 400 * 24 * time.Hour
	dojiLookback     = 220 * 24 * time.Hour

	crossRecency = 10 * 24 * time.Hour

	// dojiChartSessions is how much context the per-hit candlestick chart shows.
	dojiChartSessions = 140
)

func newScanCmd(a *app) *cobra.Command {
	var universePath string
	var outPath string

	cmd := &cobra.Command{
		Use:       "scan {breakout|doji|goldencross}",
		Short:     "Scan a symbol universe for chart setups",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"breakout", "doji", "goldencross"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if universePath == "" {
				universePath = a.cfg.UniverseFile
			}
			return a.runScan(cmd.Context(), args[0], universePath, outPath)
		},
	}
	cmd.Flags().StringVar(&universePath, "universe", "", "universe CSV with a SYMBOL column")
	cmd.Flags().StringVar(&outPath, "out", "", "results CSV path")
	return cmd
}

func (a *app) runScan(ctx context.Context, kind, universePath, outPath string) error {
	symbols, err := scan.LoadUniverse(universePath, a.cfg.SymbolSuffix)
	if err != nil {
		return err
	}
	a.log.Info().Int("symbols", len(symbols)).Str("scan", kind).Msg("starting scan")

	var store scan.CandleStore
	if a.cfg.DatabaseURL != "" {
		db, err := repository.NewDatabase(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect candle cache: %w", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare candle cache: %w", err)
		}
		store = &db
	}

	if err := os.MkdirAll(a.cfg.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	runner := scan.NewRunner(a.market, store, a.log, true)

	switch kind {
	case "breakout":
		return a.scanBreakouts(ctx, runner, symbols, resolveOut(outPath, a.cfg.ResultsDir, "breakouts.csv"))
	case "doji":
		return a.scanDojis(ctx, runner, symbols, resolveOut(outPath, a.cfg.ResultsDir, "doji.csv"))
	case "goldencross":
		return a.scanCrosses(ctx, runner, symbols, resolveOut(outPath, a.cfg.ResultsDir, "golden_crosses.csv"))
	default:
		return fmt.Errorf("unknown scan %q", kind)
	}
}

func (a *app) scanBreakouts(ctx context.Context, runner *scan.Runner, symbols []string, outPath string) error {
	var hits []scan.BreakoutHit
	scanned, err := runner.Run(ctx, symbols, breakoutLookback, func(symbol string, candles []types.Candle) error {
		if hit, ok := scan.DetectBreakout(symbol, candles); ok {
			hits = append(hits, hit)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(hits) > 0 {
		if err := scan.AppendBreakoutResults(outPath, hits); err != nil {
			return err
		}
	}
	a.log.Info().Int("scanned", scanned).Int("hits", len(hits)).Str("out", outPath).Msg("breakout scan done")
	return nil
}

func (a *app) scanDojis(ctx context.Context, runner *scan.Runner, symbols []string, outPath string) error {
	scanDate := time.Now()
	var hits []scan.DojiHit
	scanned, err := runner.Run(ctx, symbols, dojiLookback, func(symbol string, candles []types.Candle) error {
		hit, ok := scan.DetectDojiCluster(symbol, candles, scanDate)
		if !ok {
			return nil
		}
		hits = append(hits, hit)

		// Chart each hit so the cluster can be eyeballed in context.
		if len(candles) > dojiChartSessions {
			candles = candles[len(candles)-dojiChartSessions:]
		}
		path, err := a.chartPath(strings.ToLower(symbol) + "_doji.html")
		if err != nil {
			return err
		}
		return chart.WriteKlineHTML(path, symbol, candles)
	})
	if err != nil {
		return err
	}
	if len(hits) > 0 {
		if err := scan.AppendDojiResults(outPath, hits); err != nil {
			return err
		}
	}
	a.log.Info().Int("scanned", scanned).Int("hits", len(hits)).Str("out", outPath).Msg("doji scan done")
	return nil
}

func (a *app) scanCrosses(ctx context.Context, runner *scan.Runner, symbols []string, outPath string) error {
	cutoff := time.Now().Add(-crossRecency)
	var events []scan.CrossEvent
	scanned, err := runner.Run(ctx, symbols, crossLookback, func(symbol string, candles []types.Candle) error {
		events = append(events, scan.DetectGoldenCrosses(symbol, candles, cutoff)...)
		return nil
	})
	if err != nil {
		return err
	}
	if len(events) > 0 {
		if err := scan.AppendCrossResults(outPath, events); err != nil {
			return err
		}
	}
	a.log.Info().Int("scanned", scanned).Int("hits", len(events)).Str("out", outPath).Msg("golden cross scan done")
	return nil
}

func resolveOut(outPath, dir, name string) string {
	if outPath != "" {
		return outPath
	}
	return filepath.Join(dir, name)
}

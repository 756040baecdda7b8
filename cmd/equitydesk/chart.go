package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"equitydesk/internal/chart"
	"equitydesk/internal/ledger"
	"equitydesk/internal/stockinfo"
	"equitydesk/types"

	"github.com/spf13/cobra"
)

func newChartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render HTML charts",
	}
	cmd.AddCommand(newChartKlineCmd(a), newChartPortfolioCmd(a), newChartQuartersCmd(a))
	return cmd
}

func (a *app) chartPath(name string) (string, error) {
	if err := os.MkdirAll(a.cfg.ChartsDir, 0o755); err != nil {
		return "", fmt.Errorf("create charts dir: %w", err)
	}
	return filepath.Join(a.cfg.ChartsDir, name), nil
}

func newChartKlineCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "kline SYMBOL",
		Short: "Candlestick chart with volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			end := time.Now()
			candles, err := a.market.History(cmd.Context(), symbol, types.Day, end.AddDate(0, 0, -days), end)
			if err != nil {
				return err
			}

			path, err := a.chartPath(strings.ToLower(symbol) + "_kline.html")
			if err != nil {
				return err
			}
			if err := chart.WriteKlineHTML(path, symbol, candles); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 90, "calendar days of history to chart")
	return cmd
}

func newChartPortfolioCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Invested versus current value per open position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := ledger.LoadSnapshotFile(a.cfg.SnapshotFile)
			if err != nil {
				return err
			}

			book := ledger.New(a.cfg.StartingCash, a.market)
			if err := book.Restore(rows); err != nil {
				return err
			}
			snapshot, err := book.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			path, err := a.chartPath("portfolio.html")
			if err != nil {
				return err
			}
			if err := chart.WritePortfolioHTML(path, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", path)
			return nil
		},
	}
}

func newChartQuartersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quarters SYMBOL",
		Short: "Quarterly revenue and net income bars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			info, err := stockinfo.NewService(a.market).Summarize(cmd.Context(), symbol)
			if err != nil {
				return err
			}

			path, err := a.chartPath(strings.ToLower(symbol) + "_quarters.html")
			if err != nil {
				return err
			}
			if err := chart.WriteQuarterlyHTML(path, symbol, info.Revenue, info.NetIncome); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", path)
			return nil
		},
	}
}

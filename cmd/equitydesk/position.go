package main

import (
	"fmt"
	"time"

	"equitydesk/internal/indicator"
	"equitydesk/internal/risk"
	"equitydesk/types"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPositionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Size a prospective position and plan its stop loss",
	}
	cmd.AddCommand(newPositionSizeCmd(a), newPositionEMAStopCmd(a), newPositionRiskCmd(a))
	return cmd
}

func newPositionSizeCmd(a *app) *cobra.Command {
	var stopFlag string
	var journal bool

	cmd := &cobra.Command{
		Use:   "size SYMBOL",
		Short: "Size a buy from the stock's day change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			quote, err := a.market.LatestQuote(cmd.Context(), symbol)
			if err != nil {
				return err
			}
			change := quote.ChangePercent()

			sizing, err := risk.SizeByDayChange(a.cfg.BaseCapital, quote.Price, change)
			if err != nil {
				return err
			}

			stop := decimal.Zero
			if stopFlag != "" {
				stop, err = decimal.NewFromString(stopFlag)
				if err != nil {
					return fmt.Errorf("parse stop %q: %w", stopFlag, err)
				}
				sizing, err = sizing.WithCustomStop(a.cfg.BaseCapital, quote.Price, stop)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s at %s, day change %s%%\n", symbol, quote.Price.StringFixed(2), change.StringFixed(2))
			fmt.Fprintf(out, "deploy %s (%s%% of capital), %d shares\n",
				sizing.CapitalDeployed.StringFixed(2), sizing.PositionSizePct.StringFixed(2), sizing.Shares)
			fmt.Fprintf(out, "max risk %s (%s%% of capital)\n",
				sizing.MaxRisk.StringFixed(2), sizing.RiskPctOfCapital.StringFixed(4))

			if !journal {
				return nil
			}
			entry := risk.JournalEntry{
				Timestamp:        time.Now(),
				Symbol:           symbol,
				Price:            quote.Price,
				ChangePct:        change,
				PositionSizePct:  sizing.PositionSizePct,
				CapitalDeployed:  sizing.CapitalDeployed,
				MaxRisk:          sizing.MaxRisk,
				RiskPctOfCapital: sizing.RiskPctOfCapital,
				Shares:           sizing.Shares,
				StopLoss:         stop,
			}
			if err := risk.AppendJournalCSV(a.cfg.JournalCSV, entry); err != nil {
				return err
			}
			if err := risk.AppendJournalText(a.cfg.JournalText, entry); err != nil {
				return err
			}
			a.log.Info().Str("symbol", symbol).Msg("journaled sizing")
			return nil
		},
	}
	cmd.Flags().StringVar(&stopFlag, "stop", "", "custom stop-loss price")
	cmd.Flags().BoolVar(&journal, "journal", false, "append the sizing to the trade journal")
	return cmd
}

func newPositionEMAStopCmd(a *app) *cobra.Command {
	var span int

	cmd := &cobra.Command{
		Use:   "emastop SYMBOL",
		Short: "Size a buy with an EMA-ladder stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			end := time.Now()
			candles, err := a.market.History(cmd.Context(), symbol, types.Day, end.AddDate(-1, 0, 0), end)
			if err != nil {
				return err
			}

			ladder, err := risk.EMALadder(indicator.Closes(candles))
			if err != nil {
				return err
			}
			price := candles[len(candles)-1].Close

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s at %s\n", symbol, price.StringFixed(2))
			for _, s := range risk.LadderSpans {
				fmt.Fprintf(out, "  EMA %2d: %s\n", s, ladder[s].StringFixed(2))
			}

			plan, err := risk.PlanWithEMAStop(a.cfg.BaseCapital, price, ladder, span)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "stop at EMA %d = %s\n", plan.Span, plan.StopLoss.StringFixed(2))
			fmt.Fprintf(out, "%d shares, max risk %s, risk at stop %s\n",
				plan.Shares, plan.MaxRisk.StringFixed(2), plan.ActualRisk.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().IntVar(&span, "span", 9, "EMA span to place the stop at")
	return cmd
}

func newPositionRiskCmd(a *app) *cobra.Command {
	var accountFlag, riskFlag, entryFlag, stopFlag string

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Shares purchasable for a fixed account risk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account := a.cfg.BaseCapital
			var err error
			if accountFlag != "" {
				if account, err = decimal.NewFromString(accountFlag); err != nil {
					return fmt.Errorf("parse account %q: %w", accountFlag, err)
				}
			}
			riskPct, err := decimal.NewFromString(riskFlag)
			if err != nil {
				return fmt.Errorf("parse risk %q: %w", riskFlag, err)
			}
			entry, err := decimal.NewFromString(entryFlag)
			if err != nil {
				return fmt.Errorf("parse entry %q: %w", entryFlag, err)
			}
			stop, err := decimal.NewFromString(stopFlag)
			if err != nil {
				return fmt.Errorf("parse stop %q: %w", stopFlag, err)
			}

			result, err := risk.CalculateFixedRisk(account, riskPct, entry, stop)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "risk %s per share, %s total: %d shares\n",
				result.RiskPerShare.StringFixed(2), result.MaxRiskAmount.StringFixed(2), result.Shares)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountFlag, "account", "", "account size (defaults to BASE_CAPITAL)")
	cmd.Flags().StringVar(&riskFlag, "risk-pct", "1", "percent of account to risk")
	cmd.Flags().StringVar(&entryFlag, "entry", "", "entry price")
	cmd.Flags().StringVar(&stopFlag, "stop", "", "stop-loss price")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}

package main

import (
	"strings"

	"equitydesk/internal/stockinfo"
	"equitydesk/types"

	"github.com/spf13/cobra"
)

func newStockInfoCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "stockinfo SYMBOL...",
		Short: "Summarize a year of price action plus fundamentals per symbol",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := stockinfo.NewService(a.market)

			var infos []types.StockInfo
			for _, symbol := range args {
				symbol = strings.ToUpper(strings.TrimSpace(symbol))
				info, err := service.Summarize(cmd.Context(), symbol)
				if err != nil {
					a.log.Warn().Str("symbol", symbol).Err(err).Msg("skipping symbol")
					continue
				}
				infos = append(infos, info)
			}
			if len(infos) == 0 {
				return stockinfo.ErrNoHistory
			}

			if err := stockinfo.WriteSummaryText(cmd.OutOrStdout(), infos); err != nil {
				return err
			}
			if !save {
				return nil
			}
			if err := stockinfo.AppendSummaryCSV(a.cfg.SummaryCSV, infos); err != nil {
				return err
			}
			if err := stockinfo.AppendSummaryText(a.cfg.SummaryText, infos); err != nil {
				return err
			}
			a.log.Info().Str("csv", a.cfg.SummaryCSV).Str("text", a.cfg.SummaryText).Msg("summaries saved")
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "append summaries to the shared CSV and text files")
	return cmd
}

package stockinfo

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"equitydesk/types"
)

var summaryHeader = []string{
	"symbol", "high_price_365d", "low_price_365d", "high_volume_365d",
	"low_volume_365d", "market_cap_thousand_cr", "sector", "industry", "pe_ratio",
}

// AppendSummaryCSV appends summaries to a shared CSV file, writing the
// header only when the file does not exist yet. Each summary row is followed
// by its quarterly revenue and net income blocks.
func AppendSummaryCSV(path string, infos []types.StockInfo) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary %s: %w", path, err)
	}
	defer file.Close()

	return writeSummaryCSV(file, infos, writeHeader)
}

func writeSummaryCSV(w io.Writer, infos []types.StockInfo, writeHeader bool) error {
	cw := csv.NewWriter(w)
	if writeHeader {
		if err := cw.Write(summaryHeader); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}
	for _, info := range infos {
		row := []string{
			info.Symbol,
			info.HighPrice.StringFixed(2),
			info.LowPrice.StringFixed(2),
			info.HighVolume.String(),
			info.LowVolume.String(),
			info.MarketCap.StringFixed(2),
			info.Sector,
			info.Industry,
			info.TrailingPE.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
		if err := writeQuarterBlock(cw, "revenue_thousand_cr", info.Revenue); err != nil {
			return err
		}
		if err := writeQuarterBlock(cw, "net_income_thousand_cr", info.NetIncome); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeQuarterBlock(cw *csv.Writer, label string, figures []types.QuarterFigure) error {
	if err := cw.Write([]string{label}); err != nil {
		return fmt.Errorf("write quarter label: %w", err)
	}
	for _, f := range figures {
		if err := cw.Write([]string{f.Quarter.Format(time.DateOnly), f.Value.StringFixed(2)}); err != nil {
			return fmt.Errorf("write quarter row: %w", err)
		}
	}
	return nil
}

// AppendSummaryText appends a human-readable block per summary.
func AppendSummaryText(path string, infos []types.StockInfo) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary %s: %w", path, err)
	}
	defer file.Close()

	return WriteSummaryText(file, infos)
}

// WriteSummaryText writes the human-readable form of each summary.
func WriteSummaryText(w io.Writer, infos []types.StockInfo) error {
	for _, info := range infos {
		fmt.Fprintf(w, "Symbol: %s\n", info.Symbol)
		fmt.Fprintf(w, "365-Day High Price: %s\n", info.HighPrice.StringFixed(2))
		fmt.Fprintf(w, "365-Day Low Price: %s\n", info.LowPrice.StringFixed(2))
		fmt.Fprintf(w, "365-Day High Volume: %s\n", info.HighVolume.String())
		fmt.Fprintf(w, "365-Day Low Volume: %s\n", info.LowVolume.String())
		fmt.Fprintf(w, "Market Cap: %s thousand crores\n", info.MarketCap.StringFixed(2))

		fmt.Fprintf(w, "\nLast %d Quarters Revenue (thousand crores):\n", len(info.Revenue))
		for _, f := range info.Revenue {
			fmt.Fprintf(w, "%s: %s\n", f.Quarter.Format(time.DateOnly), f.Value.StringFixed(2))
		}
		fmt.Fprintf(w, "\nLast %d Quarters Net Income (thousand crores):\n", len(info.NetIncome))
		for _, f := range info.NetIncome {
			fmt.Fprintf(w, "%s: %s\n", f.Quarter.Format(time.DateOnly), f.Value.StringFixed(2))
		}

		fmt.Fprintf(w, "\nSector: %s\n", info.Sector)
		fmt.Fprintf(w, "Industry: %s\n", info.Industry)
		fmt.Fprintf(w, "P/E Ratio: %s\n", info.TrailingPE.StringFixed(2))
		if _, err := fmt.Fprintf(w, "%s\n", strings.Repeat("-", 50)); err != nil {
			return fmt.Errorf("write summary text: %w", err)
		}
	}
	return nil
}

package scan

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// Result files are append-only: rerunning a scan adds to the history rather
// than replacing it, matching the journaling style of the rest of the tools.

func AppendBreakoutResults(path string, hits []BreakoutHit) error {
	return appendCSV(path,
		[]string{"symbol", "date", "high", "prior_52wk_high"},
		func(cw *csv.Writer) error {
			for _, hit := range hits {
				record := []string{
					hit.Symbol,
					hit.Date.Format(time.DateOnly),
					hit.High.String(),
					hit.PriorHigh.String(),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
}

func AppendCrossResults(path string, events []CrossEvent) error {
	return appendCSV(path,
		[]string{"symbol", "date", "close", "short_ma", "long_ma"},
		func(cw *csv.Writer) error {
			for _, ev := range events {
				record := []string{
					ev.Symbol,
					ev.Date.Format(time.DateOnly),
					ev.Close.StringFixed(2),
					ev.ShortMA.StringFixed(2),
					ev.LongMA.StringFixed(2),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
}

func AppendDojiResults(path string, hits []DojiHit) error {
	return appendCSV(path,
		[]string{"symbol", "doji_count", "scan_date"},
		func(cw *csv.Writer) error {
			for _, hit := range hits {
				record := []string{
					hit.Symbol,
					fmt.Sprintf("%d", hit.Count),
					hit.ScanDate.Format(time.DateOnly),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
}

func appendCSV(path string, header []string, write func(cw *csv.Writer) error) error {
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if newFile {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := write(cw); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

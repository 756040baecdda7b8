package risk

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry records one sized trade idea for later review.
type JournalEntry struct {
	Timestamp        time.Time
	Symbol           string
	Price            decimal.Decimal
	ChangePct        decimal.Decimal
	PositionSizePct  decimal.Decimal
	CapitalDeployed  decimal.Decimal
	MaxRisk          decimal.Decimal
	RiskPctOfCapital decimal.Decimal
	Shares           int64
	StopLoss         decimal.Decimal
}

var journalHeader = []string{
	"date", "symbol", "price", "change_pct", "position_size_pct",
	"capital_deployed", "max_risk", "risk_pct_of_capital", "shares", "stop_loss",
}

// AppendJournalCSV appends the entry to a CSV journal, writing the header
// only when the file does not exist yet.
func AppendJournalCSV(path string, entry JournalEntry) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", path, err)
	}
	defer file.Close()

	return writeJournalCSV(file, entry, writeHeader)
}

func writeJournalCSV(w io.Writer, entry JournalEntry, writeHeader bool) error {
	cw := csv.NewWriter(w)
	if writeHeader {
		if err := cw.Write(journalHeader); err != nil {
			return fmt.Errorf("write journal header: %w", err)
		}
	}
	record := []string{
		entry.Timestamp.Format(time.DateOnly),
		entry.Symbol,
		entry.Price.StringFixed(2),
		entry.ChangePct.StringFixed(2),
		entry.PositionSizePct.StringFixed(2),
		entry.CapitalDeployed.StringFixed(2),
		entry.MaxRisk.StringFixed(2),
		entry.RiskPctOfCapital.StringFixed(4),
		strconv.FormatInt(entry.Shares, 10),
		entry.StopLoss.StringFixed(2),
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// AppendJournalText appends a human-readable block for the entry.
func AppendJournalText(path string, entry JournalEntry) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", path, err)
	}
	defer file.Close()

	return writeJournalText(file, entry)
}

func writeJournalText(w io.Writer, entry JournalEntry) error {
	_, err := fmt.Fprintf(w,
		"%s %s\n  price %s  day change %s%%\n  deploy %s (%s%% of capital), %d shares\n  max risk %s (%s%% of capital), stop %s\n\n",
		entry.Timestamp.Format(time.DateOnly), entry.Symbol,
		entry.Price.StringFixed(2), entry.ChangePct.StringFixed(2),
		entry.CapitalDeployed.StringFixed(2), entry.PositionSizePct.StringFixed(2), entry.Shares,
		entry.MaxRisk.StringFixed(2), entry.RiskPctOfCapital.StringFixed(4), entry.StopLoss.StringFixed(2),
	)
	if err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

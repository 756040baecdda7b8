package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotRow is one open position in a point-in-time export. The first four
// columns are authoritative on restore; the derived display columns are
// recomputed on every snapshot and never reloaded.
type SnapshotRow struct {
	Symbol        string
	Quantity      int64
	AvgCost       decimal.Decimal
	AcquiredAt    time.Time
	CurrentPrice  decimal.Decimal
	Invested      decimal.Decimal
	CurrentValue  decimal.Decimal
	ChangePercent decimal.Decimal
}

// Snapshot exports every open position with display fields computed at
// current market prices. A failed quote for any symbol fails the snapshot.
func (l *Ledger) Snapshot(ctx context.Context) ([]SnapshotRow, error) {
	rows := make([]SnapshotRow, 0, len(l.positions))
	for _, symbol := range l.heldSymbols() {
		pos := l.positions[symbol]
		price, err := l.prices.Quote(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", symbol, err)
		}
		qty := decimal.NewFromInt(pos.Quantity)
		rows = append(rows, SnapshotRow{
			Symbol:        pos.Symbol,
			Quantity:      pos.Quantity,
			AvgCost:       pos.AvgCost,
			AcquiredAt:    pos.AcquiredAt,
			CurrentPrice:  price.Round(2),
			Invested:      pos.AvgCost.Mul(qty).Round(2),
			CurrentValue:  price.Mul(qty).Round(2),
			ChangePercent: price.Sub(pos.AvgCost).Div(pos.AvgCost).Mul(decimal.NewFromInt(100)).Round(2),
		})
	}
	return rows, nil
}

// Restore replaces the position set wholesale from a previously saved
// snapshot. Cash and transaction history are session-scoped and are not
// restored.
func (l *Ledger) Restore(rows []SnapshotRow) error {
	positions := make(map[string]*Position, len(rows))
	for _, row := range rows {
		if row.Symbol == "" || row.Quantity <= 0 || !row.AvgCost.IsPositive() {
			return fmt.Errorf("snapshot row %q qty=%d avg=%s: %w",
				row.Symbol, row.Quantity, row.AvgCost, ErrInvalidInput)
		}
		if _, ok := positions[row.Symbol]; ok {
			return fmt.Errorf("duplicate snapshot row %q: %w", row.Symbol, ErrInvalidInput)
		}
		positions[row.Symbol] = &Position{
			Symbol:     row.Symbol,
			Quantity:   row.Quantity,
			AvgCost:    row.AvgCost,
			AcquiredAt: row.AcquiredAt,
		}
	}
	l.positions = positions
	return nil
}

var snapshotHeader = []string{
	"symbol",
	"quantity",
	"avg_cost",
	"acquired_at",
	"current_price",
	"invested_amount",
	"current_value",
	"change_pct",
}

// SaveSnapshotFile writes snapshot rows as CSV at the given path, replacing
// any previous snapshot.
func SaveSnapshotFile(path string, rows []SnapshotRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	return writeSnapshotCSV(f, rows)
}

func writeSnapshotCSV(w io.Writer, rows []SnapshotRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Symbol,
			strconv.FormatInt(row.Quantity, 10),
			row.AvgCost.String(),
			row.AcquiredAt.Format(time.RFC3339),
			row.CurrentPrice.String(),
			row.Invested.String(),
			row.CurrentValue.String(),
			row.ChangePercent.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// LoadSnapshotFile reads a snapshot CSV back into rows. Only the
// authoritative columns are parsed; derived columns are ignored.
func LoadSnapshotFile(path string) ([]SnapshotRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	return readSnapshotCSV(f)
}

func readSnapshotCSV(r io.Reader) ([]SnapshotRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot csv: %w", err)
	}

	var rows []SnapshotRow
	for i, record := range records {
		if i == 0 && len(record) > 0 && record[0] == snapshotHeader[0] {
			continue
		}
		if len(record) < 4 {
			return nil, fmt.Errorf("snapshot row %d has %d columns: %w", i, len(record), ErrInvalidInput)
		}
		qty, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("snapshot row %d quantity %q: %w", i, record[1], ErrInvalidInput)
		}
		avgCost, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("snapshot row %d avg cost %q: %w", i, record[2], ErrInvalidInput)
		}
		acquiredAt, err := time.Parse(time.RFC3339, record[3])
		if err != nil {
			return nil, fmt.Errorf("snapshot row %d acquired at %q: %w", i, record[3], ErrInvalidInput)
		}
		rows = append(rows, SnapshotRow{
			Symbol:     record[0],
			Quantity:   qty,
			AvgCost:    avgCost,
			AcquiredAt: acquiredAt,
		})
	}
	return rows, nil
}

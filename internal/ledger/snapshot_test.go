package ledger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"equitydesk/types"

	"github.com/shopspring/decimal"
)

func TestSnapshotDerivedFields(t *testing.T) {
	prices := scriptedPrices{prices: map[string]decimal.Decimal{"X": d("120")}}
	l := New(d("10000"), prices)
	mustBuy(t, l, "X", 10, d("100"))

	rows, err := l.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("snapshot rows = %d, want 1", len(rows))
	}

	row := rows[0]
	if row.Symbol != "X" || row.Quantity != 10 || !row.AvgCost.Equal(d("100")) {
		t.Errorf("authoritative columns = %+v", row)
	}
	if !row.CurrentPrice.Equal(d("120")) {
		t.Errorf("current price = %s, want 120", row.CurrentPrice)
	}
	if !row.Invested.Equal(d("1000")) {
		t.Errorf("invested = %s, want 1000", row.Invested)
	}
	if !row.CurrentValue.Equal(d("1200")) {
		t.Errorf("current value = %s, want 1200", row.CurrentValue)
	}
	if !row.ChangePercent.Equal(d("20")) {
		t.Errorf("change pct = %s, want 20", row.ChangePercent)
	}
}

func TestSnapshotSaveLoadRestore(t *testing.T) {
	prices := scriptedPrices{prices: map[string]decimal.Decimal{
		"X": d("120"),
		"Y": d("33.35"),
	}}
	l := New(d("100000"), prices)
	mustBuy(t, l, "X", 10, d("100"))
	mustBuy(t, l, "Y", 40, d("32.10"))

	rows, err := l.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	path := filepath.Join(t.TempDir(), "portfolio.csv")
	if err := SaveSnapshotFile(path, rows); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadSnapshotFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded rows = %d, want 2", len(loaded))
	}

	restored := New(d("100000"), prices)
	if err := restored.Restore(loaded); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for _, want := range l.Positions() {
		got, ok := restored.Position(want.Symbol)
		if !ok {
			t.Fatalf("restored ledger missing %s", want.Symbol)
		}
		if got.Quantity != want.Quantity || !got.AvgCost.Equal(want.AvgCost) || !got.AcquiredAt.Equal(want.AcquiredAt) {
			t.Errorf("restored %s = %+v, want %+v", want.Symbol, got, want)
		}
	}
	// Cash is session-scoped and must not come from the snapshot.
	if !restored.Cash().Equal(d("100000")) {
		t.Errorf("restore changed cash: %s", restored.Cash())
	}
}

func TestRestoreRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		rows []SnapshotRow
	}{
		{"zero quantity", []SnapshotRow{{Symbol: "X", Quantity: 0, AvgCost: d("10")}}},
		{"negative avg cost", []SnapshotRow{{Symbol: "X", Quantity: 1, AvgCost: d("-10")}}},
		{"empty symbol", []SnapshotRow{{Symbol: "", Quantity: 1, AvgCost: d("10")}}},
		{
			"duplicate symbol",
			[]SnapshotRow{
				{Symbol: "X", Quantity: 1, AvgCost: d("10")},
				{Symbol: "X", Quantity: 2, AvgCost: d("11")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(d("100"), nil)
			if err := l.Restore(tt.rows); err == nil {
				t.Error("restore accepted invalid rows")
			}
		})
	}
}

func TestTransactionLogFormat(t *testing.T) {
	var buf bytes.Buffer
	txs := []types.Transaction{
		{
			Id:          "tx-1",
			Timestamp:   time.Date(2024, 11, 4, 10, 15, 0, 0, time.UTC),
			Action:      types.ActionBuy,
			Symbol:      "RELIANCE.NS",
			Quantity:    10,
			Price:       d("2850.5"),
			TotalValue:  d("28505"),
			CashBalance: d("1971495"),
		},
	}
	if err := writeTransactionLog(&buf, txs); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "2024-11-04 10:15:00 BUY RELIANCE.NS qty=10 price=2850.50 total=28505.00 cash=1971495.00 id=tx-1\n"
	if buf.String() != want {
		t.Errorf("log line = %q, want %q", buf.String(), want)
	}
}

func TestAppendTransactionLogOnlyAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transaction_log.txt")
	tx := types.Transaction{
		Id: "a", Timestamp: tradeTime, Action: types.ActionBuy, Symbol: "X",
		Quantity: 1, Price: d("10"), TotalValue: d("10"), CashBalance: d("90"),
	}

	if err := AppendTransactionLog(path, []types.Transaction{tx}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	tx.Id = "b"
	if err := AppendTransactionLog(path, []types.Transaction{tx}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "id=a") || !strings.Contains(lines[1], "id=b") {
		t.Errorf("log not appended in order: %v", lines)
	}
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"equitydesk/types"

	"github.com/shopspring/decimal"
)

var tradeTime = time.Date(2024, 11, 4, 10, 15, 0, 0, time.UTC)

type scriptedPrices struct {
	prices map[string]decimal.Decimal
	err    error
}

func (s scriptedPrices) Quote(_ context.Context, symbol string) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	price, ok := s.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("no scripted quote for %s", symbol)
	}
	return price, nil
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLedgerBuySellScenario(t *testing.T) {
	l := New(d("2000000"), nil)

	if err := l.Buy("X", 10, d("100"), tradeTime); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	if !l.Cash().Equal(d("1999000")) {
		t.Errorf("cash after first buy = %s, want 1999000", l.Cash())
	}
	pos, ok := l.Position("X")
	if !ok {
		t.Fatal("position X missing after buy")
	}
	if pos.Quantity != 10 || !pos.AvgCost.Equal(d("100")) {
		t.Errorf("position after first buy = qty %d avg %s, want qty 10 avg 100", pos.Quantity, pos.AvgCost)
	}

	if err := l.Buy("X", 10, d("200"), tradeTime.Add(time.Hour)); err != nil {
		t.Fatalf("top-up buy: %v", err)
	}
	pos, _ = l.Position("X")
	if pos.Quantity != 20 || !pos.AvgCost.Equal(d("150")) {
		t.Errorf("position after top-up = qty %d avg %s, want qty 20 avg 150", pos.Quantity, pos.AvgCost)
	}
	if !l.Cash().Equal(d("1997000")) {
		t.Errorf("cash after top-up = %s, want 1997000", l.Cash())
	}
	if !pos.AcquiredAt.Equal(tradeTime) {
		t.Errorf("acquired at overwritten by top-up: got %s, want %s", pos.AcquiredAt, tradeTime)
	}

	if err := l.Sell("X", 5, d("300"), tradeTime.Add(2*time.Hour)); err != nil {
		t.Fatalf("partial sell: %v", err)
	}
	if !l.Cash().Equal(d("1998500")) {
		t.Errorf("cash after partial sell = %s, want 1998500", l.Cash())
	}
	pos, _ = l.Position("X")
	if pos.Quantity != 15 || !pos.AvgCost.Equal(d("150")) {
		t.Errorf("position after partial sell = qty %d avg %s, want qty 15 avg 150 (avg unchanged)", pos.Quantity, pos.AvgCost)
	}

	if len(l.Transactions()) != 3 {
		t.Errorf("transaction count = %d, want 3", len(l.Transactions()))
	}
}

func TestLedgerLiquidateAll(t *testing.T) {
	prices := scriptedPrices{prices: map[string]decimal.Decimal{"X": d("150")}}
	l := New(d("2000000"), prices)

	if err := l.LiquidateAll(context.Background(), tradeTime); err != nil {
		t.Fatalf("liquidate on empty set: %v", err)
	}
	if len(l.Transactions()) != 0 {
		t.Errorf("liquidating an empty set appended %d records", len(l.Transactions()))
	}

	mustBuy(t, l, "X", 15, d("150"))
	cashBefore := l.Cash()

	if err := l.LiquidateAll(context.Background(), tradeTime.Add(time.Hour)); err != nil {
		t.Fatalf("liquidate: %v", err)
	}
	if len(l.Positions()) != 0 {
		t.Errorf("positions not cleared after liquidation: %v", l.Positions())
	}
	wantCash := cashBefore.Add(d("2250"))
	if !l.Cash().Equal(wantCash) {
		t.Errorf("cash after liquidation = %s, want %s", l.Cash(), wantCash)
	}
}

func TestLedgerLiquidateAllQuoteFailure(t *testing.T) {
	quoteErr := errors.New("provider down")
	l := New(d("10000"), scriptedPrices{err: quoteErr})
	mustBuy(t, l, "X", 10, d("100"))
	mustBuy(t, l, "Y", 5, d("50"))

	cash := l.Cash()
	positions := l.Positions()
	txCount := len(l.Transactions())

	err := l.LiquidateAll(context.Background(), tradeTime)
	if !errors.Is(err, quoteErr) {
		t.Fatalf("liquidate error = %v, want wrapped %v", err, quoteErr)
	}
	if !l.Cash().Equal(cash) {
		t.Errorf("cash mutated by failed liquidation: %s != %s", l.Cash(), cash)
	}
	if len(l.Positions()) != len(positions) {
		t.Errorf("positions mutated by failed liquidation")
	}
	if len(l.Transactions()) != txCount {
		t.Errorf("transactions appended by failed liquidation")
	}
}

func TestLedgerRejections(t *testing.T) {
	tests := []struct {
		name    string
		run     func(l *Ledger) error
		wantErr error
	}{
		{
			name:    "buy exceeding cash",
			run:     func(l *Ledger) error { return l.Buy("X", 1000, d("5000"), tradeTime) },
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "sell symbol never bought",
			run:     func(l *Ledger) error { return l.Sell("ZZ", 1, d("10"), tradeTime) },
			wantErr: ErrNoSuchPosition,
		},
		{
			name:    "sell more than held",
			run:     func(l *Ledger) error { return l.Sell("X", 11, d("10"), tradeTime) },
			wantErr: ErrInsufficientShares,
		},
		{
			name:    "zero quantity buy",
			run:     func(l *Ledger) error { return l.Buy("X", 0, d("10"), tradeTime) },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative quantity sell",
			run:     func(l *Ledger) error { return l.Sell("X", -3, d("10"), tradeTime) },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero price buy",
			run:     func(l *Ledger) error { return l.Buy("X", 1, decimal.Zero, tradeTime) },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty symbol",
			run:     func(l *Ledger) error { return l.Buy("  ", 1, d("10"), tradeTime) },
			wantErr: ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(d("10000"), nil)
			mustBuy(t, l, "X", 10, d("100"))

			cash := l.Cash()
			txCount := len(l.Transactions())
			posBefore, _ := l.Position("X")

			err := tt.run(l)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !l.Cash().Equal(cash) {
				t.Errorf("cash changed by rejected operation: %s != %s", l.Cash(), cash)
			}
			if len(l.Transactions()) != txCount {
				t.Errorf("transaction appended by rejected operation")
			}
			posAfter, ok := l.Position("X")
			if !ok || posAfter.Quantity != posBefore.Quantity || !posAfter.AvgCost.Equal(posBefore.AvgCost) {
				t.Errorf("position changed by rejected operation: %+v != %+v", posAfter, posBefore)
			}
		})
	}
}

func TestLedgerFullSellRemovesPosition(t *testing.T) {
	l := New(d("10000"), nil)
	mustBuy(t, l, "X", 10, d("100"))

	if err := l.Sell("X", 10, d("120"), tradeTime); err != nil {
		t.Fatalf("full sell: %v", err)
	}
	if _, ok := l.Position("X"); ok {
		t.Error("position retained after selling full quantity")
	}
	if len(l.Positions()) != 0 {
		t.Errorf("positions not empty: %v", l.Positions())
	}
}

func TestLedgerWeightedAverageOverManyBuys(t *testing.T) {
	l := New(d("1000000"), nil)
	buys := []struct {
		qty   int64
		price decimal.Decimal
	}{
		{10, d("100")},
		{5, d("130")},
		{25, d("90")},
		{10, d("112.50")},
	}

	var totalQty int64
	totalCost := decimal.Zero
	for _, b := range buys {
		mustBuy(t, l, "X", b.qty, b.price)
		totalQty += b.qty
		totalCost = totalCost.Add(b.price.Mul(decimal.NewFromInt(b.qty)))
	}

	pos, _ := l.Position("X")
	wantAvg := totalCost.Div(decimal.NewFromInt(totalQty))
	if pos.Quantity != totalQty {
		t.Errorf("quantity = %d, want %d", pos.Quantity, totalQty)
	}
	if !pos.AvgCost.Equal(wantAvg) {
		t.Errorf("avg cost = %s, want %s", pos.AvgCost, wantAvg)
	}
	if !l.Cash().Equal(d("1000000").Sub(totalCost)) {
		t.Errorf("cash = %s, want %s", l.Cash(), d("1000000").Sub(totalCost))
	}
}

func TestLedgerValuationAndPNL(t *testing.T) {
	prices := scriptedPrices{prices: map[string]decimal.Decimal{
		"X": d("120"),
		"Y": d("40"),
	}}
	l := New(d("10000"), prices)
	mustBuy(t, l, "X", 10, d("100")) // invested 1000, now worth 1200
	mustBuy(t, l, "Y", 20, d("50"))  // invested 1000, now worth 800

	valuation, err := l.Valuation(context.Background())
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	// cash 8000 + 1200 + 800
	if !valuation.Equal(d("10000")) {
		t.Errorf("valuation = %s, want 10000", valuation)
	}

	pnl, err := l.UnrealizedPNL(context.Background())
	if err != nil {
		t.Fatalf("pnl: %v", err)
	}
	if !pnl.Equal(d("0")) {
		t.Errorf("pnl = %s, want 0", pnl)
	}

	failing := New(d("100"), scriptedPrices{err: errors.New("no data")})
	mustBuy(t, failing, "X", 1, d("10"))
	if _, err := failing.Valuation(context.Background()); err == nil {
		t.Error("valuation succeeded with failing price source")
	}
	if _, err := failing.UnrealizedPNL(context.Background()); err == nil {
		t.Error("pnl succeeded with failing price source")
	}
}

func TestLedgerReplayReproducesState(t *testing.T) {
	initialCash := d("2000000")
	l := New(initialCash, nil)
	mustBuy(t, l, "X", 10, d("100"))
	mustBuy(t, l, "Y", 50, d("25.40"))
	mustBuy(t, l, "X", 10, d("200"))
	if err := l.Sell("X", 5, d("300"), tradeTime); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if err := l.Sell("Y", 50, d("30"), tradeTime); err != nil {
		t.Fatalf("sell: %v", err)
	}

	replayed, err := Replay(initialCash, l.Transactions())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !replayed.Cash().Equal(l.Cash()) {
		t.Errorf("replayed cash = %s, want %s", replayed.Cash(), l.Cash())
	}
	want := l.Positions()
	got := replayed.Positions()
	if len(got) != len(want) {
		t.Fatalf("replayed %d positions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Symbol != want[i].Symbol || got[i].Quantity != want[i].Quantity || !got[i].AvgCost.Equal(want[i].AvgCost) {
			t.Errorf("replayed position %s = %+v, want %+v", want[i].Symbol, got[i], want[i])
		}
	}
}

func TestLedgerTransactionRecords(t *testing.T) {
	l := New(d("5000"), nil)
	mustBuy(t, l, "X", 10, d("100"))
	if err := l.Sell("X", 4, d("110"), tradeTime.Add(time.Minute)); err != nil {
		t.Fatalf("sell: %v", err)
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("transaction count = %d, want 2", len(txs))
	}

	buy := txs[0]
	if buy.Action != types.ActionBuy || buy.Symbol != "X" || buy.Quantity != 10 {
		t.Errorf("buy record = %+v", buy)
	}
	if !buy.TotalValue.Equal(d("1000")) || !buy.CashBalance.Equal(d("4000")) {
		t.Errorf("buy record total=%s cash=%s, want 1000/4000", buy.TotalValue, buy.CashBalance)
	}

	sell := txs[1]
	if sell.Action != types.ActionSell || !sell.TotalValue.Equal(d("440")) || !sell.CashBalance.Equal(d("4440")) {
		t.Errorf("sell record = %+v", sell)
	}
	if buy.Id == "" || sell.Id == "" || buy.Id == sell.Id {
		t.Errorf("transaction ids not unique: %q, %q", buy.Id, sell.Id)
	}
}

func mustBuy(t *testing.T, l *Ledger, symbol string, qty int64, price decimal.Decimal) {
	t.Helper()
	if err := l.Buy(symbol, qty, price, tradeTime); err != nil {
		t.Fatalf("buy %d %s at %s: %v", qty, symbol, price, err)
	}
}

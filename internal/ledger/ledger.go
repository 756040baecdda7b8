package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"equitydesk/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSource supplies the most recent traded price for a symbol. The ledger
// never fetches prices itself for buys and sells (the caller quotes first and
// passes the execution price in); it consults the source for liquidation,
// valuation and snapshots.
type PriceSource interface {
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Position is one open holding. AvgCost is the quantity-weighted mean price
// across every buy contributing to the current holding; sells never change
// it. AcquiredAt is the timestamp of the buy that opened the position and is
// preserved across top-ups.
type Position struct {
	Symbol     string
	Quantity   int64
	AvgCost    decimal.Decimal
	AcquiredAt time.Time
}

// Ledger holds session cash and open positions and records every mutation in
// an append-only transaction slice. It is not safe for concurrent use;
// callers own serialization.
type Ledger struct {
	cash         decimal.Decimal
	positions    map[string]*Position
	transactions []types.Transaction
	prices       PriceSource
}

func New(initialCash decimal.Decimal, prices PriceSource) *Ledger {
	return &Ledger{
		cash:      initialCash,
		positions: make(map[string]*Position),
		prices:    prices,
	}
}

// Buy debits cash for quantity shares at the given execution price. A buy
// that would overdraw cash is rejected whole; there are no partial fills.
// Topping up an existing position recomputes the weighted average cost.
func (l *Ledger) Buy(symbol string, quantity int64, price decimal.Decimal, ts time.Time) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validateTrade(symbol, quantity, price); err != nil {
		return err
	}

	totalCost := price.Mul(decimal.NewFromInt(quantity))
	if totalCost.GreaterThan(l.cash) {
		return fmt.Errorf("buy %d %s at %s needs %s, have %s: %w",
			quantity, symbol, price, totalCost, l.cash, ErrInsufficientFunds)
	}

	l.cash = l.cash.Sub(totalCost)

	if pos, ok := l.positions[symbol]; ok {
		pos.AvgCost = weightedAvgCost(pos.AvgCost, pos.Quantity, totalCost, quantity)
		pos.Quantity += quantity
	} else {
		l.positions[symbol] = &Position{
			Symbol:     symbol,
			Quantity:   quantity,
			AvgCost:    price,
			AcquiredAt: ts,
		}
	}

	l.record(types.ActionBuy, symbol, quantity, price, totalCost, ts)
	return nil
}

// Sell credits cash for quantity shares at the given execution price. Selling
// the full holding removes the position; a partial sell leaves AvgCost
// untouched. Short selling is not allowed.
func (l *Ledger) Sell(symbol string, quantity int64, price decimal.Decimal, ts time.Time) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validateTrade(symbol, quantity, price); err != nil {
		return err
	}

	pos, ok := l.positions[symbol]
	if !ok {
		return fmt.Errorf("sell %s: %w", symbol, ErrNoSuchPosition)
	}
	if quantity > pos.Quantity {
		return fmt.Errorf("sell %d %s, holding %d: %w",
			quantity, symbol, pos.Quantity, ErrInsufficientShares)
	}

	totalValue := price.Mul(decimal.NewFromInt(quantity))
	l.cash = l.cash.Add(totalValue)

	pos.Quantity -= quantity
	if pos.Quantity == 0 {
		delete(l.positions, symbol)
	}

	l.record(types.ActionSell, symbol, quantity, price, totalValue, ts)
	return nil
}

// LiquidateAll sells every open position in full at its current market
// price. All prices are fetched before anything is applied, so a failed
// quote for any symbol aborts with the ledger unchanged. A no-op on an
// empty position set.
func (l *Ledger) LiquidateAll(ctx context.Context, ts time.Time) error {
	if len(l.positions) == 0 {
		return nil
	}

	symbols := l.heldSymbols()
	quotes := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		price, err := l.prices.Quote(ctx, symbol)
		if err != nil {
			return fmt.Errorf("liquidate %s: %w", symbol, err)
		}
		quotes[symbol] = price
	}

	for _, symbol := range symbols {
		pos := l.positions[symbol]
		price := quotes[symbol]
		totalValue := price.Mul(decimal.NewFromInt(pos.Quantity))
		l.cash = l.cash.Add(totalValue)
		l.record(types.ActionSell, symbol, pos.Quantity, price, totalValue, ts)
		delete(l.positions, symbol)
	}
	return nil
}

// Valuation is cash plus the mark-to-market value of every open position,
// quoted fresh. A failed quote for any symbol fails the whole valuation; a
// partial sum would silently misstate total worth.
func (l *Ledger) Valuation(ctx context.Context) (decimal.Decimal, error) {
	total := l.cash
	for _, symbol := range l.heldSymbols() {
		pos := l.positions[symbol]
		price, err := l.prices.Quote(ctx, symbol)
		if err != nil {
			return decimal.Zero, fmt.Errorf("valuation %s: %w", symbol, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(pos.Quantity)))
	}
	return total, nil
}

// UnrealizedPNL is the mark-to-market gain or loss on open positions only.
// Cash and gains already realized by past sells are excluded.
func (l *Ledger) UnrealizedPNL(ctx context.Context) (decimal.Decimal, error) {
	pnl := decimal.Zero
	for _, symbol := range l.heldSymbols() {
		pos := l.positions[symbol]
		price, err := l.prices.Quote(ctx, symbol)
		if err != nil {
			return decimal.Zero, fmt.Errorf("pnl %s: %w", symbol, err)
		}
		qty := decimal.NewFromInt(pos.Quantity)
		pnl = pnl.Add(price.Mul(qty)).Sub(pos.AvgCost.Mul(qty))
	}
	return pnl, nil
}

func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

// Position returns a copy of the open position for symbol, if held.
func (l *Ledger) Position(symbol string) (Position, bool) {
	pos, ok := l.positions[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all open positions, ordered by symbol.
func (l *Ledger) Positions() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, symbol := range l.heldSymbols() {
		out = append(out, *l.positions[symbol])
	}
	return out
}

// Transactions returns a copy of the transaction log in append order.
func (l *Ledger) Transactions() []types.Transaction {
	return append([]types.Transaction(nil), l.transactions...)
}

// Replay rebuilds a ledger by applying a transaction log in order against the
// same starting cash. The result must match the ledger that produced the log.
func Replay(initialCash decimal.Decimal, transactions []types.Transaction) (*Ledger, error) {
	l := New(initialCash, nil)
	for _, tx := range transactions {
		var err error
		switch tx.Action {
		case types.ActionBuy:
			err = l.Buy(tx.Symbol, tx.Quantity, tx.Price, tx.Timestamp)
		case types.ActionSell:
			err = l.Sell(tx.Symbol, tx.Quantity, tx.Price, tx.Timestamp)
		default:
			err = fmt.Errorf("action %q: %w", tx.Action, ErrInvalidInput)
		}
		if err != nil {
			return nil, fmt.Errorf("replay transaction %s: %w", tx.Id, err)
		}
	}
	return l, nil
}

func (l *Ledger) record(action types.Action, symbol string, quantity int64, price, totalValue decimal.Decimal, ts time.Time) {
	l.transactions = append(l.transactions, types.Transaction{
		Id:          uuid.NewString(),
		Timestamp:   ts,
		Action:      action,
		Symbol:      symbol,
		Quantity:    quantity,
		Price:       price,
		TotalValue:  totalValue,
		CashBalance: l.cash,
	})
}

func (l *Ledger) heldSymbols() []string {
	symbols := make([]string, 0, len(l.positions))
	for symbol := range l.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func validateTrade(symbol string, quantity int64, price decimal.Decimal) error {
	if symbol == "" {
		return fmt.Errorf("empty symbol: %w", ErrInvalidInput)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, ErrInvalidInput)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price %s: %w", price, ErrInvalidInput)
	}
	return nil
}

func weightedAvgCost(existingAvg decimal.Decimal, existingQty int64, totalCost decimal.Decimal, addQty int64) decimal.Decimal {
	oldQty := decimal.NewFromInt(existingQty)
	newQty := decimal.NewFromInt(existingQty + addQty)
	return existingAvg.Mul(oldQty).Add(totalCost).Div(newQty)
}

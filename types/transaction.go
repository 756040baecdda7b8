package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Transaction is an immutable fact recorded for every ledger mutation.
// CashBalance is the ledger cash right after the transaction applied.
type Transaction struct {
	Id          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Action      Action          `json:"action"`
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	CashBalance decimal.Decimal `json:"cashBalance"`
}

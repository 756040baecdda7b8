package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the most recent traded price for a symbol together with the
// previous session close, which the risk tools use for day-change sizing.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	PrevClose decimal.Decimal `json:"prevClose"`
	Timestamp time.Time       `json:"timestamp"`
}

// ChangePercent returns the day change in percent relative to the previous
// close, or zero when no previous close is known.
func (q Quote) ChangePercent() decimal.Decimal {
	if q.PrevClose.IsZero() {
		return decimal.Zero
	}
	return q.Price.Sub(q.PrevClose).Div(q.PrevClose).Mul(decimal.NewFromInt(100))
}

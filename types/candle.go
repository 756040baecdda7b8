package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Candle struct {
	AssetId   int             `json:"id"`
	Symbol    string          `json:"symbol"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}

// IsDoji reports whether the session closed within threshold of its open,
// measured as |close-open|/open. A zero open never counts as a doji.
func (c Candle) IsDoji(threshold decimal.Decimal) bool {
	if c.Open.IsZero() {
		return false
	}
	move := c.Close.Sub(c.Open).Abs().Div(c.Open)
	return move.LessThanOrEqual(threshold)
}

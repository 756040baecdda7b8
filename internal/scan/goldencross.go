package scan

import (
	"time"

	"equitydesk/internal/indicator"
	"equitydesk/types"

	"github.com/shopspring/decimal"
)

const (
	shortWindow = 50
	longWindow  = 200
)

type CrossEvent struct {
	Symbol  string
	Date    time.Time
	Close   decimal.Decimal
	ShortMA decimal.Decimal
	LongMA  decimal.Decimal
}

// DetectGoldenCrosses finds the sessions where the 50-session average closed
// above the 200-session average after sitting at or below it the session
// before. Only crossovers on or after cutoff are reported.
func DetectGoldenCrosses(symbol string, candles []types.Candle, cutoff time.Time) []CrossEvent {
	if len(candles) < 2 {
		return nil
	}

	closes := indicator.Closes(candles)
	short := indicator.SMA(closes, shortWindow)
	long := indicator.SMA(closes, longWindow)

	var events []CrossEvent
	for i := 1; i < len(candles); i++ {
		crossed := short[i].GreaterThan(long[i]) && short[i-1].LessThanOrEqual(long[i-1])
		if !crossed {
			continue
		}
		if candles[i].Timestamp.Before(cutoff) {
			continue
		}
		events = append(events, CrossEvent{
			Symbol:  symbol,
			Date:    candles[i].Timestamp,
			Close:   closes[i],
			ShortMA: short[i],
			LongMA:  long[i],
		})
	}
	return events
}

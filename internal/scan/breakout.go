package scan

import (
	"time"

	"equitydesk/internal/indicator"
	"equitydesk/types"

	"github.com/shopspring/decimal"
)

// A breakout is fresh when the latest session's high exceeds the rolling
// 52-week high of every session before it.
const breakoutWindow = 252

type BreakoutHit struct {
	Symbol    string
	Date      time.Time
	High      decimal.Decimal
	PriorHigh decimal.Decimal
}

// DetectBreakout checks a daily candle series for a fresh 52-week breakout.
// The second return value is false when the series is too short to decide or
// no breakout is present.
func DetectBreakout(symbol string, candles []types.Candle) (BreakoutHit, bool) {
	if len(candles) < 2 {
		return BreakoutHit{}, false
	}

	highs := indicator.Highs(candles)
	rolling := indicator.RollingMax(highs, breakoutWindow)

	latest := candles[len(candles)-1]
	priorHigh := rolling[len(rolling)-2]
	if !latest.High.GreaterThan(priorHigh) {
		return BreakoutHit{}, false
	}
	return BreakoutHit{
		Symbol:    symbol,
		Date:      latest.Timestamp,
		High:      latest.High,
		PriorHigh: priorHigh,
	}, true
}

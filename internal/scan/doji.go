package scan

import (
	"time"

	"equitydesk/types"

	"github.com/shopspring/decimal"
)

// A session is a doji when it closes within 0.2% of its open. Symbols with
// at least two dojis over the last five sessions are reported.
var dojiThreshold = decimal.NewFromFloat(0.002)

const (
	dojiSessions = 5
	dojiMinCount = 2
)

type DojiHit struct {
	Symbol   string
	Count    int
	ScanDate time.Time
}

// CountDojis counts doji sessions over the last n candles of the series.
func CountDojis(candles []types.Candle, n int) int {
	start := len(candles) - n
	if start < 0 {
		start = 0
	}
	count := 0
	for _, c := range candles[start:] {
		if c.IsDoji(dojiThreshold) {
			count++
		}
	}
	return count
}

// DetectDojiCluster reports a symbol whose recent sessions contain enough
// dojis to qualify as a hit.
func DetectDojiCluster(symbol string, candles []types.Candle, scanDate time.Time) (DojiHit, bool) {
	count := CountDojis(candles, dojiSessions)
	if count < dojiMinCount {
		return DojiHit{}, false
	}
	return DojiHit{Symbol: symbol, Count: count, ScanDate: scanDate}, true
}

package risk

import (
	"errors"
	"fmt"

	"equitydesk/internal/indicator"

	"github.com/shopspring/decimal"
)

var (
	ErrBelowTrend     = errors.New("price below 50 EMA, stay out")
	ErrStopAbovePrice = errors.New("chosen stop EMA is above the current price")
	ErrUnknownSpan    = errors.New("span not part of the EMA ladder")
)

// LadderSpans are the daily EMAs the stop ladder is built from; 50 is the
// trend filter and not a valid stop.
var LadderSpans = []int{5, 7, 9, 12, 15, 21, 50}

const trendSpan = 50

// maxRiskFraction caps the loss at the stop to 0.1% of total capital.
var maxRiskFraction = decimal.NewFromFloat(0.001)

// Ladder holds the latest EMA value per span.
type Ladder map[int]decimal.Decimal

// EMALadder computes the latest EMA for every ladder span over a series of
// daily closes.
func EMALadder(closes []decimal.Decimal) (Ladder, error) {
	ladder := make(Ladder, len(LadderSpans))
	for _, span := range LadderSpans {
		value, err := indicator.LastEMA(closes, span)
		if err != nil {
			return nil, fmt.Errorf("ema %d: %w", span, err)
		}
		ladder[span] = value
	}
	return ladder, nil
}

// StopPlan is a trade sized off an EMA stop: risk a fixed fraction of
// capital between the current price and the chosen EMA.
type StopPlan struct {
	Span       int
	StopLoss   decimal.Decimal
	MaxRisk    decimal.Decimal
	ActualRisk decimal.Decimal
	Shares     int64
}

// PlanWithEMAStop sizes a position using the EMA at span as the stop.
// Refuses to plan when the price trades below the 50 EMA or below the
// chosen stop.
func PlanWithEMAStop(capital, price decimal.Decimal, ladder Ladder, span int) (StopPlan, error) {
	if !capital.IsPositive() || !price.IsPositive() {
		return StopPlan{}, fmt.Errorf("capital %s price %s: %w", capital, price, ErrInvalidInput)
	}
	trend, ok := ladder[trendSpan]
	if !ok {
		return StopPlan{}, fmt.Errorf("ladder missing trend EMA: %w", ErrUnknownSpan)
	}
	if price.LessThan(trend) {
		return StopPlan{}, fmt.Errorf("price %s below 50 EMA %s: %w", price, trend, ErrBelowTrend)
	}

	stop, ok := ladder[span]
	if !ok || span == trendSpan {
		return StopPlan{}, fmt.Errorf("span %d: %w", span, ErrUnknownSpan)
	}
	if price.LessThan(stop) {
		return StopPlan{}, fmt.Errorf("price %s below %d EMA %s: %w", price, span, stop, ErrStopAbovePrice)
	}

	perShare := price.Sub(stop)
	if perShare.IsZero() {
		return StopPlan{}, fmt.Errorf("stop equals price: %w", ErrStopAbovePrice)
	}
	maxRisk := capital.Mul(maxRiskFraction)
	shares := maxRisk.Div(perShare).IntPart()
	return StopPlan{
		Span:       span,
		StopLoss:   stop,
		MaxRisk:    maxRisk,
		ActualRisk: perShare.Mul(decimal.NewFromInt(shares)),
		Shares:     shares,
	}, nil
}

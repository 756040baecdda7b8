// Package indicator provides rolling statistics over candle series. All
// indicators operate on decimal values and mirror span-based semantics: a
// window that is not yet full is computed over the data available so far.
package indicator

import (
	"errors"

	"equitydesk/types"

	"github.com/shopspring/decimal"
)

var ErrEmptySeries = errors.New("empty price series")

// Closes extracts the close column from a candle series.
func Closes(candles []types.Candle) []decimal.Decimal {
	out := make([]decimal.Decimal, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high column from a candle series.
func Highs(candles []types.Candle) []decimal.Decimal {
	out := make([]decimal.Decimal, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// SMA returns the simple moving average of values over the given window.
// Positions before the window fills average over what is available.
func SMA(values []decimal.Decimal, window int) []decimal.Decimal {
	if window < 1 {
		window = 1
	}
	out := make([]decimal.Decimal, len(values))
	sum := decimal.Zero
	for i, v := range values {
		sum = sum.Add(v)
		if i >= window {
			sum = sum.Sub(values[i-window])
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum.Div(decimal.NewFromInt(int64(n)))
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1), seeded
// with the first value.
func EMA(values []decimal.Decimal, span int) []decimal.Decimal {
	if len(values) == 0 {
		return nil
	}
	if span < 1 {
		span = 1
	}
	alpha := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(span) + 1))
	oneMinusAlpha := decimal.NewFromInt(1).Sub(alpha)

	out := make([]decimal.Decimal, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i].Mul(alpha).Add(out[i-1].Mul(oneMinusAlpha))
	}
	return out
}

// LastEMA is the most recent EMA value for the series.
func LastEMA(values []decimal.Decimal, span int) (decimal.Decimal, error) {
	ema := EMA(values, span)
	if len(ema) == 0 {
		return decimal.Zero, ErrEmptySeries
	}
	return ema[len(ema)-1], nil
}

// RollingMax returns, per position, the maximum of values over the trailing
// window, with positions before the window fills using what is available.
func RollingMax(values []decimal.Decimal, window int) []decimal.Decimal {
	if window < 1 {
		window = 1
	}
	out := make([]decimal.Decimal, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		max := values[start]
		for j := start + 1; j <= i; j++ {
			if values[j].GreaterThan(max) {
				max = values[j]
			}
		}
		out[i] = max
	}
	return out
}

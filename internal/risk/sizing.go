// Package risk computes position sizes and stop-loss figures for a single
// prospective trade. All rules are deliberately conservative lookup tables;
// nothing here places orders.
package risk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoNewPositions = errors.New("day change outside sizing bands, no new positions")
	ErrInvalidInput   = errors.New("invalid sizing input")
)

// Sizing is the recommended deployment for one trade.
type Sizing struct {
	PositionSizePct  decimal.Decimal // percent of total capital
	CapitalDeployed  decimal.Decimal
	MaxRisk          decimal.Decimal
	RiskPctOfCapital decimal.Decimal
	Shares           int64
}

// The deployment fraction shrinks as the day move grows: chasing a stock
// that already ran 3% gets a quarter of the allocation of a quiet one.
type sizingBand struct {
	high     decimal.Decimal // inclusive upper bound of the day-change band
	fraction decimal.Decimal
}

var sizingBands = []sizingBand{
	{decimal.NewFromFloat(0.5), decimal.NewFromFloat(0.25)},
	{decimal.NewFromFloat(1.0), decimal.NewFromFloat(0.225)},
	{decimal.NewFromFloat(1.5), decimal.NewFromFloat(0.165)},
	{decimal.NewFromFloat(2.0), decimal.NewFromFloat(0.125)},
	{decimal.NewFromFloat(2.5), decimal.NewFromFloat(0.10)},
	{decimal.NewFromFloat(3.0), decimal.NewFromFloat(0.08)},
	{decimal.NewFromFloat(3.5), decimal.NewFromFloat(0.06)},
}

var minChange = decimal.NewFromFloat(0.01)

// SizeByDayChange sizes a new position from the stock's day change in
// percent. Changes below 0.01% or above 3.5% yield ErrNoNewPositions.
func SizeByDayChange(capital, price, changePct decimal.Decimal) (Sizing, error) {
	if !capital.IsPositive() || !price.IsPositive() {
		return Sizing{}, fmt.Errorf("capital %s price %s: %w", capital, price, ErrInvalidInput)
	}
	if changePct.LessThan(minChange) {
		return Sizing{}, ErrNoNewPositions
	}

	var fraction decimal.Decimal
	found := false
	for _, band := range sizingBands {
		if changePct.LessThanOrEqual(band.high) {
			fraction = band.fraction
			found = true
			break
		}
	}
	if !found {
		return Sizing{}, ErrNoNewPositions
	}

	deployed := capital.Mul(fraction)
	maxRisk := changePct.Mul(deployed).Div(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	return Sizing{
		PositionSizePct:  fraction.Mul(hundred),
		CapitalDeployed:  deployed,
		MaxRisk:          maxRisk,
		RiskPctOfCapital: maxRisk.Div(capital).Mul(hundred),
		Shares:           deployed.Div(price).IntPart(),
	}, nil
}

// WithCustomStop recomputes the risk figures of a sizing for a caller-chosen
// stop-loss price instead of the day-change proxy.
func (s Sizing) WithCustomStop(capital, price, stop decimal.Decimal) (Sizing, error) {
	if !stop.IsPositive() || stop.GreaterThanOrEqual(price) {
		return Sizing{}, fmt.Errorf("stop %s against price %s: %w", stop, price, ErrInvalidInput)
	}
	maxRisk := price.Sub(stop).Mul(decimal.NewFromInt(s.Shares))
	out := s
	out.MaxRisk = maxRisk
	out.RiskPctOfCapital = maxRisk.Div(capital).Mul(decimal.NewFromInt(100))
	return out, nil
}

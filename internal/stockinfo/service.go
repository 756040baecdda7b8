// Package stockinfo assembles a per-ticker summary: one year of price and
// volume extremes from daily history plus company fundamentals. Monetary
// aggregates are reported in thousand crores.
package stockinfo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equitydesk/types"

	"github.com/shopspring/decimal"
)

var ErrNoHistory = errors.New("no price history for summary")

// maxQuarters caps the fundamentals history to the most recent quarters.
const maxQuarters = 4

var thousandCrore = decimal.NewFromInt(10_000_000)

// ToThousandCrores rescales a raw currency amount for reporting.
func ToThousandCrores(value decimal.Decimal) decimal.Decimal {
	return value.Div(thousandCrore)
}

type marketData interface {
	History(ctx context.Context, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
	Fundamentals(ctx context.Context, symbol string) (types.Fundamentals, error)
}

type Service struct {
	source marketData
}

func NewService(source marketData) *Service {
	return &Service{source: source}
}

// Summarize builds the full summary for symbol: 365-day close and volume
// extremes plus fundamentals rescaled to thousand crores.
func (s *Service) Summarize(ctx context.Context, symbol string) (types.StockInfo, error) {
	end := time.Now()
	candles, err := s.source.History(ctx, symbol, types.Day, end.AddDate(-1, 0, 0), end)
	if err != nil {
		return types.StockInfo{}, fmt.Errorf("summary %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return types.StockInfo{}, fmt.Errorf("summary %s: %w", symbol, ErrNoHistory)
	}

	fundamentals, err := s.source.Fundamentals(ctx, symbol)
	if err != nil {
		return types.StockInfo{}, fmt.Errorf("summary %s: %w", symbol, err)
	}

	info := types.StockInfo{
		Symbol:     symbol,
		HighPrice:  candles[0].Close,
		LowPrice:   candles[0].Close,
		HighVolume: candles[0].Volume,
		LowVolume:  candles[0].Volume,
		MarketCap:  ToThousandCrores(fundamentals.MarketCap),
		Sector:     fundamentals.Sector,
		Industry:   fundamentals.Industry,
		TrailingPE: fundamentals.TrailingPE,
	}
	for _, c := range candles[1:] {
		if c.Close.GreaterThan(info.HighPrice) {
			info.HighPrice = c.Close
		}
		if c.Close.LessThan(info.LowPrice) {
			info.LowPrice = c.Close
		}
		if c.Volume.GreaterThan(info.HighVolume) {
			info.HighVolume = c.Volume
		}
		if c.Volume.LessThan(info.LowVolume) {
			info.LowVolume = c.Volume
		}
	}

	info.Revenue = rescaleQuarters(fundamentals.Revenue)
	info.NetIncome = rescaleQuarters(fundamentals.NetIncome)
	return info, nil
}

func rescaleQuarters(figures []types.QuarterFigure) []types.QuarterFigure {
	if len(figures) > maxQuarters {
		figures = figures[:maxQuarters]
	}
	out := make([]types.QuarterFigure, len(figures))
	for i, f := range figures {
		out[i] = types.QuarterFigure{Quarter: f.Quarter, Value: ToThousandCrores(f.Value)}
	}
	return out
}

package repository

import (
	"context"
	"errors"
	"time"

	"equitydesk/types"

	"github.com/jackc/pgx/v5"
)

// The cache stores the intervals the scanners actually work with.
var supportedIntervals = map[types.Interval]bool{
	types.Day:  true,
	types.Week: true,
}

func (db *Database) GetCandles(ctx context.Context, assetId int, symbol string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	if !supportedIntervals[interval] {
		return nil, ErrIntervalNotSupported
	}
	args := getCandlesParams{
		AssetID:  int32(assetId),
		Interval: string(interval),
		Start:    start,
		End:      end,
	}
	rows, err := db.candles.GetCandleRows(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoCandles
	}
	return convertCandles(rows, interval, assetId, symbol), nil
}

// SaveCandles writes a fetched series through to the cache. Sessions already
// present are left untouched.
func (db *Database) SaveCandles(ctx context.Context, assetId int, candles []types.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	interval := candles[0].Interval
	if !supportedIntervals[interval] {
		return ErrIntervalNotSupported
	}
	rows := make([]candleRow, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, candleRow{
			Ts:     c.Timestamp,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return db.candles.InsertCandleRows(ctx, assetId, string(interval), rows)
}

func convertCandles(rows []candleRow, interval types.Interval, assetId int, symbol string) []types.Candle {
	var candles []types.Candle
	for _, row := range rows {
		candles = append(candles, types.Candle{
			AssetId:   assetId,
			Symbol:    symbol,
			Open:      row.Open,
			Close:     row.Close,
			High:      row.High,
			Low:       row.Low,
			Volume:    row.Volume,
			Interval:  interval,
			Timestamp: row.Ts,
		})
	}
	return candles
}
